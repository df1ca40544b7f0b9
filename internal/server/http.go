package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/pipeline"
)

const errNoURL = "No PDF URL provided."

// maxRequestBody caps the JSON request; it only carries a URL.
const maxRequestBody = 64 << 10

// Processor analyzes the report at a URL.
type Processor interface {
	Process(ctx context.Context, url string) (pipeline.Report, error)
}

// Exporter renders an analyzed report as a workbook.
type Exporter interface {
	ExportReportXLSX(ctx context.Context, rep pipeline.Report) ([]byte, error)
}

type extractRequest struct {
	PDFURL string `json:"pdf_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the report analysis HTTP API.
type Handler struct {
	proc     Processor
	exporter Exporter
	logger   *slog.Logger
}

func NewHandler(proc Processor, exporter Exporter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{proc: proc, exporter: exporter, logger: logger}
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/extract-info", h.handleExtractInfo)
	r.Post("/extract-info/xlsx", h.handleExportXLSX)
	r.Get("/healthz", h.handleHealth)
}

func (h *Handler) handleExtractInfo(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.process(w, r)
	if !ok {
		return
	}
	writeJson(w, http.StatusOK, rep)
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusNotImplemented, errors.New("export is not configured"))
		return
	}
	rep, ok := h.process(w, r)
	if !ok {
		return
	}
	b, err := h.exporter.ExportReportXLSX(r.Context(), rep)
	if err != nil {
		common.LoggerFromContext(r.Context(), h.logger).Error("http.export.failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// process decodes the request and runs the pipeline, writing the error response itself.
func (h *Handler) process(w http.ResponseWriter, r *http.Request) (pipeline.Report, bool) {
	logger := common.LoggerFromContext(r.Context(), h.logger)

	var req extractRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err == nil && len(body) > 0 {
		if jerr := json.Unmarshal(body, &req); jerr != nil {
			logger.Warn("http.extract.bad_json", "err", jerr)
		}
	}
	url := strings.TrimSpace(req.PDFURL)
	if url == "" {
		writeError(w, http.StatusBadRequest, errors.New(errNoURL))
		return pipeline.Report{}, false
	}

	rep, err := h.proc.Process(r.Context(), url)
	if err != nil {
		logger.Error("http.extract.failed", "url", url, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return pipeline.Report{}, false
	}
	return rep, true
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJson(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJson(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	text := http.StatusText(code)

	if err != nil {
		text = common.UserMessage(err)
	}

	writeJson(w, code, errorResponse{Error: text})
}
