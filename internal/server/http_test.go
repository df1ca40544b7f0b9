package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/export"
	"github.com/joseph-ayodele/labreport/internal/pipeline"
	"github.com/joseph-ayodele/labreport/internal/report"
)

type fakeProcessor struct {
	rep  pipeline.Report
	err  error
	urls []string
}

func (f *fakeProcessor) Process(_ context.Context, url string) (pipeline.Report, error) {
	f.urls = append(f.urls, url)
	return f.rep, f.err
}

func sampleReport() pipeline.Report {
	results := report.NewResultTable()
	results.Set("Platelet Count", report.TestRecord{Result: "120", Units: "thou/mm3", Interval: "150-410"})
	return pipeline.Report{
		BasicInfo:   report.BasicInfo{{Name: "Lab No.", Value: "777"}, {Name: "Age", Value: "45"}},
		Summary:     []string{"Platelet count is low (120.0 thou/mm3). Risk of bleeding or bruising."},
		Precautions: []string{"Avoid activities that may cause bruising or injury. Consult a doctor if symptoms worsen."},
		Results:     results,
	}
}

func newTestRouter(p Processor) http.Handler {
	r := chi.NewRouter()
	NewHandler(p, export.NewService(nil), nil).Attach(r)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestExtractInfo_OK(t *testing.T) {
	p := &fakeProcessor{rep: sampleReport()}
	rec := post(t, newTestRouter(p), "/extract-info", `{"pdf_url":"https://example.com/r.pdf"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"basic_info": {"Lab No.": "777", "Age": "45"},
		"summary": ["Platelet count is low (120.0 thou/mm3). Risk of bleeding or bruising."],
		"precautions": ["Avoid activities that may cause bruising or injury. Consult a doctor if symptoms worsen."]
	}`, rec.Body.String())
	// Field order is preserved on the wire.
	assert.Less(t, strings.Index(rec.Body.String(), "Lab No."), strings.Index(rec.Body.String(), "Age"))
	assert.Equal(t, []string{"https://example.com/r.pdf"}, p.urls)
}

func TestExtractInfo_MissingURL(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"pdf_url":""}`, `{"pdf_url":"   "}`, `not json`} {
		p := &fakeProcessor{}
		rec := post(t, newTestRouter(p), "/extract-info", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"No PDF URL provided."}`, rec.Body.String(), body)
		assert.Empty(t, p.urls)
	}
}

func TestExtractInfo_PipelineFailure(t *testing.T) {
	p := &fakeProcessor{err: common.FetchError("Failed to download PDF. Status code: 404", errors.New("non-2xx status: 404"))}
	rec := post(t, newTestRouter(p), "/extract-info", `{"pdf_url":"https://example.com/missing.pdf"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to download PDF. Status code: 404"}`, rec.Body.String())
}

func TestExportXLSX(t *testing.T) {
	p := &fakeProcessor{rep: sampleReport()}
	rec := post(t, newTestRouter(p), "/extract-info/xlsx", `{"pdf_url":"https://example.com/r.pdf"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetResults)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Platelet Count", rows[1][0])
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&fakeProcessor{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_RateLimitAndRequestID(t *testing.T) {
	cfg := common.ServerConfig{RateLimitRPS: 0.001, RateLimitBurst: 1, CORSOrigins: []string{"*"}}
	h := NewRouter(cfg, NewHandler(&fakeProcessor{}, nil, nil), nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, string(body))
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := common.ServerConfig{CORSOrigins: []string{"https://app.example.com"}}
	h := NewRouter(cfg, NewHandler(&fakeProcessor{}, nil, nil), nil)

	req := httptest.NewRequest(http.MethodOptions, "/extract-info", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
