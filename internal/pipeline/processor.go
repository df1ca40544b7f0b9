// Package pipeline sequences fetch, OCR, extraction and interpretation for one report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/extract"
	"github.com/joseph-ayodele/labreport/internal/interpret"
	"github.com/joseph-ayodele/labreport/internal/report"
)

// Report is the analyzed document. Only the first three fields are part of the API body.
type Report struct {
	BasicInfo   report.BasicInfo `json:"basic_info"`
	Summary     []string         `json:"summary"`
	Precautions []string         `json:"precautions"`

	Results     *report.ResultTable    `json:"-"`
	Evaluations []interpret.Evaluation `json:"-"`
	Text        string                 `json:"-"`
	Pages       int                    `json:"-"`
	Confidence  float32                `json:"-"`
}

// Processor coordinates OCR (fetch + text extract) then parse (fields, results, interpretation).
type Processor struct {
	Logger *slog.Logger
	OCR    *OCRStage
	Parse  *ParseStage
}

func NewProcessor(logger *slog.Logger, ocr *OCRStage, parse *ParseStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, OCR: ocr, Parse: parse}
}

// Process analyzes the document at url. Only fetch and conversion failures are returned.
func (p *Processor) Process(ctx context.Context, url string) (Report, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	logger := p.Logger.With("request_id", reqID)

	// 1) OCR stage → download + rasterize + recognize
	ocrRes, err := p.OCR.Run(ctx, url)
	if err != nil {
		logger.Error("processor.ocr.failed", "url", url, "err", err)
		return Report{}, err
	}

	// 2) Parse stage → fields, results, interpretation
	rep := p.finish(ctx, ocrRes)
	logger.Info("processor.ok", "url", url, "pages", rep.Pages, "summary", len(rep.Summary))
	return rep, nil
}

// ProcessFile analyzes a PDF on local disk. An unreadable file is reported like a failed download.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Report, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	logger := p.Logger.With("request_id", reqID)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("processor.read.failed", "path", path, "err", err)
		return Report{}, common.FetchError(fmt.Sprintf("Failed to read PDF. Error: %v", err), err)
	}

	ocrRes, err := p.OCR.RunBytes(ctx, path, data)
	if err != nil {
		logger.Error("processor.ocr.failed", "path", path, "err", err)
		return Report{}, err
	}

	rep := p.finish(ctx, ocrRes)
	logger.Info("processor.ok", "path", path, "pages", rep.Pages, "summary", len(rep.Summary))
	return rep, nil
}

// ProcessText analyzes already-recognized text.
func (p *Processor) ProcessText(ctx context.Context, text string) Report {
	ctx, _ = common.EnsureRequestID(ctx)
	return p.Parse.Run(ctx, text)
}

func (p *Processor) finish(ctx context.Context, res extract.TextExtractionResult) Report {
	rep := p.Parse.Run(ctx, res.Text)
	rep.Pages = res.Pages
	rep.Confidence = res.Confidence
	return rep
}
