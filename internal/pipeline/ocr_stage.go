package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/extract"
	"github.com/joseph-ayodele/labreport/internal/fetch"
)

// Fetcher downloads the source document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Document, error)
}

// OCRStage downloads a report and recognizes its text. Both failures here are fatal for
// the request.
type OCRStage struct {
	Fetcher       Fetcher
	TextExtractor extract.TextExtractor
	Logger        *slog.Logger
}

func NewOCRStage(f Fetcher, tx extract.TextExtractor, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{Fetcher: f, TextExtractor: tx, Logger: logger}
}

// Run returns the page-marked text of the document at url.
func (s *OCRStage) Run(ctx context.Context, url string) (extract.TextExtractionResult, error) {
	logger := common.LoggerFromContext(ctx, s.Logger)

	doc, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		logger.Error("pipeline.fetch.failed", "url", url, "err", err)
		return extract.TextExtractionResult{}, err
	}
	logger.Info("pipeline.fetch.ok", "url", url, "bytes", len(doc.Data), "content_type", doc.ContentType)

	return s.RunBytes(ctx, url, doc.Data)
}

// RunBytes recognizes the text of an already-loaded document. source only labels log lines.
func (s *OCRStage) RunBytes(ctx context.Context, source string, data []byte) (extract.TextExtractionResult, error) {
	logger := common.LoggerFromContext(ctx, s.Logger)

	res, err := s.TextExtractor.Extract(ctx, data)
	if err != nil {
		logger.Error("pipeline.ocr.failed", "source", source, "err", err)
		return res, err
	}
	logger.Info("pipeline.ocr.ok",
		"pages", res.Pages,
		"empty_pages", len(res.EmptyPages),
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	if len(res.EmptyPages) == res.Pages {
		logger.Warn("pipeline.ocr.no_text", "pages", res.Pages)
	}
	return res, nil
}
