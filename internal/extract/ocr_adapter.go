// Package extract turns a downloaded report into page-marked text.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/labreport/constants"
	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/ocr"
)

// OCRAdapter rasterizes a document and recognizes its pages, up to concurrency at a time.
type OCRAdapter struct {
	raster      Rasterizer
	recog       Recognizer
	concurrency int
	logger      *slog.Logger
}

func NewOCRAdapter(raster Rasterizer, recog Recognizer, concurrency int, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &OCRAdapter{raster: raster, recog: recog, concurrency: concurrency, logger: logger}
}

// Extract returns the recognized text with each page prefixed by its page marker, in
// page order regardless of recognition order.
func (a *OCRAdapter) Extract(ctx context.Context, pdf []byte) (TextExtractionResult, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, a.logger)

	doc, err := a.raster.Rasterize(ctx, pdf)
	if err != nil {
		return TextExtractionResult{}, err
	}
	defer doc.Close()

	texts := make([]string, len(doc.Images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, img := range doc.Images {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			texts[i] = a.recog.Recognize(gctx, img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TextExtractionResult{}, fmt.Errorf("recognize pages: %w", err)
	}

	res := TextExtractionResult{Pages: len(texts), Method: "pdf-ocr"}
	var b strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&b, constants.PageMarkerFormat, i+1)
		b.WriteString(t)
		if strings.TrimSpace(t) == "" {
			res.EmptyPages = append(res.EmptyPages, i+1)
		}
	}
	res.Text = b.String()
	res.Confidence = ocr.HeuristicConfidence(res.Text)
	res.Duration = time.Since(start)

	logger.Debug("extract.ocr.done",
		"pages", res.Pages,
		"empty_pages", len(res.EmptyPages),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
