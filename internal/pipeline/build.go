package pipeline

import (
	"log/slog"

	"github.com/joseph-ayodele/labreport/internal/catalog"
	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/extract"
	"github.com/joseph-ayodele/labreport/internal/fetch"
	"github.com/joseph-ayodele/labreport/internal/interpret"
	"github.com/joseph-ayodele/labreport/internal/ocr"
)

// NewFromConfig wires the production stages: HTTP fetcher, pdftoppm/tesseract OCR
// and the interpretation engine over cat.
func NewFromConfig(cfg *common.Config, cat *catalog.Catalog, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}

	fetcher := fetch.New(cfg.Fetch, fetch.WithLogger(logger))
	ocrEngine := ocr.NewEngine(ocr.ConfigFrom(cfg.OCR), logger)
	extractor := extract.NewOCRAdapter(ocrEngine, ocrEngine, cfg.OCR.Concurrency, logger)
	engine := interpret.NewEngine(cat, interpret.WithLogger(logger))

	return NewProcessor(logger,
		NewOCRStage(fetcher, extractor, logger),
		NewParseStage(engine, logger),
	)
}
