package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/labreport/internal/ocr"
)

// Rasterizer renders document bytes into page images. A malformed document is a
// conversion failure.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) (*ocr.RenderedDocument, error)
}

// Recognizer turns one page image into text. It never fails; an unreadable page is "".
type Recognizer interface {
	Recognize(ctx context.Context, img ocr.Image) string
}

// TextExtractor is Stage 1: document bytes -> report text.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	Method     string // "pdf-ocr"
	Duration   time.Duration
	Confidence float32
	EmptyPages []int
}
