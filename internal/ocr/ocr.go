// Package ocr renders PDF reports to page images with pdftoppm and recognizes them with
// tesseract.
package ocr

import (
	"log/slog"
	"os"

	"github.com/joseph-ayodele/labreport/internal/common"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI, default 300
	MaxPages      int // 0 = no limit
	PSM           int // 0 = tesseract default
}

// ConfigFrom maps the application OCR settings onto the engine config.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Pdftoppm:      c.Pdftoppm,
		Tesseract:     c.Tesseract,
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
		MaxPages:      c.MaxPages,
		PSM:           c.PSM,
	}
}

// Image is one rendered page.
type Image struct {
	Page int // 1-based
	Path string
}

// RenderedDocument holds the page images of one document. Close removes them.
type RenderedDocument struct {
	Images []Image
	dir    string
	logger *slog.Logger
}

// Close deletes the temporary page images.
func (d *RenderedDocument) Close() {
	if d == nil || d.dir == "" {
		return
	}
	if err := os.RemoveAll(d.dir); err != nil {
		d.logger.Warn("ocr.cleanup_failed", "dir", d.dir, "error", err)
	}
}

// Engine implements rasterization and recognition over external binaries.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunner replaces the exec runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(e *Engine) {
		if r != nil {
			e.runner = r
		}
	}
}

func NewEngine(cfg Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	e := &Engine{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}
