package ocr

import (
	"context"
	"strconv"
)

// Recognize returns the text of one page image. Recognition failures are logged and yield
// an empty page so the rest of the document is still analyzed.
func (e *Engine) Recognize(ctx context.Context, img Image) string {
	txt, err := e.tesseractOCR(ctx, img.Path)
	if err != nil {
		e.logger.Warn("ocr.page.failed", "page", img.Page, "error", err)
		return ""
	}
	return Normalize(txt)
}

func (e *Engine) tesseractOCR(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", &execError{cmd: "tesseract", stderr: string(errb), err: err}
	}
	return string(out), nil
}

type execError struct {
	cmd    string
	stderr string
	err    error
}

func (e *execError) Error() string {
	if e.stderr == "" {
		return e.cmd + ": " + e.err.Error()
	}
	return e.cmd + ": " + e.err.Error() + ": " + truncate(e.stderr, 512)
}

func (e *execError) Unwrap() error { return e.err }
