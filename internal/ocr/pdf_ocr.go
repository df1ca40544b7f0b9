package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/joseph-ayodele/labreport/constants"
	"github.com/joseph-ayodele/labreport/internal/common"
)

func conversionError(err error) error {
	return common.ConversionError(fmt.Sprintf("Failed to convert PDF to images. Error: %v", err), err)
}

// Rasterize renders every page of a PDF to PNG. The caller must Close the result.
// Unreadable documents and empty renders are conversion failures.
func (e *Engine) Rasterize(ctx context.Context, pdf []byte) (*RenderedDocument, error) {
	if !constants.LooksLikePDF(pdf) {
		return nil, conversionError(errors.New("document is not a PDF"))
	}

	tmpDir, err := os.MkdirTemp("", "labreport-pp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	doc := &RenderedDocument{dir: tmpDir, logger: e.logger}
	fail := func(err error) (*RenderedDocument, error) {
		doc.Close()
		return nil, err
	}

	in := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return fail(fmt.Errorf("write pdf: %w", err))
	}

	// pdftoppm repairs documents pdfcpu cannot read, so a failed count is only logged.
	pageCount, err := countPages(in)
	if err != nil {
		e.logger.Warn("ocr.pdf.unreadable", "error", err)
	} else {
		e.logger.Debug("ocr.pdf.pages", "pages", pageCount)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png [-l N] <in.pdf> <tmp/page>
	args := []string{"-r", strconv.Itoa(e.cfg.DPI), "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, in, prefix)
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		if ctx.Err() != nil {
			return fail(ctx.Err())
		}
		return fail(conversionError(fmt.Errorf("%w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))))
	}

	// pdftoppm zero-pads page numbers to a common width, so lexical order is page order.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return fail(conversionError(errors.New("no pages rendered")))
	}

	for i, m := range matches {
		doc.Images = append(doc.Images, Image{Page: i + 1, Path: m})
	}
	if pageCount > 0 && len(doc.Images) < pageCount && e.cfg.MaxPages == 0 {
		e.logger.Warn("ocr.pdf.missing_pages", "expected", pageCount, "rendered", len(doc.Images))
	}
	return doc, nil
}

// countPages reports the page count pdfcpu sees. pdfcpu panics on some truncated files.
func countPages(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("pdfcpu: %v", r)
		}
	}()
	return api.PageCountFile(path)
}
