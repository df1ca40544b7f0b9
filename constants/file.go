package constants

import (
	"bytes"
	"strings"
)

// FileTypes holds the document formats the pipeline accepts.
var FileTypes = []string{"PDF"}

// PDFMagic is the header every PDF file starts with.
var PDFMagic = []byte("%PDF-")

// AllowedContentTypes holds the response content types accepted when downloading a report.
// Empty and octet-stream are accepted because many file hosts do not label PDFs.
var AllowedContentTypes = map[string]struct{}{
	"application/pdf":          {},
	"application/x-pdf":        {},
	"application/octet-stream": {},
	"binary/octet-stream":      {},
	"":                         {},
}

// NormalizeContentType lowercases and drops parameters from a Content-Type header.
func NormalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// LooksLikePDF reports whether data starts with the PDF header, ignoring leading whitespace.
func LooksLikePDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), PDFMagic)
}
