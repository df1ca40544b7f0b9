// Package fetch downloads report documents over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joseph-ayodele/labreport/constants"
	"github.com/joseph-ayodele/labreport/internal/common"
)

// Document is a downloaded report.
type Document struct {
	URL         string
	ContentType string
	Data        []byte
}

// Fetcher downloads documents with a size cap.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New builds a Fetcher from config. The default client traces requests through otelhttp.
func New(cfg common.FetchConfig, opts ...Option) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxBytes: maxBytes,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch downloads url. Any failure is a fetch failure carrying the message returned to callers.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Document, error) {
	logger := common.LoggerFromContext(ctx, f.logger)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, common.FetchError(fmt.Sprintf("Failed to download PDF. Error: %v", err), err)
	}
	req.Header.Set("Accept", "application/pdf, */*")

	logger.Info("fetch.request", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		logger.Error("fetch.send_error", "url", url, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Document{}, common.FetchError(fmt.Sprintf("Failed to download PDF. Error: %v", err), err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn("fetch.response_body_close_error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode/100 != 2 {
		logger.Warn("fetch.bad_status", "url", url, "status", resp.StatusCode)
		return Document{}, common.FetchError(
			fmt.Sprintf("Failed to download PDF. Status code: %d", resp.StatusCode),
			fmt.Errorf("non-2xx status: %d", resp.StatusCode),
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return Document{}, common.FetchError(fmt.Sprintf("Failed to download PDF. Error: %v", err), err)
	}
	if int64(len(data)) > f.maxBytes {
		return Document{}, common.FetchError(
			fmt.Sprintf("Failed to download PDF. Document exceeds %d bytes", f.maxBytes),
			fmt.Errorf("body larger than %d bytes", f.maxBytes),
		)
	}

	ct := constants.NormalizeContentType(resp.Header.Get("Content-Type"))
	if _, ok := constants.AllowedContentTypes[ct]; !ok {
		// Conversion decides whether the bytes are usable.
		logger.Warn("fetch.unexpected_content_type", "url", url, "content_type", ct)
	}

	logger.Info("fetch.response",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(data),
		"content_type", ct,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Document{URL: url, ContentType: ct, Data: data}, nil
}
