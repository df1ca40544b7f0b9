package common

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "PORT", "GRPC_ADDR", "OCR_DPI", "CATALOG_SOURCE", "CORS_ORIGINS", "FETCH_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, ":8000", cfg.Server.HTTPAddr)
	assert.Equal(t, ":8080", cfg.Server.GRPCAddr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "builtin", cfg.Catalog.Source)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("OCR_DPI", "not-a-number")
	cfg := LoadConfig()

	assert.Equal(t, ":9000", cfg.Server.HTTPAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 300, cfg.OCR.DPI)
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCR.Concurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "OCR_CONCURRENCY must be positive", UserMessage(err))
}

func TestAppErrors(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := FetchError("Failed to download PDF. Error: dial tcp: refused", cause)

	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeFetchFailure, err.Code)
	assert.Equal(t, "Failed to download PDF. Error: dial tcp: refused", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{FetchError("Failed to download PDF. Status code: 404", errors.New("404")), codes.Unavailable},
		{ConversionError("Failed to convert PDF to images. Error: bad", errors.New("bad")), codes.InvalidArgument},
		{errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		st, ok := status.FromError(ToStatus(tc.err))
		require.True(t, ok)
		assert.Equal(t, tc.code, st.Code())
		assert.Equal(t, UserMessage(tc.err), st.Message())
	}
	assert.NoError(t, ToStatus(nil))
}

func TestRequestIDContext(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	again, same := EnsureRequestID(ctx)
	assert.Equal(t, id, same)
	assert.Equal(t, id, RequestIDFromContext(again))

	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{Level: "info", Format: "json"})
	LoggerFromContext(WithRequestID(context.Background(), "req-1"), logger).Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{Level: "warn", Format: "text"})
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "msg=shown")
}
