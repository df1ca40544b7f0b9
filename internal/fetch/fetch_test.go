package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/labreport/internal/common"
)

func TestFetch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf; charset=binary")
		_, _ = w.Write([]byte("%PDF-1.4 body"))
	}))
	defer srv.Close()

	f := New(common.FetchConfig{Timeout: 5 * time.Second, MaxBytes: 1024})
	doc, err := f.Fetch(context.Background(), srv.URL+"/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 body"), doc.Data)
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := New(common.FetchConfig{}, WithHTTPClient(srv.Client()))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFetch))
	assert.Equal(t, "Failed to download PDF. Status code: 404", common.UserMessage(err))

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeFetchFailure, appErr.Code)
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	f := New(common.FetchConfig{MaxBytes: 16})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetch)
	assert.Contains(t, common.UserMessage(err), "exceeds 16 bytes")
}

func TestFetch_InvalidURL(t *testing.T) {
	f := New(common.FetchConfig{})
	_, err := f.Fetch(context.Background(), "://not-a-url")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetch)
}

func TestFetch_UnexpectedContentTypeStillReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	doc, err := New(common.FetchConfig{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "text/html", doc.ContentType)
}
