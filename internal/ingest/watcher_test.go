package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitPath(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no path emitted")
		return ""
	}
}

func TestAllowed(t *testing.T) {
	exts := DefaultExts()
	assert.True(t, Allowed("/in/report.pdf", exts))
	assert.True(t, Allowed("/in/REPORT.PDF", exts))
	assert.False(t, Allowed("/in/scan.png", exts))
	assert.False(t, Allowed("/in/noext", exts))
}

func TestWatch_NoRoots(t *testing.T) {
	_, _, err := Watch(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}

func TestWatch_InitialScan(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "old.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := Watch(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, existing, waitPath(t, events))
}

func TestWatch_NewFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := Watch(ctx, WatchConfig{Roots: []string{dir}, Debounce: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	created := filepath.Join(dir, "new.pdf")
	require.NoError(t, os.WriteFile(created, []byte("%PDF-1.4"), 0o644))
	assert.Equal(t, created, waitPath(t, events))
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events, errs, err := Watch(ctx, WatchConfig{Roots: []string{t.TempDir()}}, nil)
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	_, ok := <-errs
	assert.False(t, ok)
}

func TestQueueable(t *testing.T) {
	exts := DefaultExts()
	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"create", fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Write}, true},
		{"rename carries old path", fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Rename}, false},
		{"remove", fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: "/in/a.json", Op: fsnotify.Create}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, queueable(tc.ev, exts))
		})
	}
}

func TestWatch_MoveOutIsNotEmitted(t *testing.T) {
	dir, elsewhere := t.TempDir(), t.TempDir()
	moved := filepath.Join(dir, "moved.pdf")
	require.NoError(t, os.WriteFile(moved, []byte("%PDF-1.4"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := Watch(ctx, WatchConfig{Roots: []string{dir}}, nil)
	require.NoError(t, err)

	require.NoError(t, os.Rename(moved, filepath.Join(elsewhere, "moved.pdf")))
	created := filepath.Join(dir, "after.pdf")
	require.NoError(t, os.WriteFile(created, []byte("%PDF-1.4"), 0o644))

	assert.Equal(t, created, waitPath(t, events))
}
