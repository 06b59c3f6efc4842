package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher_EmitsCreateForMatchingFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{"txt"}, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("hello"), 0o644))

	select {
	case ev := <-events:
		assert.Equal(t, filepath.Join(dir, "doc.txt"), ev.Path)
		assert.Equal(t, "created", ev.Op)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestWatcher_ClosesChannelOnCancel(t *testing.T) {
	dir := t.TempDir()

	w, err := New(nil, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w, err := New([]string{"txt"}, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
