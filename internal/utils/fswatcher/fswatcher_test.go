package fswatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelevant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connections.yaml")

	assert.True(t, IsRelevant(Event{Name: path, Op: fsnotify.Write}, path))
	assert.True(t, IsRelevant(Event{Name: path, Op: fsnotify.Create}, path))
	assert.False(t, IsRelevant(Event{Name: path, Op: fsnotify.Chmod}, path))
	assert.False(t, IsRelevant(Event{Name: path + ".swp", Op: fsnotify.Write}, path))
}

func TestWatchFile_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "connections.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, 100*time.Millisecond, func() { calls.Add(1) }, nil)
	}()

	// let the watcher register before writing
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("- name: local\n"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := WatchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "file.yaml"), 0, func() {}, nil)
	assert.Error(t, err)
}
