package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, sourceDir string, rebuilds *atomic.Int32) context.CancelFunc {
	t.Helper()

	done := make(chan struct{})
	w, err := New(sourceDir, func(context.Context) error {
		rebuilds.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()

	// Give the watcher time to register before events fire.
	time.Sleep(100 * time.Millisecond)
	return cancel
}

func waitFor(t *testing.T, cond func() bool, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_RebuildsOnTexChange(t *testing.T) {
	dir := t.TempDir()
	texFile := filepath.Join(dir, "doc", "guide", "src", "ch1.tex")
	require.NoError(t, os.MkdirAll(filepath.Dir(texFile), 0o755))
	require.NoError(t, os.WriteFile(texFile, []byte("\\chapter{One}\n"), 0o644))

	var rebuilds atomic.Int32
	cancel := startWatcher(t, dir, &rebuilds)
	defer cancel()

	require.NoError(t, os.WriteFile(texFile, []byte("\\chapter{One}\nchanged\n"), 0o644))
	assert.True(t, waitFor(t, func() bool { return rebuilds.Load() >= 1 }, 3*time.Second))
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "doc", "guide", "src")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))

	var rebuilds atomic.Int32
	cancel := startWatcher(t, dir, &rebuilds)
	defer cancel()

	for i := 0; i < 5; i++ {
		name := filepath.Join(srcDir, "burst.tex")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.True(t, waitFor(t, func() bool { return rebuilds.Load() >= 1 }, 3*time.Second))
	// Allow any stragglers to flush, then confirm the burst collapsed.
	time.Sleep(200 * time.Millisecond)
	assert.LessOrEqual(t, rebuilds.Load(), int32(2))
}

func TestWatcher_IgnoresNonTexFiles(t *testing.T) {
	dir := t.TempDir()
	docDir := filepath.Join(dir, "doc")
	require.NoError(t, os.MkdirAll(docDir, 0o755))

	var rebuilds atomic.Int32
	cancel := startWatcher(t, dir, &rebuilds)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(docDir, "README.md"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, rebuilds.Load())
}
