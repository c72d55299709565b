package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type changes struct {
	mu    sync.Mutex
	calls [][]string
}

func (c *changes) record(_ context.Context, paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, paths)
}

func (c *changes) snapshot() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.calls...)
}

func TestWatcher_ReportsDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "doc.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(watched, []byte("# one"), 0o600))

	got := &changes{}
	w, err := New([]string{watched}, got.record, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("# edit"), 0o600))
	}
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))

	require.Eventually(t, func() bool { return len(got.snapshot()) >= 1 }, 5*time.Second, 10*time.Millisecond)
	calls := got.snapshot()
	abs, err := filepath.Abs(watched)
	require.NoError(t, err)
	require.Equal(t, []string{abs}, calls[0])
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\n"), 0o600))

	w, err := New([]string{path}, func(context.Context, []string) {})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "missing", "doc.md")}, func(context.Context, []string) {})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.Error(t, w.Start(context.Background()))
}
