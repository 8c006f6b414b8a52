package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, roots []string, onChange ChangeFunc) (context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(roots, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, onChange) }()
	t.Cleanup(cancel)

	// Give Run time to register the roots.
	time.Sleep(100 * time.Millisecond)
	return cancel, done
}

func TestWatcher_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	batches := make(chan []string, 10)

	cancel, done := startWatcher(t, []string{root}, func(ctx context.Context, changed []string) error {
		batches <- changed
		return nil
	})

	path := filepath.Join(root, "spec.md")
	require.NoError(t, os.WriteFile(path, []byte("## Purpose\n"), 0644))

	select {
	case changed := <-batches:
		assert.Contains(t, changed, path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	batches := make(chan []string, 10)

	startWatcher(t, []string{root}, func(ctx context.Context, changed []string) error {
		batches <- changed
		return nil
	})

	sub := filepath.Join(root, "auth")
	require.NoError(t, os.Mkdir(sub, 0755))

	// Drain the batch for the directory itself.
	select {
	case <-batches:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for directory batch")
	}

	path := filepath.Join(sub, "spec.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-batches:
			for _, p := range changed {
				if p == path {
					return
				}
			}
		case <-deadline:
			t.Fatal("change in new directory was not reported")
		}
	}
}

func TestWatcher_CallbackErrorStops(t *testing.T) {
	root := t.TempDir()
	boom := errors.New("boom")

	_, done := startWatcher(t, []string{root}, func(ctx context.Context, changed []string) error {
		return boom
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.yaml"), []byte("name: a"), 0644))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after callback error")
	}
}

func TestWatcher_MissingRootIsSkipped(t *testing.T) {
	root := t.TempDir()
	cancel, done := startWatcher(t, []string{filepath.Join(root, "missing"), root}, func(ctx context.Context, changed []string) error {
		return nil
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestNew_DefaultDebounce(t *testing.T) {
	w, err := New(nil, 0)
	require.NoError(t, err)
	defer w.fsw.Close()
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestHidden(t *testing.T) {
	assert.True(t, hidden("/a/.git"))
	assert.False(t, hidden("/a/specs"))
}
