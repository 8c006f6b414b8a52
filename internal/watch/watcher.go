// Package watch re-runs a callback when files under a set of directories
// change, batching bursts of events with a debounce delay.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called once per debounced batch with the changed paths in
// sorted order. Returning an error stops the watcher.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher observes directory trees for file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	roots    []string
	debounce time.Duration
}

// New creates a watcher over roots. Roots that do not exist yet are
// skipped; their parents are not watched.
func New(roots []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{fsw: fsw, roots: roots, debounce: debounce}, nil
}

// Run blocks until ctx is cancelled or onChange fails. It closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.fsw.Close()

	for _, root := range w.roots {
		if err := w.addRecursive(root); err != nil {
			return err
		}
	}
	log.Printf("[watch] watching %s (debounce %s)", strings.Join(w.roots, ", "), w.debounce)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) && !hidden(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						log.Printf("[watch] warning: %v", err)
					}
				}
			}
			pending[event.Name] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			log.Printf("[watch] %d paths changed", len(changed))
			if err := onChange(ctx, changed); err != nil {
				return err
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("[watch] error: %v", err)
		}
	}
}

// addRecursive watches dir and every directory below it.
func (w *Watcher) addRecursive(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[watch] skipping missing directory %s", dir)
		return nil
	}
	return err
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
