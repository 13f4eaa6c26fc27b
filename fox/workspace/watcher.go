package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/fox/project"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long a Watcher waits for a burst of events to
// settle before reporting.
const DefaultDelay = 100 * time.Millisecond

// Watcher reports changed Fox files below a directory tree. Events are
// batched: OnChange runs once Delay has passed without new events.
type Watcher struct {
	w        *fsnotify.Watcher
	root     string
	Delay    time.Duration
	OnChange func(paths []string)

	mu      sync.Mutex
	pending map[string]bool
}

func NewWatcher(root string, onChange func(paths []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		w:        fw,
		root:     root,
		Delay:    DefaultDelay,
		OnChange: onChange,
		pending:  make(map[string]bool),
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and every directory below it, hidden ones aside.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers batches until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.Delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if w.handle(ev) {
				timer.Reset(w.Delay)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch %s: %s", w.root, err)
		case <-timer.C:
			w.flush()
		}
	}
}

// handle records ev and reports whether it is worth a batch.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log.Warningf("%s", err)
			}
			return false
		}
	}
	if !project.IsSource(ev.Name) || ev.Op == fsnotify.Chmod {
		return false
	}
	w.mu.Lock()
	w.pending[ev.Name] = true
	w.mu.Unlock()
	return true
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if len(paths) == 0 || w.OnChange == nil {
		return
	}
	sort.Strings(paths)
	log.Debugf("changed: %s", strings.Join(paths, ", "))
	w.OnChange(paths)
}

func (w *Watcher) Close() error {
	return w.w.Close()
}

// Watch keeps ws in sync with the disk until ctx is done. changed
// receives the paths whose documents were replaced or removed.
func (ws *Workspace) Watch(ctx context.Context, changed func(paths []string)) error {
	w, err := NewWatcher(ws.rootDir, func(paths []string) {
		if updated := ws.Refresh(paths); len(updated) > 0 && changed != nil {
			changed(updated)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx)
}
