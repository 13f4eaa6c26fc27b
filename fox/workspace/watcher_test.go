package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/fox/project"
)

func waitFor(t *testing.T, ch <-chan []string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case paths := <-ch:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-timeout:
			t.Fatalf("no change reported for %s", want)
		}
	}
}

func TestWatcherReportsSourceChanges(t *testing.T) {
	root := t.TempDir()
	changes := make(chan []string, 16)
	w, err := NewWatcher(root, func(paths []string) { changes <- paths })
	if err != nil {
		t.Fatal(err)
	}
	w.Delay = 20 * time.Millisecond
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	a := filepath.Join(root, "a.fox")
	writeFile(t, a, "let a: int;")
	waitFor(t, changes, a)

	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(100 * time.Millisecond)
	b := filepath.Join(sub, "b.fox")
	writeFile(t, b, "let b: int;")
	waitFor(t, changes, b)

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestWorkspaceWatch(t *testing.T) {
	root := t.TempDir()
	ws := New(root, project.Options{})
	changes := make(chan []string, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	go func() {
		close(ready)
		ws.Watch(ctx, func(paths []string) { changes <- paths })
	}()
	<-ready
	// Watch registers the root before Run; wait until it has.
	time.Sleep(200 * time.Millisecond)

	a := filepath.Join(root, "a.fox")
	writeFile(t, a, "let a: int = ;")
	waitFor(t, changes, a)
	if doc := ws.GetFile(a); doc == nil || doc.ErrorCount() != 1 {
		t.Errorf("got %+v, want a document with one error", doc)
	}

	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changes, a)
	if ws.GetFile(a) != nil {
		t.Error("removed file still present")
	}
}
