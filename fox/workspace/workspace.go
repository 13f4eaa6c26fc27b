// Package workspace keeps the parsed state of every Fox file under a
// root directory and serves it to editors.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/source"
	"github.com/dhamidi/fox/project"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("fox.workspace")

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	opts    project.Options
	files   map[string]*Document
}

// Document is one parsed version of a file. Documents are immutable once
// stored; an update replaces the whole Document.
type Document struct {
	Path    string
	Content []byte
	// Source holds Content as File.
	Source      *source.Manager
	File        source.FileID
	Arena       *ast.Arena
	Unit        *ast.UnitDecl
	Diagnostics []diag.Diagnostic
	// Err is set when the file was rejected before parsing.
	Err error
}

func New(rootDir string, opts project.Options) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every source file of the project rooted at RootDir and
// drops documents whose file disappeared.
func (w *Workspace) ScanAll(ctx context.Context) error {
	proj, err := project.LoadFrom(w.rootDir)
	if err != nil {
		return err
	}
	paths, err := proj.Files()
	if err != nil {
		return err
	}

	sm := source.NewManager()
	results := project.ParseAll(ctx, sm, paths, w.opts)

	w.mu.Lock()
	defer w.mu.Unlock()
	present := make(map[string]bool, len(paths))
	for _, r := range results {
		present[r.Path] = true
		if ctx.Err() != nil && errors.Is(r.Err, ctx.Err()) {
			continue
		}
		w.files[r.Path] = documentFrom(sm, r)
	}
	for path := range w.files {
		if !present[path] {
			delete(w.files, path)
		}
	}
	log.Infof("scanned %d files in %s", len(paths), w.rootDir)
	return ctx.Err()
}

// ScanFile reads path from disk and parses it.
func (w *Workspace) ScanFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile parses content as the new version of path.
func (w *Workspace) UpdateFile(path string, content []byte) *Document {
	sm := source.NewManager()
	doc := documentFrom(sm, project.ParseSource(sm, path, content, w.opts))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	return doc
}

func documentFrom(sm *source.Manager, r *project.FileResult) *Document {
	doc := &Document{
		Path:        r.Path,
		Source:      sm,
		File:        r.File,
		Arena:       r.Arena,
		Unit:        r.Unit,
		Diagnostics: r.Diagnostics,
		Err:         r.Err,
	}
	if r.File.IsValid() {
		doc.Content = []byte(sm.Content(r.File))
	}
	return doc
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns the paths of all documents, sorted.
func (w *Workspace) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Refresh rescans the given paths from disk. Paths that no longer exist
// are removed. It returns the paths whose document changed.
func (w *Workspace) Refresh(paths []string) []string {
	var changed []string
	for _, path := range paths {
		if !project.IsSource(path) {
			continue
		}
		_, err := w.ScanFile(path)
		switch {
		case err == nil:
			changed = append(changed, path)
		case errors.Is(err, fs.ErrNotExist):
			if w.GetFile(path) != nil {
				w.RemoveFile(path)
				changed = append(changed, path)
			}
		default:
			log.Warningf("%s", err)
		}
	}
	return changed
}

// ErrorCount counts the error diagnostics of the document, plus one when
// it was rejected.
func (d *Document) ErrorCount() int {
	n := 0
	if d.Err != nil {
		n++
	}
	for _, dg := range d.Diagnostics {
		if dg.Severity >= diag.SeverityError {
			n++
		}
	}
	return n
}

// UTF16Position converts a byte offset into a zero-based line and a
// UTF-16 column, the coordinates editors speak.
func (d *Document) UTF16Position(offset int) (line, character int) {
	content := string(d.Content)
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := content[:offset]
	line = strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	character = len(utf16.Encode([]rune(prefix[lineStart:])))
	return line, character
}
