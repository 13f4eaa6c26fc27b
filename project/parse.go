package project

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/parser"
	"github.com/dhamidi/fox/fox/source"
)

type Options struct {
	// Workers bounds the number of files parsed at once. Values below
	// one mean one.
	Workers int
	// MaxTokens rejects larger files before parsing. Zero means no limit.
	MaxTokens     int
	EngineOptions []diag.EngineOption
	ParserOptions []parser.Option
}

// FileResult is the outcome of parsing one file. Every file gets its own
// arena, so results can be released independently.
type FileResult struct {
	Path        string
	File        source.FileID
	Arena       *ast.Arena
	Unit        *ast.UnitDecl
	Tokens      int
	Diagnostics []diag.Diagnostic
	// Err is set when the file could not be read or was rejected.
	Err error
}

// HadErrors reports whether the file failed or produced an error
// diagnostic.
func (r *FileResult) HadErrors() bool {
	if r.Err != nil {
		return true
	}
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SeverityError {
			return true
		}
	}
	return false
}

// TooManyTokensError rejects a file over the token budget.
type TooManyTokensError struct {
	Path   string
	Tokens int
	Limit  int
}

func (e *TooManyTokensError) Error() string {
	return fmt.Sprintf("%s: %d tokens exceed the limit of %d", e.Path, e.Tokens, e.Limit)
}

// ParseAll parses paths concurrently and registers their content in sm.
// Results are in the order of paths. Files not started before ctx is
// done carry ctx's error.
func ParseAll(ctx context.Context, sm *source.Manager, paths []string, opts Options) []*FileResult {
	results := make([]*FileResult, len(paths))
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	workCh := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				results[idx] = parsePath(sm, paths[idx], opts)
			}
		}()
	}

	for i := range paths {
		if err := ctx.Err(); err != nil {
			results[i] = &FileResult{Path: paths[i], Err: err}
			continue
		}
		select {
		case workCh <- i:
		case <-ctx.Done():
			results[i] = &FileResult{Path: paths[i], Err: ctx.Err()}
		}
	}
	close(workCh)
	wg.Wait()
	return results
}

func parsePath(sm *source.Manager, path string, opts Options) *FileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return &FileResult{Path: path, Err: fmt.Errorf("read source: %w", err)}
	}
	return ParseSource(sm, path, content, opts)
}

// ParseSource registers content under name in sm and parses it.
func ParseSource(sm *source.Manager, name string, content []byte, opts Options) *FileResult {
	id := sm.AddFile(name, content)
	result := &FileResult{Path: name, File: id, Arena: ast.NewArena()}

	collector := &diag.Collector{}
	engine := diag.NewEngine(collector, append([]diag.EngineOption{diag.WithLogger(log)}, opts.EngineOptions...)...)

	tokens := lexer.Lex(id, sm.Content(id), engine)
	result.Tokens = len(tokens)
	if opts.MaxTokens > 0 && len(tokens) > opts.MaxTokens {
		result.Err = &TooManyTokensError{Path: name, Tokens: len(tokens), Limit: opts.MaxTokens}
		result.Diagnostics = collector.Diagnostics
		return result
	}

	p := parser.New(tokens, result.Arena, engine, opts.ParserOptions...)
	result.Unit = p.ParseUnit(id, result.Arena.Intern(name))
	result.Diagnostics = collector.Diagnostics
	log.Debugf("parsed %s: %d tokens, %d diagnostics", name, len(tokens), len(collector.Diagnostics))
	return result
}
