package workspace

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/dhamidi/fox/project"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notifications struct {
	mu     sync.Mutex
	params []protocol.PublishDiagnosticsParams
}

func (n *notifications) notify(method string, params any) {
	if method != protocol.ServerTextDocumentPublishDiagnostics {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.params = append(n.params, params.(protocol.PublishDiagnosticsParams))
}

func (n *notifications) last() protocol.PublishDiagnosticsParams {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.params[len(n.params)-1]
}

func newTestServer(t *testing.T) (*LSPServer, *glsp.Context, *notifications, string) {
	t.Helper()
	root := t.TempDir()
	n := &notifications{}
	ctx := &glsp.Context{Notify: n.notify}
	ls := NewLSPServer("test", project.Options{})
	rootURI := pathToURI(root)
	result, err := ls.initialize(ctx, &protocol.InitializeParams{RootURI: &rootURI})
	if err != nil {
		t.Fatal(err)
	}
	res := result.(protocol.InitializeResult)
	if res.Capabilities.DocumentSymbolProvider != true {
		t.Error("document symbols not advertised")
	}
	return ls, ctx, n, root
}

func TestLSPPublishesDiagnostics(t *testing.T) {
	ls, ctx, n, root := newTestServer(t)
	path := filepath.Join(root, "a.fox")
	uri := pathToURI(path)

	err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Version: 3, Text: "let x: int = ;"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := n.last()
	if got.URI != uri || got.Version == nil || *got.Version != 3 {
		t.Errorf("got %s version %v, want %s version 3", got.URI, got.Version, uri)
	}
	if len(got.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got.Diagnostics))
	}
	d := got.Diagnostics[0]
	if d.Code == nil || d.Code.Value != "parser_expected_expr" || d.Range.Start.Line != 0 {
		t.Errorf("got %+v", d)
	}

	err = ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                4,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "let x: int = 1;"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := n.last(); len(got.Diagnostics) != 0 || *got.Version != 4 {
		t.Errorf("got %d diagnostics at version %d, want none at 4", len(got.Diagnostics), *got.Version)
	}

	// Closing an unsaved buffer leaves nothing behind.
	if err := ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}); err != nil {
		t.Fatal(err)
	}
	if ls.workspace.GetFile(path) != nil {
		t.Error("closed buffer still in the workspace")
	}
	if got := n.last(); got.Version != nil || len(got.Diagnostics) != 0 {
		t.Errorf("got %+v, want an unversioned empty list", got)
	}
}

func TestLSPDocumentSymbols(t *testing.T) {
	ls, ctx, _, root := newTestServer(t)
	uri := pathToURI(filepath.Join(root, "a.fox"))
	src := "let a: int = 1;\nfunc f(x: int): bool { var y: float; return true }"
	if err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: src},
	}); err != nil {
		t.Fatal(err)
	}

	result, err := ls.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	symbols := result.([]protocol.DocumentSymbol)
	if len(symbols) != 2 {
		t.Fatalf("got %d symbols, want 2", len(symbols))
	}
	a, f := symbols[0], symbols[1]
	if a.Name != "a" || a.Kind != protocol.SymbolKindConstant || *a.Detail != "int" {
		t.Errorf("got %s %v %s, want constant a: int", a.Name, a.Kind, *a.Detail)
	}
	if f.Name != "f" || f.Kind != protocol.SymbolKindFunction || *f.Detail != "(int) -> bool" {
		t.Errorf("got %s %v %s, want function f (int) -> bool", f.Name, f.Kind, *f.Detail)
	}
	if f.Range.Start.Line != 1 || f.SelectionRange.Start.Character != 5 {
		t.Errorf("got range %+v selection %+v", f.Range, f.SelectionRange)
	}
	if len(f.Children) != 2 || f.Children[0].Name != "x" || f.Children[1].Name != "y" {
		t.Errorf("got children %+v, want x and y", f.Children)
	}
	if f.Children[1].Kind != protocol.SymbolKindVariable {
		t.Errorf("got kind %v for var y", f.Children[1].Kind)
	}
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir with space", "a.fox")
	got, err := uriToPath(pathToURI(path))
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("got %s, want %s", got, path)
	}
}
