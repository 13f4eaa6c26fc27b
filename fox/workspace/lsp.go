package workspace

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/source"
	"github.com/dhamidi/fox/project"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "fox"

var lspLog = commonlog.GetLogger("fox.lsp")

type LSPServer struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
	opts      project.Options

	mu sync.Mutex
	// open maps the path of every open document to its editor version.
	open map[string]protocol.Integer
	// notify is captured from the first request so that the watcher can
	// publish diagnostics outside a request.
	notify glsp.NotifyFunc
	cancel context.CancelFunc
}

func NewLSPServer(version string, opts project.Options) *LSPServer {
	ls := &LSPServer{
		version: version,
		opts:    opts,
		open:    make(map[string]protocol.Integer),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}

	ls.workspace = New(rootDir, ls.opts)
	ls.setNotify(ctx)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.setNotify(ctx)
	if err := ls.workspace.ScanAll(context.Background()); err != nil {
		lspLog.Errorf("scan %s: %s", ls.workspace.RootDir(), err)
		return nil
	}
	for _, path := range ls.workspace.Files() {
		ls.publish(path)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	ls.mu.Lock()
	ls.cancel = cancel
	ls.mu.Unlock()
	go func() {
		err := ls.workspace.Watch(watchCtx, ls.diskChanged)
		if err != nil && watchCtx.Err() == nil {
			lspLog.Errorf("watch %s: %s", ls.workspace.RootDir(), err)
		}
	}()
	return nil
}

// diskChanged republishes files changed on disk. Open documents belong to
// the editor, so their buffer is parsed again over the disk version.
func (ls *LSPServer) diskChanged(paths []string) {
	for _, path := range paths {
		ls.mu.Lock()
		_, isOpen := ls.open[path]
		ls.mu.Unlock()
		if isOpen {
			continue
		}
		ls.publish(path)
	}
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setNotify(ctx)
	ls.mu.Lock()
	ls.open[path] = params.TextDocument.Version
	ls.mu.Unlock()
	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(path)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	ls.mu.Lock()
	ls.open[path] = params.TextDocument.Version
	ls.mu.Unlock()
	ls.workspace.UpdateFile(path, []byte(textChange.Text))
	ls.publish(path)
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	delete(ls.open, path)
	ls.mu.Unlock()
	// The disk version is what counts from now on.
	ls.workspace.Refresh([]string{path})
	ls.publish(path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if _, err := ls.workspace.ScanFile(path); err != nil {
		lspLog.Warningf("%s", err)
	}
	ls.publish(path)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.GetFile(path)
	if doc == nil {
		return nil, nil
	}
	return DocumentSymbols(doc), nil
}

func (ls *LSPServer) setNotify(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.notify == nil {
		ls.notify = ctx.Notify
	}
}

// publish sends the diagnostics of path. A path without a document gets
// an empty list, which clears what the editor shows.
func (ls *LSPServer) publish(path string) {
	ls.mu.Lock()
	notify := ls.notify
	version, isOpen := ls.open[path]
	ls.mu.Unlock()
	if notify == nil {
		return
	}

	params := protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: []protocol.Diagnostic{},
	}
	if isOpen && version >= 0 {
		v := protocol.UInteger(version)
		params.Version = &v
	}
	if doc := ls.workspace.GetFile(path); doc != nil {
		params.Diagnostics = Diagnostics(doc)
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// Diagnostics converts the diagnostics of doc for an editor.
func Diagnostics(doc *Document) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(doc.Diagnostics)+1)
	origin := lsName
	if doc.Err != nil {
		sev := protocol.DiagnosticSeverityError
		out = append(out, protocol.Diagnostic{
			Severity: &sev,
			Source:   &origin,
			Message:  doc.Err.Error(),
		})
	}
	for _, d := range doc.Diagnostics {
		sev := lspSeverity(d.Severity)
		out = append(out, protocol.Diagnostic{
			Range:    lspRange(doc, d.Range),
			Severity: &sev,
			Code:     &protocol.IntegerOrString{Value: d.ID.String()},
			Source:   &origin,
			Message:  d.Message(),
		})
	}
	return out
}

func lspSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SeverityNote:
		return protocol.DiagnosticSeverityInformation
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}

func lspRange(doc *Document, r source.Range) protocol.Range {
	if !r.IsValid() {
		return protocol.Range{}
	}
	startLine, startChar := doc.UTF16Position(r.Begin)
	endLine, endChar := doc.UTF16Position(r.End)
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(startLine), Character: protocol.UInteger(startChar)},
		End:   protocol.Position{Line: protocol.UInteger(endLine), Character: protocol.UInteger(endChar)},
	}
}

// DocumentSymbols lists the top-level declarations of doc. Functions
// carry their parameters and local variables as children.
func DocumentSymbols(doc *Document) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	if doc.Unit == nil {
		return symbols
	}
	for _, d := range doc.Unit.Decls {
		if sym, ok := declSymbol(doc, d); ok {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

func declSymbol(doc *Document, d ast.Decl) (protocol.DocumentSymbol, bool) {
	named := ast.AsNamedDecl(d)
	if named == nil || named.Ident().IsNull() {
		return protocol.DocumentSymbol{}, false
	}
	sym := protocol.DocumentSymbol{
		Name:           named.Ident().String(),
		Range:          lspRange(doc, d.Range()),
		SelectionRange: lspRange(doc, named.IdentRange()),
	}

	var detail string
	switch d.Kind() {
	case ast.KindFuncDecl:
		fn := ast.AsFuncDecl(d)
		sym.Kind = protocol.SymbolKindFunction
		detail = signature(fn)
		for _, p := range fn.Params {
			if child, ok := declSymbol(doc, p); ok {
				sym.Children = append(sym.Children, child)
			}
		}
		if fn.Body != nil {
			ast.Walk(fn.Body, func(n ast.Node) bool {
				if v := ast.AsVarDecl(ast.AsDecl(n)); v != nil {
					if child, ok := declSymbol(doc, v); ok {
						sym.Children = append(sym.Children, child)
					}
				}
				return true
			})
		}
	case ast.KindParamDecl:
		sym.Kind = protocol.SymbolKindVariable
		detail = typeName(ast.AsParamDecl(d).ValueType())
	case ast.KindVarDecl:
		v := ast.AsVarDecl(d)
		sym.Kind = protocol.SymbolKindVariable
		if v.Const {
			sym.Kind = protocol.SymbolKindConstant
		}
		detail = typeName(v.ValueType())
	default:
		return protocol.DocumentSymbol{}, false
	}
	sym.Detail = &detail
	return sym, true
}

// signature spells the function type of fn without touching its arena,
// which may be shared with a concurrent reader.
func signature(fn *ast.FuncDecl) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = typeName(p.ValueType())
	}
	return "(" + strings.Join(params, ", ") + ") -> " + typeName(fn.ReturnType)
}

func typeName(t ast.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
