package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/parser"
	"github.com/dhamidi/fox/fox/source"
)

func lexString(src string) (*source.Manager, []lexer.Token) {
	sm := source.NewManager()
	id := sm.AddFile("a.fox", []byte(src))
	return sm, lexer.Lex(id, src, nil)
}

func parseString(t *testing.T, src string) (*source.Manager, *ast.UnitDecl) {
	t.Helper()
	sm := source.NewManager()
	id := sm.AddFile("a.fox", []byte(src))
	engine := diag.NewEngine(nil)
	unit := parser.ParseFile(sm, id, ast.NewArena(), engine)
	if unit == nil || engine.HadErrors() {
		t.Fatalf("%q did not parse cleanly", src)
	}
	return sm, unit
}

func TestTokenLineEncoder(t *testing.T) {
	sm, tokens := lexString("let x\n  99999999999999999999")
	var buf bytes.Buffer
	if err := NewTokenLineEncoder(&buf, sm).Encode(tokens); err != nil {
		t.Fatal(err)
	}
	want := "1:1\tlet\t\"let\"\n" +
		"1:5\tIdent\t\"x\"\n" +
		"2:3\tIntLiteral\t\"99999999999999999999\"\tinvalid\n" +
		"2:23\tEOF\t\"\"\n"
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestTokenJSONEncoder(t *testing.T) {
	sm, tokens := lexString(`'c' 3 true "s"`)
	var buf bytes.Buffer
	if err := NewTokenJSONEncoder(&buf, sm).Encode(tokens); err != nil {
		t.Fatal(err)
	}
	var got []struct {
		Kind  string    `json:"kind"`
		Value any       `json:"value"`
		Span  *jsonSpan `json:"span"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d tokens, want 5", len(got))
	}
	wantValues := []any{"c", float64(3), true, "s", nil}
	for i, want := range wantValues {
		if got[i].Value != want {
			t.Errorf("token %d: got value %v, want %v", i, got[i].Value, want)
		}
	}
	if got[1].Span == nil || got[1].Span.Start.Column != 5 || got[1].Span.End.Offset != 5 {
		t.Errorf("got span %+v for the int literal", got[1].Span)
	}
	if got[4].Kind != "EOF" {
		t.Errorf("got last kind %s, want EOF", got[4].Kind)
	}
}

func TestTreeEncoder(t *testing.T) {
	sm, unit := parseString(t, "let x: int = 1;")

	var plain bytes.Buffer
	if err := NewTreeEncoder(&plain).Encode(unit); err != nil {
		t.Fatal(err)
	}
	if got, want := plain.String(), ast.DumpString(unit); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	var withPos bytes.Buffer
	if err := NewTreeEncoder(&withPos).WithPositions(sm).Encode(unit); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(withPos.String(), "VarDecl [1:1-1:16]") {
		t.Errorf("positions missing from\n%s", withPos.String())
	}
}

func TestASTJSONEncoder(t *testing.T) {
	sm, unit := parseString(t, "let x: int = 1;\nfunc f() { }")
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf, sm).Encode(unit); err != nil {
		t.Fatal(err)
	}
	var got astJSONNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != "UnitDecl" || got.Family != "Decl" || len(got.Children) != 2 {
		t.Fatalf("got %s/%s with %d children, want UnitDecl/Decl with 2", got.Kind, got.Family, len(got.Children))
	}
	v := got.Children[0]
	if v.Kind != "VarDecl" || v.Name != "x" || v.Invalid {
		t.Errorf("got %+v, want a valid VarDecl x", v)
	}
	if v.Span == nil || v.Span.Start.Line != 1 || v.Span.End.Column != 16 {
		t.Errorf("got span %+v", v.Span)
	}
	if len(v.Children) != 1 || v.Children[0].Kind != "IntegerLiteralExpr" || v.Children[0].Detail != "1" {
		t.Errorf("got initializer %+v", v.Children)
	}
	f := got.Children[1]
	if f.Name != "f" || f.Span.Start.Line != 2 {
		t.Errorf("got %+v, want func f on line 2", f)
	}
}

func TestDiagnosticLineEncoder(t *testing.T) {
	sm := source.NewManager()
	id := sm.AddFile("a.fox", []byte("let\nx"))
	diags := []diag.Diagnostic{
		{ID: diag.ExpectedSemi, Severity: diag.SeverityError, Range: source.At(id, 4)},
		{ID: diag.TooManyErrors, Severity: diag.SeverityFatal, Args: []any{3}},
	}
	var buf bytes.Buffer
	if err := NewDiagnosticLineEncoder(&buf, sm).Encode(diags); err != nil {
		t.Fatal(err)
	}
	want := "a.fox:2:1: error: expected ';' [parser_expected_semi]\n" +
		"fatal: too many errors emitted (limit is 3), stopping now [too_many_errors]\n"
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestDiagnosticJSONEncoder(t *testing.T) {
	sm := source.NewManager()
	id := sm.AddFile("a.fox", []byte("let x"))
	diags := []diag.Diagnostic{
		{ID: diag.ExpectedColon, Severity: diag.SeverityError, Range: source.At(id, 5)},
	}
	var buf bytes.Buffer
	if err := NewDiagnosticJSONEncoder(&buf, sm).Encode(diags); err != nil {
		t.Fatal(err)
	}
	var got []jsonDiagnostic
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	d := got[0]
	if d.ID != "parser_expected_colon" || d.File != "a.fox" || d.Message != "expected ':'" {
		t.Errorf("got %+v", d)
	}
	if d.Span == nil || d.Span.Start.Column != 6 {
		t.Errorf("got span %+v, want column 6", d.Span)
	}
}

func TestEncoderByName(t *testing.T) {
	if _, err := NewTokenEncoder("line", nil, nil); err != nil {
		t.Error(err)
	}
	if _, err := NewTokenEncoder("xml", nil, nil); err == nil {
		t.Error("unknown token format accepted")
	}
	if _, err := NewNodeEncoder("json", nil, nil, false); err != nil {
		t.Error(err)
	}
	if _, err := NewNodeEncoder("line", nil, nil, false); err == nil {
		t.Error("unknown tree format accepted")
	}
	if _, err := NewDiagnosticEncoder("json", nil, nil); err != nil {
		t.Error(err)
	}
	if _, err := NewDiagnosticEncoder("tree", nil, nil); err == nil {
		t.Error("unknown diagnostic format accepted")
	}
}
