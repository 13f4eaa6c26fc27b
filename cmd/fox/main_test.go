package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "fox 0.4.0 (language 0.4.0)\n" {
		t.Errorf("got %q", out)
	}
}

func TestTokens(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.fox", "let x;")
	out, _, err := run(t, "tokens", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "1:1\tlet\t\"let\"\n1:5\tIdent\t\"x\"\n") {
		t.Errorf("got\n%s", out)
	}

	out, _, err = run(t, "tokens", "-f", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	var tokens []map[string]any
	if err := json.Unmarshal([]byte(out), &tokens); err != nil || len(tokens) != 4 {
		t.Errorf("got %d tokens (%v), want 4", len(tokens), err)
	}
}

func TestTokensReportsLexicalErrors(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.fox", "let @")
	_, errOut, err := run(t, "tokens", path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(errOut, ":1:5: error: ") || !strings.Contains(errOut, "[lexer_unrecognized_char]") {
		t.Errorf("got stderr\n%s", errOut)
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.fox", "let x: int = 1;")
	out, _, err := run(t, "parse", good)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "VarDecl let x: int") {
		t.Errorf("got\n%s", out)
	}

	out, _, err = run(t, "parse", "--positions", good)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "VarDecl [1:1-1:16]") {
		t.Errorf("got\n%s", out)
	}

	bad := writeSource(t, dir, "bad.fox", "let x: int = ;")
	_, errOut, err := run(t, "parse", bad)
	if err == nil || !strings.Contains(err.Error(), "1 error in") {
		t.Errorf("got %v, want one error", err)
	}
	if !strings.HasPrefix(errOut, bad+":1:") || !strings.Contains(errOut, "[parser_expected_expr]") {
		t.Errorf("got stderr\n%s", errOut)
	}
}

func TestParseTokenLimit(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.fox", "let x: int = 1;")
	_, _, err := run(t, "--max-tokens", "3", "parse", path)
	if err == nil || !strings.Contains(err.Error(), "exceed the limit of 3") {
		t.Errorf("got %v, want a token limit error", err)
	}
}

func TestParseUnknownFormat(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.fox", "let x: int;")
	if _, _, err := run(t, "parse", "-f", "xml", path); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.fox", "let a: int = 1;")
	writeSource(t, dir, "b.fox", "func f() { a b; c; }")
	_, errOut, err := run(t, "check", "--workers", "2", dir)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(errOut, "2 files, 1 errors") {
		t.Errorf("got stderr\n%s", errOut)
	}

	_, errOut, _ = run(t, "check", "-f", "json", dir)
	var diags []map[string]any
	if err := json.Unmarshal([]byte(errOut), &diags); err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, errOut)
	}
	if len(diags) != 1 || diags[0]["id"] != "parser_expected_semi" {
		t.Errorf("got %v", diags)
	}
}

func TestCheckCleanProject(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "fox.json", `{"name": "demo", "fox": ">=0.4"}`)
	writeSource(t, dir, "a.fox", "func main() { }")
	_, errOut, err := run(t, "check", dir)
	if err != nil {
		t.Fatal(err)
	}
	if errOut != "demo: 1 files, 0 errors\n" {
		t.Errorf("got %q", errOut)
	}
}

func TestGrammar(t *testing.T) {
	out, _, err := run(t, "grammar", "print")
	if err != nil || !strings.Contains(out, "Unit       = Decl { Decl } .") {
		t.Errorf("got %v\n%s", err, out)
	}

	out, _, err = run(t, "grammar", "print", "--rules")
	if err != nil || !strings.Contains(out, "Unit → ") {
		t.Errorf("got %v\n%s", err, out)
	}

	out, _, err = run(t, "grammar", "check")
	if err != nil || !strings.HasSuffix(out, " productions\n") {
		t.Errorf("got %v %q", err, out)
	}

	bad := writeSource(t, t.TempDir(), "bad.ebnf", `Unit = Missing .`)
	_, errOut, err := run(t, "grammar", "check", bad)
	if err == nil || !strings.Contains(errOut, "Missing") {
		t.Errorf("got %v\n%s", err, errOut)
	}
}

func TestGrammarRecognize(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.fox", "func f(): int { return 1 }")
	out, _, err := run(t, "grammar", "recognize", good)
	if err != nil || out != good+": ok\n" {
		t.Errorf("got %v %q", err, out)
	}

	bad := writeSource(t, dir, "bad.fox", "let x: int = ;")
	_, _, err = run(t, "grammar", "recognize", bad)
	if err == nil || !strings.Contains(err.Error(), bad+":1:14: unexpected") {
		t.Errorf("got %v", err)
	}
}

func TestGrammarMatch(t *testing.T) {
	out, _, err := run(t, "grammar", "match", "float_lit", "1.25")
	if err != nil || out != "float_lit: ok\n" {
		t.Errorf("got %v %q", err, out)
	}
	if _, _, err := run(t, "grammar", "match", "ident", "ab-c"); err == nil || !strings.Contains(err.Error(), `"ab"`) {
		t.Errorf("got %v", err)
	}
}

func TestInitThenCheck(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, "init", "--name", "hello", dir)
	if err != nil || !strings.HasPrefix(out, "initialized hello in ") {
		t.Fatalf("got %v %q", err, out)
	}
	_, errOut, err := run(t, "check", dir)
	if err != nil || errOut != "hello: 1 files, 0 errors\n" {
		t.Errorf("got %v %q", err, errOut)
	}
}
