package workspace

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.fox")
	b := filepath.Join(root, "sub", "b.fox")
	writeFile(t, a, "let a: int = 1;")
	writeFile(t, b, "func f() { return }")
	writeFile(t, filepath.Join(root, "readme.md"), "")

	ws := New(root, project.Options{Workers: 2})
	if err := ws.ScanAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got, want := ws.Files(), []string{a, b}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	doc := ws.GetFile(a)
	if doc == nil || doc.Unit == nil || doc.ErrorCount() != 0 {
		t.Fatalf("got %+v, want a clean document", doc)
	}
	if string(doc.Content) != "let a: int = 1;" {
		t.Errorf("got content %q", doc.Content)
	}

	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	if err := ws.ScanAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := ws.Files(); !reflect.DeepEqual(got, []string{a}) {
		t.Errorf("got %v after removing b.fox", got)
	}
}

func TestUpdateFile(t *testing.T) {
	ws := New(t.TempDir(), project.Options{})
	first := ws.UpdateFile("x.fox", []byte("let x: int = ;"))
	if first.ErrorCount() != 1 || first.Diagnostics[0].ID != diag.ExpectedExpr {
		t.Errorf("got %v, want one parser_expected_expr", first.Diagnostics)
	}
	second := ws.UpdateFile("x.fox", []byte("let x: int = 2;"))
	if ws.GetFile("x.fox") != second || second.ErrorCount() != 0 {
		t.Error("update did not replace the document")
	}
	if first.ErrorCount() != 1 {
		t.Error("earlier document was modified")
	}
	ws.RemoveFile("x.fox")
	if ws.GetFile("x.fox") != nil || len(ws.Files()) != 0 {
		t.Error("document not removed")
	}
}

func TestUpdateFileTokenLimit(t *testing.T) {
	ws := New(t.TempDir(), project.Options{MaxTokens: 3})
	doc := ws.UpdateFile("x.fox", []byte("let x: int;"))
	if doc.Err == nil || doc.Unit != nil || doc.ErrorCount() != 1 {
		t.Errorf("got %+v, want a rejected document", doc)
	}
}

func TestRefresh(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.fox")
	gone := filepath.Join(root, "gone.fox")
	writeFile(t, a, "let a: int;")

	ws := New(root, project.Options{})
	ws.UpdateFile(gone, []byte("let g: int;"))

	changed := ws.Refresh([]string{a, gone, filepath.Join(root, "never.fox"), filepath.Join(root, "x.txt")})
	if want := []string{a, gone}; !reflect.DeepEqual(changed, want) {
		t.Errorf("got %v, want %v", changed, want)
	}
	if ws.GetFile(a) == nil || ws.GetFile(gone) != nil {
		t.Errorf("got files %v, want only a.fox", ws.Files())
	}
}

func TestUTF16Position(t *testing.T) {
	doc := &Document{Content: []byte("ab\né😀x\n")}
	tests := []struct {
		offset    int
		line      int
		character int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 1},
		{9, 1, 3},
		{10, 1, 4},
		{11, 2, 0},
		{100, 2, 0},
	}
	for _, tt := range tests {
		line, character := doc.UTF16Position(tt.offset)
		if line != tt.line || character != tt.character {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tt.offset, line, character, tt.line, tt.character)
		}
	}
}
