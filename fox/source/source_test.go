package source

import "testing"

func TestManagerPosition(t *testing.T) {
	m := NewManager()
	id := m.AddFile("main.fox", []byte("let x\nfunc é()\n\nz"))

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{5, 1, 6},
		{6, 2, 1},
		{11, 2, 6},
		{13, 2, 7},
		{16, 3, 1},
		{17, 4, 1},
	}

	for _, tt := range tests {
		pos := m.Position(Loc{File: id, Offset: tt.offset})
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
		if pos.File != "main.fox" {
			t.Errorf("offset %d: File = %q, want %q", tt.offset, pos.File, "main.fox")
		}
	}
}

func TestManagerStripsBOM(t *testing.T) {
	m := NewManager()
	id := m.AddFile("bom.fox", []byte("\xEF\xBB\xBFlet"))
	if got := m.Content(id); got != "let" {
		t.Errorf("Content = %q, want %q", got, "let")
	}
}

func TestManagerText(t *testing.T) {
	m := NewManager()
	id := m.AddFile("a.fox", []byte("func f() {}"))
	if got := m.Text(NewRange(id, 5, 6)); got != "f" {
		t.Errorf("Text = %q, want %q", got, "f")
	}
	if got := m.Text(NewRange(id, 5, 50)); got != "" {
		t.Errorf("out of bounds Text = %q, want empty", got)
	}
	if m.File(FileID(7)) != nil {
		t.Error("unknown file should be nil")
	}
}

func TestRangeUnion(t *testing.T) {
	a := NewRange(1, 4, 8)
	b := NewRange(1, 2, 5)
	got := a.Union(b)
	if got.Begin != 2 || got.End != 8 {
		t.Errorf("Union = %v, want [2,8)", got)
	}
	if got := a.Union(Range{}); got != a {
		t.Errorf("Union with invalid = %v, want %v", got, a)
	}
	if !a.Contains(4) || a.Contains(8) {
		t.Error("Contains should be half-open")
	}
}

func TestNewRangePanicsOnInversion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for inverted range")
		}
	}()
	NewRange(1, 5, 2)
}
