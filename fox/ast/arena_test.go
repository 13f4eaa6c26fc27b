package ast

import (
	"fmt"
	"testing"
	"unsafe"
)

func TestArenaAllocate(t *testing.T) {
	a := NewArena()

	tests := []struct {
		size  int
		align int
	}{
		{1, 1},
		{3, 1},
		{8, 8},
		{5, 4},
		{16, 16},
		{chunkSize * 2, 8},
		{0, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.size, tt.align), func(t *testing.T) {
			b := a.Allocate(tt.size, tt.align)
			if len(b) != tt.size {
				t.Fatalf("len = %d, want %d", len(b), tt.size)
			}
			if cap(b) != tt.size {
				t.Errorf("cap = %d, want %d", cap(b), tt.size)
			}
			for i, c := range b {
				if c != 0 {
					t.Fatalf("byte %d = %d, want zeroed memory", i, c)
				}
			}
			if tt.size > 0 {
				if addr := uintptr(unsafe.Pointer(&b[0])); addr%uintptr(tt.align) != 0 {
					t.Errorf("address %#x not aligned to %d", addr, tt.align)
				}
			}
		})
	}
}

func TestArenaAllocateDoesNotOverlap(t *testing.T) {
	a := NewArena()
	first := a.Allocate(4, 4)
	second := a.Allocate(4, 4)
	copy(first, "abcd")
	copy(second, "wxyz")
	if string(first) != "abcd" {
		t.Errorf("first = %q, want %q", first, "abcd")
	}
}

func TestArenaAllocateRejectsBadAlignment(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for alignment 3")
		}
	}()
	NewArena().Allocate(4, 3)
}

func TestIntern(t *testing.T) {
	a := NewArena()
	x1 := a.Intern("x")
	x2 := a.Intern(string([]byte{'x'}))
	y := a.Intern("y")

	if x1 != x2 {
		t.Error("identifiers with equal text must be equal")
	}
	if x1 == y {
		t.Error("identifiers with different text must differ")
	}
	if x1.String() != "x" {
		t.Errorf("String() = %q, want %q", x1.String(), "x")
	}
	if x1.IsNull() || !(Identifier{}).IsNull() {
		t.Error("IsNull mismatch")
	}
}

func TestInternCollisionProneInputs(t *testing.T) {
	a := NewArena()
	inputs := []string{"", "a", "a\x00", "\x00a", "ab", "ba", "Aa", "BB", "éa", "éa"}
	ids := make([]Identifier, len(inputs))
	for i, in := range inputs {
		ids[i] = a.Intern(in)
	}
	for i := range inputs {
		for j := range inputs {
			if (ids[i] == ids[j]) != (i == j) {
				t.Errorf("Intern(%q) == Intern(%q) is %v", inputs[i], inputs[j], ids[i] == ids[j])
			}
		}
		if again := a.Intern(inputs[i]); again != ids[i] {
			t.Errorf("re-interning %q gave a different identifier", inputs[i])
		}
	}
}

func TestInternCopiesText(t *testing.T) {
	a := NewArena()
	buf := []byte("name")
	id := a.Intern(string(buf))
	buf[0] = 'g'
	if id.String() != "name" {
		t.Errorf("String() = %q, want %q", id.String(), "name")
	}
}

func TestTypeMemoization(t *testing.T) {
	a := NewArena()

	if a.ArrayOf(a.IntType()) != a.ArrayOf(a.IntType()) {
		t.Error("ArrayOf(int) is not unique")
	}
	if a.ArrayOf(a.IntType()) == a.ArrayOf(a.FloatType()) {
		t.Error("ArrayOf(int) == ArrayOf(float)")
	}
	if a.ReferenceTo(a.ArrayOf(a.BoolType())) != a.ReferenceTo(a.ArrayOf(a.BoolType())) {
		t.Error("ReferenceTo(bool[]) is not unique")
	}

	f1 := a.FunctionOf([]Type{a.IntType(), a.ArrayOf(a.CharType())}, a.VoidType())
	f2 := a.FunctionOf([]Type{a.IntType(), a.ArrayOf(a.CharType())}, a.VoidType())
	f3 := a.FunctionOf([]Type{a.IntType()}, a.VoidType())
	if f1 != f2 {
		t.Error("FunctionOf is not memoized")
	}
	if f1 == f3 {
		t.Error("different signatures share a type")
	}

	tests := []struct {
		typ  Type
		want string
	}{
		{a.IntType(), "int"},
		{a.ArrayOf(a.ArrayOf(a.StringType())), "string[][]"},
		{a.ReferenceTo(a.FloatType()), "&float"},
		{f1, "(int, char[]) -> void"},
		{a.ErrorType(), "<error type>"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestTypesAreScopedToArena(t *testing.T) {
	a, b := NewArena(), NewArena()
	if a.IntType() == b.IntType() {
		t.Error("arenas must not share singleton types")
	}
	if a.Intern("x") == b.Intern("x") {
		t.Error("arenas must not share identifiers")
	}
}

func TestArenaStatsAndReset(t *testing.T) {
	a := NewArena()
	a.Intern("alpha")
	a.NewIntegerLiteralExpr(1, testRange(0, 1))
	a.NewIntegerLiteralExpr(2, testRange(2, 3))

	s := a.Stats()
	if s.Nodes != 2 {
		t.Errorf("Nodes = %d, want 2", s.Nodes)
	}
	if s.Identifiers != 1 {
		t.Errorf("Identifiers = %d, want 1", s.Identifiers)
	}
	if s.Bytes < len("alpha") || s.Chunks != 1 {
		t.Errorf("Stats = %+v", s)
	}

	a.Reset()
	if s := a.Stats(); s.Nodes != 0 || s.Identifiers != 0 || s.Chunks != 0 {
		t.Errorf("after Reset: %+v", s)
	}
}

func TestNewSliceIsStable(t *testing.T) {
	a := NewArena()
	elems := []Expr{a.NewErrorExpr(testRange(0, 0)), a.NewErrorExpr(testRange(1, 1))}
	out := newSlice(a, elems)
	elems[0] = nil
	if out[0] == nil {
		t.Error("newSlice must copy its input")
	}
	if cap(out) != 2 {
		t.Errorf("cap = %d, want 2", cap(out))
	}
	big := make([]Expr, slabSize)
	if got := newSlice(a, big); len(got) != slabSize {
		t.Errorf("len = %d, want %d", len(got), slabSize)
	}
}
