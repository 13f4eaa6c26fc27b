package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/fox/fox/lexer"
)

func TestLoad(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := Productions(g)
	if names[0] != "AddExpr" || names[len(names)-1] != "string_lit" {
		t.Errorf("got order %v, want nonterminals first", names)
	}
	for _, want := range []string{"Unit", "Expr", "ident", "digit"} {
		if _, ok := g[want]; !ok {
			t.Errorf("production %s missing", want)
		}
	}
}

func TestParseReportsEveryError(t *testing.T) {
	_, err := Parse("bad.ebnf", strings.NewReader(`A = B C . D = "x" .`), "A")
	if err == nil {
		t.Fatal("expected an error")
	}
	// B and C are missing, D is unreachable.
	if got := len(Errors(err)); got != 3 {
		t.Errorf("got %d errors, want 3: %v", got, err)
	}
}

func TestParseWithoutStartOnlyChecksSyntax(t *testing.T) {
	if _, err := Parse("ok.ebnf", strings.NewReader(`A = B .`), ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := Parse("bad.ebnf", strings.NewReader(`A = `), ""); err == nil {
		t.Error("syntax error not reported")
	}
}

func TestNewRecognizerErrors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
	}{
		{"unknown lexical", `A = foo . foo = "x" .`},
		{"unknown token", `A = "@" .`},
		{"range outside lexical", `A = "a" … "z" .`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse("t.ebnf", strings.NewReader(tt.grammar), "")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if _, err := NewRecognizer(g); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestTokenTerminal(t *testing.T) {
	tests := []struct {
		token string
		kinds []lexer.TokenKind
	}{
		{"let", []lexer.TokenKind{lexer.TokenLet}},
		{"true", []lexer.TokenKind{lexer.TokenBoolLiteral}},
		{";", []lexer.TokenKind{lexer.TokenSemi}},
		{"==", []lexer.TokenKind{lexer.TokenEqual, lexer.TokenEqual}},
		{"**", []lexer.TokenKind{lexer.TokenStar, lexer.TokenStar}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			term, err := tokenTerminal(tt.token)
			if err != nil {
				t.Fatal(err)
			}
			if len(term.parts) != len(tt.kinds) {
				t.Fatalf("got %d parts, want %d", len(term.parts), len(tt.kinds))
			}
			for i, p := range term.parts {
				if p.kind != tt.kinds[i] {
					t.Errorf("part %d: got %v, want %v", i, p.kind, tt.kinds[i])
				}
			}
		})
	}
	if _, err := tokenTerminal("x"); err == nil {
		t.Error("identifier text is not a token")
	}
}

func recognize(t *testing.T, src, start string) error {
	t.Helper()
	r, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return r.Recognize(lexer.Lex(1, src, nil), start)
}

func TestRecognize(t *testing.T) {
	tests := []struct {
		input string
		start string
		ok    bool
	}{
		{"let x: int = 1 + 2;", Start, true},
		{"func f(): int { return 1 }", Start, true},
		{"func f(a: mut int, b: &float[]) { if a < b { } else if a { } else { } }", Start, true},
		{"var s: string[][];", Start, true},
		{"func f() { while true { x = x - 1; } ; { } return }", Start, true},
		{"1 + 2 * 3", "Expr", true},
		{"a == b", "Expr", true},
		{"a = = b", "Expr", false},
		{"a = b = c", "Expr", true},
		{"2 ** 3 ** 2", "Expr", true},
		{"2 * * 3", "Expr", false},
		{"a && b || !c", "Expr", true},
		{"a & & b", "Expr", false},
		{"x as &int[]", "Expr", true},
		{"x as int as float", "Expr", false},
		{"f(1, [2, 3])[0].y", "Expr", true},
		{"f(1,)", "Expr", false},
		{"", Start, false},
		{"let x: int = ;", Start, false},
		{"let x: int = 1", Start, false},
		{"func f() { a b }", Start, false},
		{"func f() { 1; 2 }", Start, true},
		{"func f() { return 1 2 }", Start, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := recognize(t, tt.input, tt.start)
			if (err == nil) != tt.ok {
				t.Errorf("got %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	err := recognize(t, "let x: int = ;", Start)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *SyntaxError", err)
	}
	if se.Index != 5 || se.Token.Kind != lexer.TokenSemi {
		t.Errorf("got index %d token %s, want the ';' at index 5", se.Index, se.Token)
	}

	err = recognize(t, "let x: int", Start)
	if !errors.As(err, &se) || se.Token.Kind != lexer.TokenEOF {
		t.Errorf("got %v, want an end of input error", err)
	}
}

func TestRecognizeUnknownStart(t *testing.T) {
	if err := recognize(t, "x", "Nope"); err == nil {
		t.Error("expected an error")
	}
}
