package parser

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/grammar"
	"github.com/dhamidi/fox/fox/lexer"
)

// agree checks that the parser reports no error exactly when the
// grammar recognizes the input.
func agree(t *testing.T, r *grammar.Recognizer, input string) {
	t.Helper()
	engine := diag.NewEngine(nil)
	tokens := lexer.Lex(1, input, engine)
	p := New(tokens, ast.NewArena(), engine)
	p.ParseUnit(1, ast.Identifier{})

	parsed := p.ErrorCount() == 0
	recognized := r.Recognize(tokens, grammar.Start) == nil
	if parsed != recognized {
		t.Errorf("%q: parser accepts=%v, grammar accepts=%v", input, parsed, recognized)
	}
}

func TestParserAgreesWithGrammar(t *testing.T) {
	r, err := grammar.Default()
	if err != nil {
		t.Fatal(err)
	}
	inputs := []string{
		"let x: int = 1 + 2;",
		"func f(): int { return 1 }",
		"func f(a: mut int, b: &float[]): string[] { let c: int = a ** 2 ** b as int; return; }",
		"func f() { if a <= b && c != d || !e { } else if x >= y { } else { f(1, [2], (3)); } }",
		"func f() { while x < 10 { x = x + 1; a.b[c](d) = e; } }",
		"var a: bool = true; let c: char = 'c'; let s: string = \"s\";",
		"let x: int = ;",
		"let x: int = 1",
		"let x: int = a < = b;",
		"let x: int = a & & b;",
		"let x: int = 2 * * 3;",
		"let x: int = a = = b;",
		"let x: int = x as int as int;",
		"func f(a: int,) { }",
		"func f() { a b }",
		"func f() { return 1 2 }",
		"func f() { func g() { } }",
		"",
		"}",
	}
	for i, input := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			agree(t, r, input)
		})
	}
}

func TestParserAgreesWithGrammarOnNoise(t *testing.T) {
	r, err := grammar.Default()
	if err != nil {
		t.Fatal(err)
	}
	// Biased towards declarations so that some inputs are valid.
	pieces := []string{
		"let x: int = 1;", "var y: float;", "func f() {", "}", "return", "x", "1",
		"+", "*", "=", "==", "**", "(", ")", "[", "]", ";", ",", "as int", "if x {",
		"while y {", "else {", "!", "-", "a.b", "f(x)",
	}
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 400; i++ {
		var parts []string
		for n := rng.Intn(12); n >= 0; n-- {
			parts = append(parts, pieces[rng.Intn(len(pieces))])
		}
		input := strings.Join(parts, " ")
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			agree(t, r, input)
		})
	}
}
