package grammar

import (
	"testing"

	"github.com/dhamidi/fox/fox/lexer"
)

func TestLexerTokensMatchLexicalProductions(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	productions := make(map[lexer.TokenKind]string)
	for name, kind := range lexicalKinds {
		productions[kind] = name
	}

	src := `func main(_a1: int): bool {
		let f: float = 3.25 + 10.0;
		let c: char = '\n';
		let d: char = 'x';
		let s: string = "tab\there \"quoted\" \\ end";
		let e: string = "";
		return true || false
	}`
	seen := 0
	for _, tok := range lexer.Lex(1, src, nil) {
		name, ok := productions[tok.Kind]
		if !ok {
			continue
		}
		seen++
		n, err := MatchLexical(g, name, tok.Text)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if n != len(tok.Text) {
			t.Errorf("%s %q: matched %d bytes, want %d", name, tok.Text, n, len(tok.Text))
		}
	}
	if seen == 0 {
		t.Fatal("no literal tokens lexed")
	}
}

func TestMatchLexical(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		production string
		text       string
		want       int
	}{
		{"ident", "x", 1},
		{"ident", "abc_12 rest", 6},
		{"ident", "1x", 0},
		{"int_lit", "12a", 2},
		{"float_lit", "1.5", 3},
		{"float_lit", "1.", 0},
		{"bool_lit", "false", 5},
		{"char_lit", `'\q'`, 0},
		{"char_lit", `'''`, 0},
		{"string_lit", `"abc`, 0},
		{"string_lit", `"a\"b" tail`, 6},
	}
	for _, tt := range tests {
		t.Run(tt.production+" "+tt.text, func(t *testing.T) {
			got, err := MatchLexical(g, tt.production, tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := MatchLexical(g, "Expr", "x"); err == nil {
		t.Error("nonterminal accepted")
	}
	if _, err := MatchLexical(g, "nope", "x"); err == nil {
		t.Error("unknown production accepted")
	}
}
