package grammar

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/fox/fox/lexer"
	"golang.org/x/exp/ebnf"
)

// lexicalKinds maps the lexical productions the recognizer matches to the
// token kinds the lexer produces for them.
var lexicalKinds = map[string]lexer.TokenKind{
	"ident":      lexer.TokenIdent,
	"int_lit":    lexer.TokenIntLiteral,
	"float_lit":  lexer.TokenFloatLiteral,
	"bool_lit":   lexer.TokenBoolLiteral,
	"char_lit":   lexer.TokenCharLiteral,
	"string_lit": lexer.TokenStringLiteral,
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// part matches one token. An empty text matches any token of the kind.
type part struct {
	kind lexer.TokenKind
	text string
}

// terminal matches one or more adjacent tokens.
type terminal struct {
	parts []part
	name  string
}

func (t *terminal) match(tokens []lexer.Token, pos int) bool {
	if pos+len(t.parts) > len(tokens) {
		return false
	}
	for i, p := range t.parts {
		tok := tokens[pos+i]
		if tok.Kind != p.kind || (p.text != "" && tok.Text != p.text) {
			return false
		}
		if i > 0 && tok.Range.Begin != tokens[pos+i-1].Range.End {
			return false
		}
	}
	return true
}

// symbol is either a nonterminal name or a terminal.
type symbol struct {
	name string
	term *terminal
}

func (s symbol) String() string {
	if s.term != nil {
		return s.term.name
	}
	return s.name
}

// rule is a plain BNF rule produced by desugaring the EBNF grammar.
type rule struct {
	lhs string
	rhs []symbol
}

func (r rule) String() string {
	parts := make([]string, len(r.rhs))
	for i, s := range r.rhs {
		parts[i] = s.String()
	}
	return r.lhs + " → " + strings.Join(parts, " ")
}

// Recognizer decides whether a token sequence belongs to the language of
// a grammar, using Earley's algorithm over desugared rules.
type Recognizer struct {
	rules    []rule
	byLHS    map[string][]int
	nullable map[string]bool
	fresh    int
}

// NewRecognizer desugars g. Lexical productions are not expanded; each
// one referenced from a nonterminal must name a token kind.
func NewRecognizer(g ebnf.Grammar) (*Recognizer, error) {
	r := &Recognizer{byLHS: make(map[string][]int)}
	for _, name := range Productions(g) {
		if isLexical(name) {
			continue
		}
		if err := r.addProduction(name, g[name].Expr); err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
	}
	r.computeNullable()
	return r, nil
}

func (r *Recognizer) addRule(lhs string, rhs []symbol) {
	r.byLHS[lhs] = append(r.byLHS[lhs], len(r.rules))
	r.rules = append(r.rules, rule{lhs: lhs, rhs: rhs})
}

func (r *Recognizer) freshName(base string) string {
	r.fresh++
	return fmt.Sprintf("%s#%d", base, r.fresh)
}

func (r *Recognizer) addProduction(lhs string, expr ebnf.Expression) error {
	if alt, ok := expr.(ebnf.Alternative); ok {
		for _, e := range alt {
			if err := r.addProduction(lhs, e); err != nil {
				return err
			}
		}
		return nil
	}
	rhs, err := r.sequence(lhs, expr)
	if err != nil {
		return err
	}
	r.addRule(lhs, rhs)
	return nil
}

// sequence turns expr into the right-hand side of one rule, introducing
// helper nonterminals for groups, options and repetitions.
func (r *Recognizer) sequence(lhs string, expr ebnf.Expression) ([]symbol, error) {
	switch e := expr.(type) {
	case nil:
		return nil, nil
	case ebnf.Sequence:
		var rhs []symbol
		for _, item := range e {
			syms, err := r.sequence(lhs, item)
			if err != nil {
				return nil, err
			}
			rhs = append(rhs, syms...)
		}
		return rhs, nil
	case *ebnf.Name:
		if !isLexical(e.String) {
			return []symbol{{name: e.String}}, nil
		}
		kind, ok := lexicalKinds[e.String]
		if !ok {
			return nil, fmt.Errorf("%s: lexical production %s has no token kind", e.Pos(), e.String)
		}
		return []symbol{{term: &terminal{parts: []part{{kind: kind}}, name: e.String}}}, nil
	case *ebnf.Token:
		t, err := tokenTerminal(e.String)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Pos(), err)
		}
		return []symbol{{term: t}}, nil
	case ebnf.Alternative, *ebnf.Group:
		name := r.freshName(lhs)
		body := expr
		if g, ok := e.(*ebnf.Group); ok {
			body = g.Body
		}
		if err := r.addProduction(name, body); err != nil {
			return nil, err
		}
		return []symbol{{name: name}}, nil
	case *ebnf.Option:
		name := r.freshName(lhs)
		r.addRule(name, nil)
		if err := r.addProduction(name, e.Body); err != nil {
			return nil, err
		}
		return []symbol{{name: name}}, nil
	case *ebnf.Repetition:
		// N = ε | N body
		name := r.freshName(lhs)
		item := r.freshName(lhs)
		if err := r.addProduction(item, e.Body); err != nil {
			return nil, err
		}
		r.addRule(name, nil)
		r.addRule(name, []symbol{{name: name}, {name: item}})
		return []symbol{{name: name}}, nil
	case *ebnf.Range:
		return nil, fmt.Errorf("%s: character ranges are only allowed in lexical productions", e.Pos())
	}
	return nil, fmt.Errorf("%s: unsupported expression %T", expr.Pos(), expr)
}

// tokenTerminal maps a quoted grammar token to the tokens the lexer
// produces for it: a keyword, or one sign per byte.
func tokenTerminal(s string) (*terminal, error) {
	quoted := fmt.Sprintf("%q", s)
	if kind := lexer.LookupKeyword(s); kind != lexer.TokenIdent {
		return &terminal{parts: []part{{kind: kind, text: s}}, name: quoted}, nil
	}
	if s == "" {
		return nil, fmt.Errorf("empty token")
	}
	parts := make([]part, len(s))
	for i := 0; i < len(s); i++ {
		kind, ok := lexer.LookupSign(s[i])
		if !ok {
			return nil, fmt.Errorf("token %s is neither a keyword nor an operator", quoted)
		}
		parts[i] = part{kind: kind, text: s[i : i+1]}
	}
	return &terminal{parts: parts, name: quoted}, nil
}

func (r *Recognizer) computeNullable() {
	r.nullable = make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, ru := range r.rules {
			if r.nullable[ru.lhs] {
				continue
			}
			all := true
			for _, s := range ru.rhs {
				if s.term != nil || !r.nullable[s.name] {
					all = false
					break
				}
			}
			if all {
				r.nullable[ru.lhs] = true
				changed = true
			}
		}
	}
}

// Rules returns the desugared rules, one per line.
func (r *Recognizer) Rules() string {
	var sb strings.Builder
	for _, ru := range r.rules {
		sb.WriteString(ru.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

type item struct {
	rule   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func (s *itemSet) add(it item) {
	if s.seen == nil {
		s.seen = make(map[item]bool)
	}
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// SyntaxError reports where recognition stopped. Index is the position of
// the first token that could not be consumed; at the end of input Token
// is the EOF token.
type SyntaxError struct {
	Index int
	Token lexer.Token
}

func (e *SyntaxError) Error() string {
	if e.Token.Kind == lexer.TokenEOF {
		return fmt.Sprintf("unexpected end of input after %d tokens", e.Index)
	}
	return fmt.Sprintf("unexpected %s at token %d", e.Token, e.Index)
}

// Recognize checks tokens against production start. A trailing EOF token
// is ignored. The returned error is a *SyntaxError when the tokens do not
// match.
func (r *Recognizer) Recognize(tokens []lexer.Token, start string) error {
	if _, ok := r.byLHS[start]; !ok {
		return fmt.Errorf("no production %s", start)
	}
	eof := lexer.Token{Kind: lexer.TokenEOF}
	if n := len(tokens); n > 0 && tokens[n-1].Kind == lexer.TokenEOF {
		eof = tokens[n-1]
		tokens = tokens[:n-1]
	}

	n := len(tokens)
	chart := make([]itemSet, n+1)
	for _, ri := range r.byLHS[start] {
		chart[0].add(item{rule: ri})
	}

	for i := 0; i <= n; i++ {
		set := &chart[i]
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			ru := r.rules[it.rule]
			if it.dot == len(ru.rhs) {
				r.complete(chart, i, it)
				continue
			}
			next := ru.rhs[it.dot]
			if next.term != nil {
				if next.term.match(tokens, i) {
					chart[i+len(next.term.parts)].add(item{it.rule, it.dot + 1, it.origin})
				}
				continue
			}
			for _, ri := range r.byLHS[next.name] {
				set.add(item{rule: ri, origin: i})
			}
			if r.nullable[next.name] {
				set.add(item{it.rule, it.dot + 1, it.origin})
			}
		}
	}

	for _, it := range chart[n].items {
		ru := r.rules[it.rule]
		if ru.lhs == start && it.origin == 0 && it.dot == len(ru.rhs) {
			return nil
		}
	}

	furthest := 0
	for i := n; i >= 0; i-- {
		if len(chart[i].items) > 0 {
			furthest = i
			break
		}
	}
	if furthest < n {
		return &SyntaxError{Index: furthest, Token: tokens[furthest]}
	}
	return &SyntaxError{Index: n, Token: eof}
}

// complete advances every item at the origin of it that was waiting for
// its left-hand side.
func (r *Recognizer) complete(chart []itemSet, pos int, it item) {
	lhs := r.rules[it.rule].lhs
	origin := &chart[it.origin]
	for k := 0; k < len(origin.items); k++ {
		waiting := origin.items[k]
		wr := r.rules[waiting.rule]
		if waiting.dot < len(wr.rhs) && wr.rhs[waiting.dot].term == nil && wr.rhs[waiting.dot].name == lhs {
			chart[pos].add(item{waiting.rule, waiting.dot + 1, waiting.origin})
		}
	}
}
