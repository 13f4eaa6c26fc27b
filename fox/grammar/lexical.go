package grammar

import (
	"fmt"

	"golang.org/x/exp/ebnf"
)

type memoKey struct {
	name   string
	offset int
}

// lexicalMatcher matches text against the lexical productions of a
// grammar. Repetitions are greedy and alternatives take the longest
// match, which suffices for token-level productions.
type lexicalMatcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey]int // -1 = no match
	visiting map[memoKey]bool
}

// MatchLexical returns the length of the prefix of text matched by the
// lexical production name, or 0 when it does not match.
func MatchLexical(g ebnf.Grammar, name, text string) (int, error) {
	if !isLexical(name) {
		return 0, fmt.Errorf("%s is not a lexical production", name)
	}
	if _, ok := g[name]; !ok {
		return 0, fmt.Errorf("no production %s", name)
	}
	m := &lexicalMatcher{
		grammar:  g,
		input:    text,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	return m.matchName(name, 0), nil
}

func (m *lexicalMatcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return m.matchToken(e.String, offset)

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.match(item, offset+total)
			if n == 0 && !m.nullable(item) {
				return 0
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := 0
		for _, alt := range e {
			if n := m.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.match(e.Body, offset+total)
			if n == 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		return m.match(e.Body, offset)

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return 0
}

// nullable reports whether a zero-length match of expr still counts as a
// match inside a sequence.
func (m *lexicalMatcher) nullable(expr ebnf.Expression) bool {
	switch expr.(type) {
	case *ebnf.Repetition, *ebnf.Option:
		return true
	}
	return false
}

func (m *lexicalMatcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := m.memo[key]; ok {
		if result == -1 {
			return 0
		}
		return result
	}
	// Left recursion never matches.
	if m.visiting[key] {
		return 0
	}
	prod, ok := m.grammar[name]
	if !ok || prod.Expr == nil {
		m.memo[key] = -1
		return 0
	}

	m.visiting[key] = true
	result := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	if result == 0 {
		m.memo[key] = -1
	} else {
		m.memo[key] = result
	}
	return result
}

func (m *lexicalMatcher) matchToken(token string, offset int) int {
	if offset+len(token) > len(m.input) {
		return 0
	}
	if m.input[offset:offset+len(token)] == token {
		return len(token)
	}
	return 0
}

func (m *lexicalMatcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) || len(begin) != 1 || len(end) != 1 {
		return 0
	}
	ch := m.input[offset]
	if ch >= begin[0] && ch <= end[0] {
		return 1
	}
	return 0
}
