// Package grammar holds the EBNF grammar of Fox and a recognizer that
// checks token sequences against it.
//
// The recognizer is independent of the hand-written parser and serves as
// an oracle for it: a file the parser accepts without diagnostics must be
// recognized, and the other way around.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"sync"

	"golang.org/x/exp/ebnf"
)

// Start is the production a whole file is checked against.
const Start = "Unit"

//go:embed fox.ebnf
var foxGrammar []byte

// Source returns the text of the Fox grammar.
func Source() []byte {
	return bytes.Clone(foxGrammar)
}

// Load parses and verifies the Fox grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("fox.ebnf", bytes.NewReader(foxGrammar), Start)
}

// Parse reads a grammar from r. When start is not empty the grammar is
// also verified from that production.
func Parse(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// ParseFile is Parse for a grammar stored in a file.
func ParseFile(filename, start string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Parse(filename, f, start)
}

var (
	defaultOnce       sync.Once
	defaultRecognizer *Recognizer
	defaultErr        error
)

// Default returns the recognizer for the embedded grammar.
func Default() (*Recognizer, error) {
	defaultOnce.Do(func() {
		g, err := Load()
		if err != nil {
			defaultErr = err
			return
		}
		defaultRecognizer, defaultErr = NewRecognizer(g)
	})
	return defaultRecognizer, defaultErr
}

// Errors splits an error returned by ebnf.Parse or ebnf.Verify into its
// individual messages.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	for {
		next := unwrapOne(err)
		if next == nil {
			break
		}
		err = next
	}
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	errs := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errs
}

func unwrapOne(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

// Productions returns the production names of g in sorted order,
// nonterminals first.
func Productions(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := isLexical(names[i]), isLexical(names[j])
		if li != lj {
			return !li
		}
		return names[i] < names[j]
	})
	return names
}
