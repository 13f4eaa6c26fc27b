// Package lexer turns a Fox source buffer into a token sequence.
package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/source"
)

// State is the automaton state the lexer is in.
type State int

const (
	StateBase State = iota
	StateStringLiteral
	StateLineComment
	StateBlockComment
	StateWordLike
	StateCharLiteral
)

var stateNames = map[State]string{
	StateBase:          "Base",
	StateStringLiteral: "StringLiteral",
	StateLineComment:   "LineComment",
	StateBlockComment:  "BlockComment",
	StateWordLike:      "WordLike",
	StateCharLiteral:   "CharLiteral",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

type Lexer struct {
	input string
	file  source.FileID
	pos   int
	state State
	diags *diag.Engine
	done  bool
}

// New returns a lexer over input. diags may be nil, in which case
// lexical errors are only visible through Token.Invalid.
func New(file source.FileID, input string, diags *diag.Engine) *Lexer {
	if diags == nil {
		diags = diag.NewEngine(nil)
	}
	return &Lexer{
		input: input,
		file:  file,
		diags: diags,
	}
}

// Lex tokenizes input completely. The result always ends with one EOF token.
func Lex(file source.FileID, input string, diags *diag.Engine) []Token {
	l := New(file, input, diags)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) State() State {
	return l.state
}

func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) rangeFrom(start int) source.Range {
	return source.NewRange(l.file, start, l.pos)
}

// Next returns the next token. After EOF has been returned once, every
// further call returns EOF again.
func (l *Lexer) Next() Token {
	for {
		l.state = StateBase
		if l.done || l.atEOF() {
			l.done = true
			return Token{Kind: TokenEOF, Range: source.At(l.file, len(l.input))}
		}

		start := l.pos
		ch := l.peek()

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f':
			l.pos++
			continue
		case ch == '/' && l.peekN(1) == '/':
			l.scanLineComment()
			continue
		case ch == '/' && l.peekN(1) == '*':
			if !l.scanBlockComment(start) {
				l.done = true
			}
			continue
		case ch == '"':
			return l.scanStringLiteral(start)
		case ch == '\'':
			return l.scanCharLiteral(start)
		case isDigit(ch):
			return l.scanNumber(start)
		}

		if kind, ok := LookupSign(ch); ok {
			l.pos++
			return l.token(kind, start)
		}

		r, size := l.peekRune()
		if isIdentStart(r) {
			return l.scanWordLike(start)
		}

		l.pos += size
		l.diags.Report(diag.UnrecognizedChar, l.rangeFrom(start), r)
	}
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	return Token{
		Kind:  kind,
		Range: l.rangeFrom(start),
		Text:  l.input[start:l.pos],
	}
}

func (l *Lexer) scanLineComment() {
	l.state = StateLineComment
	l.pos += 2
	for !l.atEOF() && l.peek() != '\n' {
		l.pos++
	}
}

// scanBlockComment reports false if the comment is never closed.
func (l *Lexer) scanBlockComment(start int) bool {
	l.state = StateBlockComment
	l.pos += 2
	for !l.atEOF() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.pos += 2
			return true
		}
		l.pos++
	}
	l.diags.Report(diag.UnterminatedBlockComment, l.rangeFrom(start))
	return false
}

func (l *Lexer) scanWordLike(start int) Token {
	l.state = StateWordLike
	for !l.atEOF() {
		r, size := l.peekRune()
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	tok := l.token(LookupKeyword(l.input[start:l.pos]), start)
	if tok.Kind == TokenBoolLiteral {
		tok.Value = tok.Text == "true"
	}
	return tok
}

func (l *Lexer) scanNumber(start int) Token {
	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.pos++
		for isDigit(l.peek()) {
			l.pos++
		}
		tok := l.token(TokenFloatLiteral, start)
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			tok.Invalid = true
		}
		tok.Value = v
		return tok
	}

	tok := l.token(TokenIntLiteral, start)
	v, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		l.diags.Report(diag.IntTooLarge, tok.Range, tok.Text)
		tok.Invalid = true
		v = 0
	}
	tok.Value = v
	return tok
}

// scanQuoted consumes a literal delimited by quote. It returns the decoded
// content and whether the closing delimiter was found.
func (l *Lexer) scanQuoted(quote byte) (string, bool) {
	l.pos++
	var buf []byte
	escaped := false
	for !l.atEOF() {
		r, size := l.peekRune()
		escStart := l.pos - 1
		l.pos += size

		if escaped {
			escaped = false
			if c, ok := unescape(r); ok {
				buf = append(buf, c)
				continue
			}
			l.diags.Report(diag.InvalidEscape, source.NewRange(l.file, escStart, l.pos), r)
			buf = append(buf, '\\')
			buf = utf8.AppendRune(buf, r)
			continue
		}

		switch {
		case r == '\\' && size == 1:
			escaped = true
		case r == rune(quote):
			return string(buf), true
		default:
			buf = append(buf, l.input[l.pos-size:l.pos]...)
		}
	}
	return string(buf), false
}

func (l *Lexer) scanStringLiteral(start int) Token {
	l.state = StateStringLiteral
	value, closed := l.scanQuoted('"')
	tok := l.token(TokenStringLiteral, start)
	tok.Value = value
	if !closed {
		l.diags.Report(diag.UnterminatedString, tok.Range)
		tok.Invalid = true
	}
	return tok
}

func (l *Lexer) scanCharLiteral(start int) Token {
	l.state = StateCharLiteral
	value, closed := l.scanQuoted('\'')
	tok := l.token(TokenCharLiteral, start)
	if !closed {
		l.diags.Report(diag.UnterminatedChar, tok.Range)
		tok.Invalid = true
		tok.Value = rune(0)
		return tok
	}

	switch utf8.RuneCountInString(value) {
	case 0:
		l.diags.Report(diag.EmptyCharLiteral, tok.Range)
		tok.Invalid = true
		tok.Value = rune(0)
	case 1:
		r, _ := utf8.DecodeRuneInString(value)
		tok.Value = r
	default:
		l.diags.Report(diag.CharLiteralTooLong, tok.Range)
		tok.Invalid = true
		r, _ := utf8.DecodeRuneInString(value)
		tok.Value = r
	}
	return tok
}

func unescape(r rune) (byte, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	}
	return 0, false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
