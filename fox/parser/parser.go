// Package parser builds a Fox syntax tree from a token sequence.
//
// The grammar is parsed by recursive descent with precedence climbing for
// binary operators. Multi-character operators are assembled from adjacent
// one-byte sign tokens by speculative consumption: the parser snapshots
// its state, consumes, and restores the snapshot when the operator does
// not continue.
//
// After a syntax error the failing rule resynchronizes by skipping tokens
// up to an anchor, treating bracketed groups as single units and never
// consuming a closing bracket that an enclosing rule is waiting for. If no
// anchor exists before the end of the input the parser dies: the cursor
// moves to EOF and every later rule fails immediately.
package parser

import (
	"fmt"
	"math"

	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/source"
	"github.com/tliron/commonlog"
)

// MaxBracketDepth is the deepest nesting of one bracket kind the parser
// accepts.
const MaxBracketDepth = math.MaxUint8

type Option func(*Parser)

// WithoutRecovery makes every resynchronization attempt fail at once, so
// the first syntax error ends the enclosing rule.
func WithoutRecovery() Option {
	return func(p *Parser) {
		p.recoveryAllowed = false
	}
}

// WithDeclContext sets the context new units are nested in.
func WithDeclContext(ctx *ast.DeclContext) Option {
	return func(p *Parser) {
		p.rootCtx = ctx
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// state is everything a speculative parse has to restore.
type state struct {
	pos    int
	curly  uint8
	round  uint8
	square uint8
	alive  bool
}

type Parser struct {
	tokens []lexer.Token
	arena  *ast.Arena
	diags  *diag.Engine
	log    commonlog.Logger

	state           state
	recoveryAllowed bool
	errors          int

	rootCtx *ast.DeclContext
	declCtx *ast.DeclContext
}

// New returns a parser over tokens, which must end with an EOF token.
func New(tokens []lexer.Token, arena *ast.Arena, diags *diag.Engine, opts ...Option) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.TokenEOF {
		panic("parser: token sequence must end with EOF")
	}
	if diags == nil {
		diags = diag.NewEngine(nil)
	}
	p := &Parser{
		tokens:          tokens,
		arena:           arena,
		diags:           diags,
		log:             commonlog.GetLogger("fox.parser"),
		state:           state{alive: true},
		recoveryAllowed: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile lexes and parses a file registered in sm.
func ParseFile(sm *source.Manager, file source.FileID, arena *ast.Arena, diags *diag.Engine, opts ...Option) *ast.UnitDecl {
	tokens := lexer.Lex(file, sm.Content(file), diags)
	p := New(tokens, arena, diags, opts...)
	return p.ParseUnit(file, arena.Intern(sm.Name(file)))
}

// Alive reports whether the parser has not died.
func (p *Parser) Alive() bool {
	return p.state.alive
}

// BracketDepths returns the number of currently open curly, round and
// square brackets.
func (p *Parser) BracketDepths() (curly, round, square int) {
	return int(p.state.curly), int(p.state.round), int(p.state.square)
}

// ErrorCount is the number of diagnostics this parser reported.
func (p *Parser) ErrorCount() int {
	return p.errors
}

func (p *Parser) save() state {
	return p.state
}

func (p *Parser) restore(s state) {
	p.state = s
}

func (p *Parser) cur() lexer.Token {
	if p.state.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.state.pos]
}

// prev returns the last consumed token, if any.
func (p *Parser) prev() (lexer.Token, bool) {
	if p.state.pos == 0 {
		return lexer.Token{}, false
	}
	return p.tokens[p.state.pos-1], true
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == lexer.TokenEOF
}

// isDone reports whether nothing more can be parsed.
func (p *Parser) isDone() bool {
	return !p.state.alive || p.atEOF()
}

func (p *Parser) check(kinds ...lexer.TokenKind) bool {
	return p.state.alive && p.cur().Is(kinds...)
}

func (p *Parser) consumeAny() lexer.Token {
	tok := p.cur()
	if tok.Kind != lexer.TokenEOF {
		p.state.pos++
	}
	return tok
}

func (p *Parser) consumeKeyword(kind lexer.TokenKind) (lexer.Token, bool) {
	if !p.check(kind) {
		return lexer.Token{}, false
	}
	return p.consumeAny(), true
}

// consumeSign consumes a non-bracket sign.
func (p *Parser) consumeSign(kind lexer.TokenKind) (lexer.Token, bool) {
	if kind.IsOpeningBracket() || kind.IsClosingBracket() {
		panic(fmt.Sprintf("parser: consumeSign called with bracket %s", kind))
	}
	if !p.check(kind) {
		return lexer.Token{}, false
	}
	return p.consumeAny(), true
}

// consumeAdjacentSign consumes a sign only when it starts exactly where
// after ends, which is how multi-character operators are spelled.
func (p *Parser) consumeAdjacentSign(kind lexer.TokenKind, after lexer.Token) (lexer.Token, bool) {
	tok := p.cur()
	if !p.check(kind) || tok.Range.Begin != after.Range.End {
		return lexer.Token{}, false
	}
	return p.consumeSign(kind)
}

func (p *Parser) counter(kind lexer.TokenKind) *uint8 {
	switch kind {
	case lexer.TokenLBrace, lexer.TokenRBrace:
		return &p.state.curly
	case lexer.TokenLParen, lexer.TokenRParen:
		return &p.state.round
	case lexer.TokenLBracket, lexer.TokenRBracket:
		return &p.state.square
	}
	panic(fmt.Sprintf("parser: %s is not a bracket", kind))
}

// consumeBracket consumes a bracket and updates its counter. Counters
// never wrap: closing at zero leaves zero, and opening past
// MaxBracketDepth reports an error and kills the parser.
func (p *Parser) consumeBracket(kind lexer.TokenKind) (lexer.Token, bool) {
	if !p.check(kind) {
		return lexer.Token{}, false
	}
	c := p.counter(kind)
	if kind.IsOpeningBracket() {
		if *c == MaxBracketDepth {
			p.report(diag.BracketsTooDeep, p.cur().Range, MaxBracketDepth)
			p.die()
			return lexer.Token{}, false
		}
		*c++
	} else if *c > 0 {
		*c--
	}
	return p.consumeAny(), true
}

func (p *Parser) consumeIdent() (ast.Identifier, source.Range, bool) {
	if !p.check(lexer.TokenIdent) {
		return ast.Identifier{}, source.Range{}, false
	}
	tok := p.consumeAny()
	return p.arena.Intern(tok.Text), tok.Range, true
}

// report emits a diagnostic unless the parser is dead.
func (p *Parser) report(id diag.ID, r source.Range, args ...any) {
	if !p.state.alive {
		return
	}
	p.errors++
	p.diags.Report(id, r, args...)
}

// reportExpected reports id just after the last consumed token.
func (p *Parser) reportExpected(id diag.ID) {
	p.report(id, p.expectedRange())
}

func (p *Parser) expectedRange() source.Range {
	if tok, ok := p.prev(); ok {
		return source.At(tok.Range.File, tok.Range.End)
	}
	cur := p.cur().Range
	return source.At(cur.File, cur.Begin)
}

// prevRange is the range of the last consumed token, used to close node ranges.
func (p *Parser) prevRange() source.Range {
	if tok, ok := p.prev(); ok {
		return tok.Range
	}
	return p.expectedRange()
}

func (p *Parser) die() {
	if !p.state.alive {
		return
	}
	p.log.Debugf("giving up at %s, skipping to end of input", p.cur().Range)
	p.state.pos = len(p.tokens) - 1
	p.state.alive = false
}

// resyncToSign skips tokens until one of kinds is found and reports
// whether one was. The first token is skipped even if it would stop the
// scan, unless it is an anchor or a bracket. With stopAtSemi a ';' ends
// the scan unsuccessfully. With consume the anchor itself is consumed.
func (p *Parser) resyncToSign(kinds []lexer.TokenKind, stopAtSemi, consume bool) bool {
	if !p.recoveryAllowed || !p.state.alive {
		return false
	}
	p.log.Debugf("resync to %v from %s", kinds, p.cur())
	ok := p.skipTo(kinds, stopAtSemi, consume)
	if ok {
		p.log.Debugf("recovered at %s", p.cur())
	}
	return ok
}

func (p *Parser) skipTo(kinds []lexer.TokenKind, stopAtSemi, consume bool) bool {
	first := true
	for p.state.alive && !p.atEOF() {
		tok := p.cur()
		if tok.Is(kinds...) {
			if consume {
				if tok.Kind.IsOpeningBracket() || tok.Kind.IsClosingBracket() {
					p.consumeBracket(tok.Kind)
				} else {
					p.consumeAny()
				}
			}
			return true
		}

		switch {
		case tok.Kind.IsOpeningBracket():
			if _, ok := p.consumeBracket(tok.Kind); !ok {
				return false
			}
			p.skipTo([]lexer.TokenKind{tok.Kind.Closer()}, false, true)
		case tok.Kind.IsClosingBracket():
			if *p.counter(tok.Kind) > 0 {
				return false
			}
			p.consumeBracket(tok.Kind)
		case tok.Kind == lexer.TokenSemi && stopAtSemi && !first:
			return false
		default:
			p.consumeAny()
		}
		first = false
	}
	p.die()
	return false
}

// resyncToNextDecl skips to the next token that can start a declaration.
func (p *Parser) resyncToNextDecl() bool {
	if !p.recoveryAllowed || !p.state.alive {
		return false
	}
	p.log.Debugf("resync to next declaration from %s", p.cur())
	for p.state.alive && !p.atEOF() {
		tok := p.cur()
		switch {
		case tok.Is(lexer.TokenLet, lexer.TokenVar, lexer.TokenFunc):
			return true
		case tok.Kind.IsOpeningBracket():
			if _, ok := p.consumeBracket(tok.Kind); !ok {
				return false
			}
			p.skipTo([]lexer.TokenKind{tok.Kind.Closer()}, false, true)
		case tok.Kind.IsClosingBracket():
			p.consumeBracket(tok.Kind)
		default:
			p.consumeAny()
		}
	}
	p.die()
	return false
}

// mustProgress returns a function that reports whether the cursor moved
// since the call. When it did not, it consumes one token.
func (p *Parser) mustProgress() func() bool {
	saved := p.state.pos
	return func() bool {
		if p.state.pos == saved {
			if !p.atEOF() {
				p.consumeAny()
			}
			return false
		}
		return true
	}
}

// pushContext makes ctx current and returns a function restoring the
// previous one.
func (p *Parser) pushContext(ctx *ast.DeclContext) func() {
	saved := p.declCtx
	p.declCtx = ctx
	return func() {
		p.declCtx = saved
	}
}

func (p *Parser) register(d ast.NamedDecl) {
	if p.declCtx != nil {
		p.declCtx.Add(d)
	}
}

// ParseUnit parses a whole file. It returns nil when no declaration was
// parsed.
func (p *Parser) ParseUnit(file source.FileID, name ast.Identifier) *ast.UnitDecl {
	unit := p.arena.NewUnitDecl(name, file, p.rootCtx)
	defer p.pushContext(unit.Context())()

	var decls []ast.Decl
	hadError := false
	for {
		progressed := p.mustProgress()
		res := p.parseDecl()
		if res.IsFound() {
			decls = append(decls, res.Value())
			continue
		}
		if res.IsFailed() {
			hadError = true
		}
		if p.isDone() {
			break
		}
		if res.IsNotFound() {
			p.report(diag.ExpectedDecl, p.cur().Range)
			hadError = true
		}
		if !p.resyncToNextDecl() {
			break
		}
		progressed()
	}

	p.checkBrackets()

	if len(decls) == 0 {
		if !hadError {
			p.report(diag.ExpectedDeclInUnit, source.At(file, 0))
		}
		return nil
	}
	rng := decls[0].Range().Union(decls[len(decls)-1].Range())
	p.arena.FinishUnitDecl(unit, decls, rng)
	return unit
}

// ParseExpr parses a single expression. complete reports whether the
// expression spans every token.
func (p *Parser) ParseExpr() (expr ast.Expr, complete bool) {
	res := p.parseExpr()
	if res.IsNotFound() {
		p.reportExpected(diag.ExpectedExpr)
	}
	if !res.IsFound() {
		return nil, false
	}
	p.checkBrackets()
	return res.Value(), p.atEOF()
}

// checkBrackets panics when a parse that reported nothing left brackets
// open; that can only be a parser defect.
func (p *Parser) checkBrackets() {
	if p.errors > 0 {
		return
	}
	if p.state.curly != 0 || p.state.round != 0 || p.state.square != 0 {
		panic(fmt.Sprintf("parser: unbalanced brackets after clean parse: {%d (%d [%d",
			p.state.curly, p.state.round, p.state.square))
	}
}
