package parser

import (
	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/source"
)

type exprResult = Result[ast.Expr]

// Binary operator priorities, tightest first.
const (
	priorityMultiplicative = iota
	priorityAdditive
	priorityComparison
	priorityEquality
	priorityLogicalAnd
	priorityLogicalOr
)

// parseExpr parses
//
//	expr = binary_expr ["=" expr]
func (p *Parser) parseExpr() exprResult {
	lhs := p.parseBinaryExpr(priorityLogicalOr)
	if !lhs.IsFound() {
		return lhs
	}

	opRange, ok := p.parseAssignOp()
	if !ok {
		return lhs
	}
	rhs := p.parseExpr()
	if !rhs.IsFound() {
		if rhs.IsNotFound() {
			p.reportExpected(diag.ExpectedExpr)
		}
		return Failed[ast.Expr]()
	}
	return Found[ast.Expr](p.arena.NewBinaryExpr(ast.OpAssign, opRange, lhs.Value(), rhs.Value()))
}

// parseAssignOp consumes a '=' that is not the start of '=='.
func (p *Parser) parseAssignOp() (source.Range, bool) {
	saved := p.save()
	eq, ok := p.consumeSign(lexer.TokenEqual)
	if !ok {
		return source.Range{}, false
	}
	if _, ok := p.consumeAdjacentSign(lexer.TokenEqual, eq); ok {
		p.restore(saved)
		return source.Range{}, false
	}
	return eq.Range, true
}

func (p *Parser) parseOperand(priority int) exprResult {
	if priority > priorityMultiplicative {
		return p.parseBinaryExpr(priority - 1)
	}
	return p.parseCastExpr()
}

// parseBinaryExpr parses one priority band, building left-associative
// nodes:
//
//	binary_expr(n) = operand(n) {binary_op(n) operand(n)}
//	operand(0)     = cast_expr
//	operand(n)     = binary_expr(n-1)
func (p *Parser) parseBinaryExpr(priority int) exprResult {
	lhs := p.parseOperand(priority)
	if !lhs.IsFound() {
		return lhs
	}

	expr := lhs.Value()
	for {
		op, opRange, ok := p.parseBinaryOp(priority)
		if !ok {
			break
		}
		rhs := p.parseOperand(priority)
		if !rhs.IsFound() {
			if rhs.IsNotFound() {
				p.reportExpected(diag.ExpectedExpr)
			}
			return Failed[ast.Expr]()
		}
		expr = p.arena.NewBinaryExpr(op, opRange, expr, rhs.Value())
	}
	return Found(expr)
}

// parseBinaryOp consumes an operator of the given priority. Two-character
// operators need both signs to be adjacent; otherwise nothing is consumed.
func (p *Parser) parseBinaryOp(priority int) (ast.BinaryOp, source.Range, bool) {
	if !p.state.alive || !p.cur().Kind.IsSign() {
		return 0, source.Range{}, false
	}
	saved := p.save()
	first := p.cur()

	pair := func(second lexer.TokenKind) (source.Range, bool) {
		p.consumeAny()
		tok, ok := p.consumeAdjacentSign(second, first)
		if !ok {
			return source.Range{}, false
		}
		return first.Range.Union(tok.Range), true
	}

	switch priority {
	case priorityMultiplicative:
		switch first.Kind {
		case lexer.TokenStar:
			p.consumeAny()
			if _, ok := p.consumeAdjacentSign(lexer.TokenStar, first); !ok {
				return ast.OpMul, first.Range, true
			}
		case lexer.TokenSlash:
			p.consumeAny()
			return ast.OpDiv, first.Range, true
		case lexer.TokenPercent:
			p.consumeAny()
			return ast.OpMod, first.Range, true
		}
	case priorityAdditive:
		switch first.Kind {
		case lexer.TokenPlus:
			p.consumeAny()
			return ast.OpAdd, first.Range, true
		case lexer.TokenMinus:
			p.consumeAny()
			return ast.OpSub, first.Range, true
		}
	case priorityComparison:
		switch first.Kind {
		case lexer.TokenLess:
			if r, ok := pair(lexer.TokenEqual); ok {
				return ast.OpLE, r, true
			}
			return ast.OpLT, first.Range, true
		case lexer.TokenGreater:
			if r, ok := pair(lexer.TokenEqual); ok {
				return ast.OpGE, r, true
			}
			return ast.OpGT, first.Range, true
		}
	case priorityEquality:
		switch first.Kind {
		case lexer.TokenEqual:
			if r, ok := pair(lexer.TokenEqual); ok {
				return ast.OpEq, r, true
			}
		case lexer.TokenExclaim:
			if r, ok := pair(lexer.TokenEqual); ok {
				return ast.OpNEq, r, true
			}
		}
	case priorityLogicalAnd:
		if first.Kind == lexer.TokenAmp {
			if r, ok := pair(lexer.TokenAmp); ok {
				return ast.OpLAnd, r, true
			}
		}
	case priorityLogicalOr:
		if first.Kind == lexer.TokenPipe {
			if r, ok := pair(lexer.TokenPipe); ok {
				return ast.OpLOr, r, true
			}
		}
	}
	p.restore(saved)
	return 0, source.Range{}, false
}

// parseCastExpr parses
//
//	cast_expr = prefix_expr ["as" type]
func (p *Parser) parseCastExpr() exprResult {
	prefix := p.parsePrefixExpr()
	if !prefix.IsFound() {
		return prefix
	}
	if _, ok := p.consumeKeyword(lexer.TokenAs); !ok {
		return prefix
	}
	typ := p.parseType()
	if !typ.IsFound() {
		if typ.IsNotFound() {
			p.reportExpected(diag.ExpectedType)
		}
		return Failed[ast.Expr]()
	}
	tl := typ.Value()
	return Found[ast.Expr](p.arena.NewCastExpr(prefix.Value(), tl.Type, tl.Range))
}

// parsePrefixExpr parses
//
//	prefix_expr = unary_op prefix_expr | exp_expr
func (p *Parser) parsePrefixExpr() exprResult {
	op, opRange, ok := p.parseUnaryOp()
	if !ok {
		return p.parseExponentExpr()
	}
	child := p.parsePrefixExpr()
	if !child.IsFound() {
		if child.IsNotFound() {
			p.reportExpected(diag.ExpectedExpr)
		}
		return Failed[ast.Expr]()
	}
	return Found[ast.Expr](p.arena.NewUnaryExpr(op, opRange, child.Value()))
}

func (p *Parser) parseUnaryOp() (ast.UnaryOp, source.Range, bool) {
	if tok, ok := p.consumeSign(lexer.TokenExclaim); ok {
		return ast.OpLNot, tok.Range, true
	}
	if tok, ok := p.consumeSign(lexer.TokenMinus); ok {
		return ast.OpMinus, tok.Range, true
	}
	if tok, ok := p.consumeSign(lexer.TokenPlus); ok {
		return ast.OpPlus, tok.Range, true
	}
	return 0, source.Range{}, false
}

// parseExponentExpr parses
//
//	exp_expr = suffix_expr ["**" prefix_expr]
//
// Recursing into prefix_expr makes '**' right-associative.
func (p *Parser) parseExponentExpr() exprResult {
	lhs := p.parseSuffixExpr()
	if !lhs.IsFound() {
		return lhs
	}
	opRange, ok := p.parseExponentOp()
	if !ok {
		return lhs
	}
	rhs := p.parsePrefixExpr()
	if !rhs.IsFound() {
		if rhs.IsNotFound() {
			p.reportExpected(diag.ExpectedExpr)
		}
		return Failed[ast.Expr]()
	}
	return Found[ast.Expr](p.arena.NewBinaryExpr(ast.OpExp, opRange, lhs.Value(), rhs.Value()))
}

func (p *Parser) parseExponentOp() (source.Range, bool) {
	saved := p.save()
	first, ok := p.consumeSign(lexer.TokenStar)
	if !ok {
		return source.Range{}, false
	}
	second, ok := p.consumeAdjacentSign(lexer.TokenStar, first)
	if !ok {
		p.restore(saved)
		return source.Range{}, false
	}
	return first.Range.Union(second.Range), true
}

// parseSuffixExpr parses
//
//	suffix_expr = primary {suffix}
func (p *Parser) parseSuffixExpr() exprResult {
	prim := p.parsePrimary()
	if !prim.IsFound() {
		return prim
	}
	base := prim.Value()
	for {
		suffix := p.parseSuffix(base)
		switch {
		case suffix.IsFound():
			base = suffix.Value()
		case suffix.IsFailed():
			return suffix
		default:
			return Found(base)
		}
	}
}

// parseSuffix parses one of
//
//	suffix = "." id | "[" expr "]" | "(" [expr_list] ")"
func (p *Parser) parseSuffix(base ast.Expr) exprResult {
	if _, ok := p.consumeSign(lexer.TokenDot); ok {
		id, idRange, ok := p.consumeIdent()
		if !ok {
			p.reportExpected(diag.ExpectedIden)
			return Failed[ast.Expr]()
		}
		return Found[ast.Expr](p.arena.NewMemberOfExpr(base, id, idRange))
	}

	if _, ok := p.consumeBracket(lexer.TokenLBracket); ok {
		index := p.parseExpr()
		if !index.IsFound() {
			if index.IsNotFound() {
				p.reportExpected(diag.ExpectedExpr)
			}
			errRange := p.expectedRange()
			if !p.resyncToSign([]lexer.TokenKind{lexer.TokenRBracket}, true, true) {
				return Failed[ast.Expr]()
			}
			rng := base.Range().Union(p.prevRange())
			return Found[ast.Expr](p.arena.NewArraySubscriptExpr(base, p.arena.NewErrorExpr(errRange), rng))
		}
		rb, ok := p.expectClosing(lexer.TokenRBracket, diag.ExpectedClosingSquareBracket)
		if !ok {
			return Failed[ast.Expr]()
		}
		return Found[ast.Expr](p.arena.NewArraySubscriptExpr(base, index.Value(), base.Range().Union(rb.Range)))
	}

	args := p.parseParensExprList()
	switch {
	case args.IsFound():
		list := args.Value()
		return Found[ast.Expr](p.arena.NewCallExpr(base, list.exprs, base.Range().Union(list.rng)))
	case args.IsFailed():
		return Failed[ast.Expr]()
	}
	return NotFound[ast.Expr]()
}

// expectClosing consumes the closing bracket kind. When it is missing, id
// is reported and the parser resyncs to it without crossing a ';'.
func (p *Parser) expectClosing(kind lexer.TokenKind, id diag.ID) (lexer.Token, bool) {
	if tok, ok := p.consumeBracket(kind); ok {
		return tok, true
	}
	p.reportExpected(id)
	if !p.resyncToSign([]lexer.TokenKind{kind}, true, false) {
		return lexer.Token{}, false
	}
	return p.consumeBracket(kind)
}

type exprList struct {
	exprs []ast.Expr
	rng   source.Range
}

// parseParensExprList parses
//
//	parens_expr_list = "(" [expr_list] ")"
func (p *Parser) parseParensExprList() Result[exprList] {
	lp, ok := p.consumeBracket(lexer.TokenLParen)
	if !ok {
		return NotFound[exprList]()
	}

	list := p.parseExprList()
	if list.IsFailed() {
		if !p.resyncToSign([]lexer.TokenKind{lexer.TokenRParen}, true, false) {
			return Failed[exprList]()
		}
		rp, _ := p.consumeBracket(lexer.TokenRParen)
		return Found(exprList{rng: lp.Range.Union(rp.Range)})
	}

	rp, ok := p.expectClosing(lexer.TokenRParen, diag.ExpectedClosingRoundBracket)
	if !ok {
		return Failed[exprList]()
	}
	return Found(exprList{exprs: list.Value(), rng: lp.Range.Union(rp.Range)})
}

// parseExprList parses
//
//	expr_list = expr {"," expr}
//
// A trailing comma is left for the caller.
func (p *Parser) parseExprList() Result[[]ast.Expr] {
	first := p.parseExpr()
	if !first.IsFound() {
		return Result[[]ast.Expr]{outcome: first.outcome}
	}
	exprs := []ast.Expr{first.Value()}
	for {
		saved := p.save()
		if _, ok := p.consumeSign(lexer.TokenComma); !ok {
			break
		}
		next := p.parseExpr()
		if next.IsNotFound() {
			p.restore(saved)
			break
		}
		if next.IsFailed() {
			return Failed[[]ast.Expr]()
		}
		exprs = append(exprs, next.Value())
	}
	return Found(exprs)
}

// parsePrimary parses
//
//	primary = literal | array_literal | id | "(" expr ")"
func (p *Parser) parsePrimary() exprResult {
	if !p.state.alive {
		return NotFound[ast.Expr]()
	}
	if p.cur().Kind.IsLiteral() {
		return Found(p.parseLiteral())
	}
	if res := p.parseArrayLiteral(); !res.IsNotFound() {
		return res
	}
	if id, idRange, ok := p.consumeIdent(); ok {
		return Found[ast.Expr](p.arena.NewDeclRefExpr(id, idRange))
	}
	return p.parseParensExpr()
}

func (p *Parser) parseLiteral() ast.Expr {
	tok := p.consumeAny()
	a := p.arena
	switch tok.Kind {
	case lexer.TokenIntLiteral:
		v, _ := tok.Value.(int64)
		return a.NewIntegerLiteralExpr(v, tok.Range)
	case lexer.TokenFloatLiteral:
		v, _ := tok.Value.(float64)
		return a.NewFloatLiteralExpr(v, tok.Range)
	case lexer.TokenBoolLiteral:
		v, _ := tok.Value.(bool)
		return a.NewBoolLiteralExpr(v, tok.Range)
	case lexer.TokenCharLiteral:
		v, _ := tok.Value.(rune)
		return a.NewCharLiteralExpr(v, tok.Range)
	case lexer.TokenStringLiteral:
		v, _ := tok.Value.(string)
		return a.NewStringLiteralExpr(v, tok.Range)
	}
	panic("parser: parseLiteral called on " + tok.Kind.String())
}

// parseArrayLiteral parses
//
//	array_literal = "[" [expr_list] "]"
func (p *Parser) parseArrayLiteral() exprResult {
	lb, ok := p.consumeBracket(lexer.TokenLBracket)
	if !ok {
		return NotFound[ast.Expr]()
	}
	list := p.parseExprList()
	if rb, ok := p.consumeBracket(lexer.TokenRBracket); ok {
		return Found[ast.Expr](p.arena.NewArrayLiteralExpr(list.Value(), lb.Range.Union(rb.Range)))
	}
	if !list.IsFailed() {
		p.reportExpected(diag.ExpectedClosingSquareBracket)
	}
	if !p.resyncToSign([]lexer.TokenKind{lexer.TokenRBracket}, true, false) {
		return Failed[ast.Expr]()
	}
	rb, _ := p.consumeBracket(lexer.TokenRBracket)
	return Found[ast.Expr](p.arena.NewArrayLiteralExpr(list.Value(), lb.Range.Union(rb.Range)))
}

// parseParensExpr parses
//
//	parens_expr = "(" expr ")"
//
// A missing inner expression is replaced by an ErrorExpr once the closing
// parenthesis has been found.
func (p *Parser) parseParensExpr() exprResult {
	lp, ok := p.consumeBracket(lexer.TokenLParen)
	if !ok {
		return NotFound[ast.Expr]()
	}

	inner := p.parseExpr()
	if !inner.IsFound() {
		if inner.IsNotFound() {
			p.reportExpected(diag.ExpectedExpr)
		}
		errRange := p.expectedRange()
		if !p.resyncToSign([]lexer.TokenKind{lexer.TokenRParen}, true, true) {
			return Failed[ast.Expr]()
		}
		rng := lp.Range.Union(p.prevRange())
		return Found[ast.Expr](p.arena.NewParensExpr(p.arena.NewErrorExpr(errRange), rng))
	}

	rp, ok := p.expectClosing(lexer.TokenRParen, diag.ExpectedClosingRoundBracket)
	if !ok {
		return Failed[ast.Expr]()
	}
	return Found[ast.Expr](p.arena.NewParensExpr(inner.Value(), lp.Range.Union(rp.Range)))
}
