package parser

import (
	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
)

// parseCompoundStmt parses
//
//	compound = "{" {stmt} "}"
//
// A statement that fails is skipped up to the next ';' or the closing
// brace, so one bad statement does not end the block.
func (p *Parser) parseCompoundStmt() Result[*ast.CompoundStmt] {
	lb, ok := p.consumeBracket(lexer.TokenLBrace)
	if !ok {
		return NotFound[*ast.CompoundStmt]()
	}

	var nodes []ast.Node
	for !p.check(lexer.TokenRBrace) {
		if p.isDone() {
			p.reportExpected(diag.ExpectedClosingCurlyBracket)
			return Failed[*ast.CompoundStmt]()
		}
		progressed := p.mustProgress()
		res := p.parseStmt()
		if res.IsFound() {
			if n := res.Value(); n != nil {
				nodes = append(nodes, n)
			}
		} else {
			if res.IsNotFound() {
				p.report(diag.ExpectedStmt, p.cur().Range)
			}
			if !p.resyncToSign([]lexer.TokenKind{lexer.TokenSemi, lexer.TokenRBrace}, false, false) {
				return Failed[*ast.CompoundStmt]()
			}
			p.consumeSign(lexer.TokenSemi)
		}
		progressed()
	}

	rb, _ := p.consumeBracket(lexer.TokenRBrace)
	return Found(p.arena.NewCompoundStmt(nodes, lb.Range.Union(rb.Range)))
}

// parseStmt parses one statement of a block. An empty statement is found
// with a nil node.
func (p *Parser) parseStmt() Result[ast.Node] {
	if !p.state.alive {
		return NotFound[ast.Node]()
	}
	if _, ok := p.consumeSign(lexer.TokenSemi); ok {
		return Found[ast.Node](nil)
	}

	switch p.cur().Kind {
	case lexer.TokenLet, lexer.TokenVar:
		return nodeResult(p.parseVarDecl())
	case lexer.TokenIf:
		return nodeResult(p.parseConditionStmt())
	case lexer.TokenWhile:
		return nodeResult(p.parseWhileStmt())
	case lexer.TokenReturn:
		return nodeResult(p.parseReturnStmt())
	case lexer.TokenLBrace:
		return nodeResult(p.parseCompoundStmt())
	}
	return p.parseExprStmt()
}

func nodeResult[T ast.Node](r Result[T]) Result[ast.Node] {
	if r.IsFound() {
		return Found[ast.Node](r.Value())
	}
	return Result[ast.Node]{outcome: r.outcome}
}

// parseStmtEnd consumes the ';' closing a statement. It may be left out
// when the block ends right after the statement.
func (p *Parser) parseStmtEnd() bool {
	if _, ok := p.consumeSign(lexer.TokenSemi); ok {
		return true
	}
	if p.check(lexer.TokenRBrace) {
		return true
	}
	p.reportExpected(diag.ExpectedSemi)
	return p.resyncToSign([]lexer.TokenKind{lexer.TokenSemi}, false, true)
}

// parseExprStmt parses
//
//	expr_stmt = expr ";"
func (p *Parser) parseExprStmt() Result[ast.Node] {
	expr := p.parseExpr()
	if !expr.IsFound() {
		return Result[ast.Node]{outcome: expr.outcome}
	}
	if !p.parseStmtEnd() {
		return Failed[ast.Node]()
	}
	return Found[ast.Node](expr.Value())
}

// parseCondition parses the condition of an if or while. A missing or
// malformed condition becomes an ErrorExpr when the block that follows
// can still be found.
func (p *Parser) parseCondition() (ast.Expr, bool) {
	cond := p.parseExpr()
	if cond.IsFound() {
		return cond.Value(), true
	}
	if cond.IsNotFound() {
		p.reportExpected(diag.ExpectedExpr)
	}
	errRange := p.expectedRange()
	if !p.resyncToSign([]lexer.TokenKind{lexer.TokenLBrace}, true, false) {
		return nil, false
	}
	return p.arena.NewErrorExpr(errRange), true
}

// parseBlock parses a compound statement that the grammar requires.
func (p *Parser) parseBlock() (*ast.CompoundStmt, bool) {
	body := p.parseCompoundStmt()
	if body.IsNotFound() {
		p.reportExpected(diag.ExpectedOpeningCurlyBracket)
	}
	return body.Value(), body.IsFound()
}

// parseConditionStmt parses
//
//	condition = "if" expr compound ["else" (condition | compound)]
func (p *Parser) parseConditionStmt() Result[*ast.ConditionStmt] {
	kw, ok := p.consumeKeyword(lexer.TokenIf)
	if !ok {
		return NotFound[*ast.ConditionStmt]()
	}
	cond, ok := p.parseCondition()
	if !ok {
		return Failed[*ast.ConditionStmt]()
	}
	then, ok := p.parseBlock()
	if !ok {
		return Failed[*ast.ConditionStmt]()
	}

	var els ast.Stmt
	end := then.Range()
	if _, ok := p.consumeKeyword(lexer.TokenElse); ok {
		if p.check(lexer.TokenIf) {
			elif := p.parseConditionStmt()
			if !elif.IsFound() {
				return Failed[*ast.ConditionStmt]()
			}
			els = elif.Value()
		} else {
			block, ok := p.parseBlock()
			if !ok {
				return Failed[*ast.ConditionStmt]()
			}
			els = block
		}
		end = els.Range()
	}
	return Found(p.arena.NewConditionStmt(cond, then, els, kw.Range.Union(end)))
}

// parseWhileStmt parses
//
//	while = "while" expr compound
func (p *Parser) parseWhileStmt() Result[*ast.WhileStmt] {
	kw, ok := p.consumeKeyword(lexer.TokenWhile)
	if !ok {
		return NotFound[*ast.WhileStmt]()
	}
	cond, ok := p.parseCondition()
	if !ok {
		return Failed[*ast.WhileStmt]()
	}
	body, ok := p.parseBlock()
	if !ok {
		return Failed[*ast.WhileStmt]()
	}
	return Found(p.arena.NewWhileStmt(cond, body, kw.Range.Union(body.Range())))
}

// parseReturnStmt parses
//
//	return = "return" [expr] ";"
func (p *Parser) parseReturnStmt() Result[*ast.ReturnStmt] {
	kw, ok := p.consumeKeyword(lexer.TokenReturn)
	if !ok {
		return NotFound[*ast.ReturnStmt]()
	}
	var expr ast.Expr
	res := p.parseExpr()
	switch {
	case res.IsFailed():
		return Failed[*ast.ReturnStmt]()
	case res.IsFound():
		expr = res.Value()
	}
	end := p.prevRange()
	if !p.parseStmtEnd() {
		return Failed[*ast.ReturnStmt]()
	}
	return Found(p.arena.NewReturnStmt(expr, kw.Range.Union(end)))
}
