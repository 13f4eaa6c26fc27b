package parser

import (
	"github.com/dhamidi/fox/fox/ast"
	"github.com/dhamidi/fox/fox/diag"
	"github.com/dhamidi/fox/fox/lexer"
	"github.com/dhamidi/fox/fox/source"
)

// parseDecl parses
//
//	decl = var_decl | func_decl
func (p *Parser) parseDecl() Result[ast.Decl] {
	if !p.state.alive {
		return NotFound[ast.Decl]()
	}
	switch p.cur().Kind {
	case lexer.TokenLet, lexer.TokenVar:
		return p.parseVarDecl()
	case lexer.TokenFunc:
		return p.parseFuncDecl()
	}
	return NotFound[ast.Decl]()
}

// parseVarDecl parses
//
//	var_decl = ("let" | "var") id ":" type ["=" expr] ";"
//
// The declaration is registered as soon as its identifier is known. When a
// later part is malformed the declaration is marked invalid and still
// returned if the closing ';' can be found.
func (p *Parser) parseVarDecl() Result[ast.Decl] {
	kw, ok := p.consumeKeyword(lexer.TokenLet)
	if !ok {
		if kw, ok = p.consumeKeyword(lexer.TokenVar); !ok {
			return NotFound[ast.Decl]()
		}
	}
	isConst := kw.Kind == lexer.TokenLet

	id, idRange, ok := p.consumeIdent()
	if !ok {
		p.reportExpected(diag.ExpectedIden)
		d := p.arena.NewVarDecl(isConst, ast.Identifier{}, p.expectedRange(), kw.Range)
		return p.abandonVarDecl(d, kw.Range)
	}
	d := p.arena.NewVarDecl(isConst, id, idRange, kw.Range.Union(idRange))
	p.register(d)

	if _, ok := p.consumeSign(lexer.TokenColon); !ok {
		p.reportExpected(diag.ExpectedColon)
		return p.abandonVarDecl(d, kw.Range)
	}
	typ := p.parseType()
	if !typ.IsFound() {
		if typ.IsNotFound() {
			p.reportExpected(diag.ExpectedType)
		}
		return p.abandonVarDecl(d, kw.Range)
	}
	d.SetValueType(typ.Value().Type, typ.Value().Range)

	if _, ok := p.consumeSign(lexer.TokenEqual); ok {
		init := p.parseExpr()
		if init.IsFound() {
			d.Init = init.Value()
		} else {
			if init.IsNotFound() {
				p.reportExpected(diag.ExpectedExpr)
			}
			d.Init = p.arena.NewErrorExpr(p.expectedRange())
			d.SetInvalid()
			if !p.resyncToSign([]lexer.TokenKind{lexer.TokenSemi}, false, false) {
				d.SetRange(kw.Range.Union(p.prevRange()))
				return Failed[ast.Decl]()
			}
		}
	}

	if _, ok := p.consumeSign(lexer.TokenSemi); !ok {
		p.reportExpected(diag.ExpectedSemi)
		if !p.resyncToSign([]lexer.TokenKind{lexer.TokenSemi}, false, true) {
			d.SetRange(kw.Range.Union(p.prevRange()))
			return Failed[ast.Decl]()
		}
	}
	d.SetRange(kw.Range.Union(p.prevRange()))
	return Found[ast.Decl](d)
}

// abandonVarDecl marks d invalid and skips past the next ';'.
func (p *Parser) abandonVarDecl(d *ast.VarDecl, begin source.Range) Result[ast.Decl] {
	d.SetInvalid()
	ok := p.resyncToSign([]lexer.TokenKind{lexer.TokenSemi}, false, true)
	d.SetRange(begin.Union(p.prevRange()))
	if !ok {
		return Failed[ast.Decl]()
	}
	return Found[ast.Decl](d)
}

// parseFuncDecl parses
//
//	func_decl = "func" id "(" [param {"," param}] ")" [":" type] compound
//
// The function is registered in the enclosing context before its
// parameters, which are registered in the function's own context together
// with its locals.
func (p *Parser) parseFuncDecl() Result[ast.Decl] {
	kw, ok := p.consumeKeyword(lexer.TokenFunc)
	if !ok {
		return NotFound[ast.Decl]()
	}

	id, idRange, ok := p.consumeIdent()
	named := ok
	if !named {
		p.reportExpected(diag.ExpectedIden)
		idRange = p.expectedRange()
	}
	fn := p.arena.NewFuncDecl(id, idRange, kw.Range.Union(idRange), p.declCtx)
	if named {
		p.register(fn)
	} else {
		fn.SetInvalid()
	}
	defer p.pushContext(fn.Context())()

	if _, ok := p.consumeBracket(lexer.TokenLParen); !ok {
		if named {
			p.reportExpected(diag.ExpectedOpeningRoundBracket)
		}
		return Failed[ast.Decl]()
	}

	params, ok := p.parseParamList()
	if !ok {
		fn.SetInvalid()
		if !p.resyncToSign([]lexer.TokenKind{lexer.TokenRParen}, true, false) {
			return Failed[ast.Decl]()
		}
	}
	p.arena.SetFuncParams(fn, params)

	if _, ok := p.consumeBracket(lexer.TokenRParen); !ok {
		p.reportExpected(diag.ExpectedClosingRoundBracket)
		if !p.resyncToSign([]lexer.TokenKind{lexer.TokenRParen}, true, true) {
			return Failed[ast.Decl]()
		}
	}

	if _, ok := p.consumeSign(lexer.TokenColon); ok {
		ret := p.parseType()
		if ret.IsFound() {
			fn.ReturnType = ret.Value().Type
			fn.ReturnTypeRange = ret.Value().Range
		} else {
			if ret.IsNotFound() {
				p.reportExpected(diag.ExpectedType)
			}
			fn.SetInvalid()
			if !p.resyncToSign([]lexer.TokenKind{lexer.TokenLBrace}, true, false) {
				return Failed[ast.Decl]()
			}
		}
	}

	body, ok := p.parseBlock()
	if !ok {
		fn.SetInvalid()
		return Failed[ast.Decl]()
	}
	fn.Body = body
	fn.SetRange(kw.Range.Union(body.Range()))
	return Found[ast.Decl](fn)
}

// parseParamList parses the optional parameter list of a function. ok is
// false when a parameter was malformed; the parameters parsed up to that
// point are still returned.
func (p *Parser) parseParamList() (params []*ast.ParamDecl, ok bool) {
	first := p.parseParamDecl()
	if !first.IsFound() {
		return nil, !first.IsFailed()
	}
	params = append(params, first.Value())
	for {
		if _, ok := p.consumeSign(lexer.TokenComma); !ok {
			return params, true
		}
		next := p.parseParamDecl()
		if !next.IsFound() {
			if next.IsNotFound() {
				p.reportExpected(diag.ExpectedParamDecl)
			}
			return params, false
		}
		params = append(params, next.Value())
	}
}

// parseParamDecl parses
//
//	param = id ":" ["mut"] type
func (p *Parser) parseParamDecl() Result[*ast.ParamDecl] {
	id, idRange, ok := p.consumeIdent()
	if !ok {
		return NotFound[*ast.ParamDecl]()
	}
	d := p.arena.NewParamDecl(id, idRange, false)
	p.register(d)

	if _, ok := p.consumeSign(lexer.TokenColon); !ok {
		p.reportExpected(diag.ExpectedColon)
		d.SetInvalid()
		return Failed[*ast.ParamDecl]()
	}
	if _, ok := p.consumeKeyword(lexer.TokenMut); ok {
		d.Mutable = true
	}
	typ := p.parseType()
	if !typ.IsFound() {
		if typ.IsNotFound() {
			p.reportExpected(diag.ExpectedType)
		}
		d.SetInvalid()
		return Failed[*ast.ParamDecl]()
	}
	d.SetValueType(typ.Value().Type, typ.Value().Range)
	d.SetRange(idRange.Union(typ.Value().Range))
	return Found(d)
}

// typeLoc is a parsed type and where it was written.
type typeLoc struct {
	Type  ast.Type
	Range source.Range
}

// parseType parses
//
//	type    = "&" type | builtin {"[" "]"}
//	builtin = "int" | "float" | "bool" | "char" | "string"
func (p *Parser) parseType() Result[typeLoc] {
	if amp, ok := p.consumeSign(lexer.TokenAmp); ok {
		elem := p.parseType()
		if !elem.IsFound() {
			if elem.IsNotFound() {
				p.reportExpected(diag.ExpectedType)
			}
			return Failed[typeLoc]()
		}
		return Found(typeLoc{
			Type:  p.arena.ReferenceTo(elem.Value().Type),
			Range: amp.Range.Union(elem.Value().Range),
		})
	}

	if !p.state.alive || !p.cur().Kind.IsBuiltinType() {
		return NotFound[typeLoc]()
	}
	tok := p.consumeAny()
	tl := typeLoc{Type: p.arena.Builtin(builtinKinds[tok.Kind]), Range: tok.Range}

	for {
		if _, ok := p.consumeBracket(lexer.TokenLBracket); !ok {
			return Found(tl)
		}
		rb, ok := p.consumeBracket(lexer.TokenRBracket)
		if !ok {
			p.reportExpected(diag.ExpectedClosingSquareBracket)
			if !p.resyncToSign([]lexer.TokenKind{lexer.TokenRBracket}, true, true) {
				return Failed[typeLoc]()
			}
			rb.Range = p.prevRange()
		}
		tl.Type = p.arena.ArrayOf(tl.Type)
		tl.Range = tl.Range.Union(rb.Range)
	}
}

var builtinKinds = map[lexer.TokenKind]ast.BuiltinKind{
	lexer.TokenInt:    ast.BuiltinInt,
	lexer.TokenFloat:  ast.BuiltinFloat,
	lexer.TokenBool:   ast.BuiltinBool,
	lexer.TokenChar:   ast.BuiltinChar,
	lexer.TokenString: ast.BuiltinString,
}
