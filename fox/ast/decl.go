package ast

import (
	"fmt"

	"github.com/dhamidi/fox/fox/source"
)

type DeclKind int

const (
	KindUnitDecl DeclKind = iota
	KindFuncDecl
	KindParamDecl
	KindVarDecl
)

var declKindNames = map[DeclKind]string{
	KindUnitDecl:  "UnitDecl",
	KindFuncDecl:  "FuncDecl",
	KindParamDecl: "ParamDecl",
	KindVarDecl:   "VarDecl",
}

func (k DeclKind) String() string {
	if name, ok := declKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Decl interface {
	Node
	Kind() DeclKind
	// Parent is the context the declaration is registered in, or nil.
	Parent() *DeclContext
	IsInvalid() bool
	SetInvalid()
	SetRange(r source.Range)
	setParent(c *DeclContext)
}

// NamedDecl is a declaration that introduces a name.
type NamedDecl interface {
	Decl
	Ident() Identifier
	IdentRange() source.Range
}

// ValueDecl is a named declaration with a declared type.
type ValueDecl interface {
	NamedDecl
	ValueType() Type
	TypeRange() source.Range
}

type declBase struct {
	kind     DeclKind
	rng      source.Range
	rangeSet bool
	parent   *DeclContext
	invalid  bool
}

func (d *declBase) Kind() DeclKind           { return d.kind }
func (d *declBase) Family() Family           { return FamilyDecl }
func (d *declBase) KindName() string         { return d.kind.String() }
func (d *declBase) Parent() *DeclContext     { return d.parent }
func (d *declBase) setParent(c *DeclContext) { d.parent = c }
func (d *declBase) IsInvalid() bool          { return d.invalid }
func (d *declBase) SetInvalid()              { d.invalid = true }

func (d *declBase) Range() source.Range {
	if !d.rangeSet {
		panic(fmt.Sprintf("ast: range of %s requested before it was set", d.kind))
	}
	return d.rng
}

func (d *declBase) SetRange(r source.Range) {
	d.rng = r
	d.rangeSet = true
}

type namedBase struct {
	declBase
	ident      Identifier
	identRange source.Range
}

func (d *namedBase) Ident() Identifier        { return d.ident }
func (d *namedBase) IdentRange() source.Range { return d.identRange }

type valueBase struct {
	namedBase
	typ       Type
	typeRange source.Range
}

func (d *valueBase) ValueType() Type         { return d.typ }
func (d *valueBase) TypeRange() source.Range { return d.typeRange }

// SetValueType records the declared type once it has been parsed.
func (d *valueBase) SetValueType(t Type, r source.Range) {
	d.typ = t
	d.typeRange = r
}

// UnitDecl is the root of a file. It owns the file-level DeclContext.
type UnitDecl struct {
	declBase
	Name  Identifier
	File  source.FileID
	Decls []Decl
	ctx   *DeclContext
}

func (d *UnitDecl) Context() *DeclContext { return d.ctx }

type FuncDecl struct {
	namedBase
	Params          []*ParamDecl
	ReturnType      Type
	ReturnTypeRange source.Range
	Body            *CompoundStmt
	ctx             *DeclContext
}

// Context holds the parameters and locals of the function.
func (d *FuncDecl) Context() *DeclContext { return d.ctx }

type ParamDecl struct {
	valueBase
	Mutable bool
}

// VarDecl is a let (Const) or var declaration.
type VarDecl struct {
	valueBase
	Const bool
	Init  Expr
}

func (a *Arena) NewUnitDecl(name Identifier, file source.FileID, parent *DeclContext) *UnitDecl {
	d := newNode[UnitDecl](a)
	d.kind = KindUnitDecl
	d.Name = name
	d.File = file
	d.SetRange(source.At(file, 0))
	d.ctx = newDeclContext(d, parent)
	return d
}

// FinishUnitDecl stores the parsed top-level declarations, including
// ones marked invalid.
func (a *Arena) FinishUnitDecl(d *UnitDecl, decls []Decl, rng source.Range) {
	d.Decls = newSlice(a, decls)
	d.SetRange(rng)
}

func (a *Arena) NewFuncDecl(ident Identifier, identRange source.Range, rng source.Range, parent *DeclContext) *FuncDecl {
	d := newNode[FuncDecl](a)
	d.kind = KindFuncDecl
	d.ident = ident
	d.identRange = identRange
	d.SetRange(rng)
	d.ReturnType = a.VoidType()
	d.ctx = newDeclContext(d, parent)
	return d
}

func (a *Arena) SetFuncParams(d *FuncDecl, params []*ParamDecl) {
	d.Params = newSlice(a, params)
}

// SignatureOf returns the function type of d.
func (a *Arena) SignatureOf(d *FuncDecl) *FunctionType {
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.ValueType()
	}
	return a.FunctionOf(params, d.ReturnType)
}

func (a *Arena) NewParamDecl(ident Identifier, identRange source.Range, mutable bool) *ParamDecl {
	d := newNode[ParamDecl](a)
	d.kind = KindParamDecl
	d.ident = ident
	d.identRange = identRange
	d.Mutable = mutable
	d.typ = a.ErrorType()
	d.SetRange(identRange)
	return d
}

func (a *Arena) NewVarDecl(isConst bool, ident Identifier, identRange source.Range, rng source.Range) *VarDecl {
	d := newNode[VarDecl](a)
	d.kind = KindVarDecl
	d.Const = isConst
	d.ident = ident
	d.identRange = identRange
	d.typ = a.ErrorType()
	d.SetRange(rng)
	return d
}

func AsUnitDecl(d Decl) *UnitDecl {
	if d == nil || d.Kind() != KindUnitDecl {
		return nil
	}
	return d.(*UnitDecl)
}

func AsFuncDecl(d Decl) *FuncDecl {
	if d == nil || d.Kind() != KindFuncDecl {
		return nil
	}
	return d.(*FuncDecl)
}

func AsParamDecl(d Decl) *ParamDecl {
	if d == nil || d.Kind() != KindParamDecl {
		return nil
	}
	return d.(*ParamDecl)
}

func AsVarDecl(d Decl) *VarDecl {
	if d == nil || d.Kind() != KindVarDecl {
		return nil
	}
	return d.(*VarDecl)
}

// AsNamedDecl returns d as a NamedDecl, or nil for a UnitDecl.
func AsNamedDecl(d Decl) NamedDecl {
	if d == nil || d.Kind() == KindUnitDecl {
		return nil
	}
	return d.(NamedDecl)
}
