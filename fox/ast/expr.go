package ast

import (
	"github.com/dhamidi/fox/fox/source"
)

type ExprKind int

const (
	KindBinaryExpr ExprKind = iota
	KindUnaryExpr
	KindCastExpr
	KindArraySubscriptExpr
	KindMemberOfExpr
	KindDeclRefExpr
	KindCallExpr
	KindIntegerLiteralExpr
	KindFloatLiteralExpr
	KindBoolLiteralExpr
	KindCharLiteralExpr
	KindStringLiteralExpr
	KindArrayLiteralExpr
	KindParensExpr
	KindErrorExpr
)

var exprKindNames = map[ExprKind]string{
	KindBinaryExpr:         "BinaryExpr",
	KindUnaryExpr:          "UnaryExpr",
	KindCastExpr:           "CastExpr",
	KindArraySubscriptExpr: "ArraySubscriptExpr",
	KindMemberOfExpr:       "MemberOfExpr",
	KindDeclRefExpr:        "DeclRefExpr",
	KindCallExpr:           "CallExpr",
	KindIntegerLiteralExpr: "IntegerLiteralExpr",
	KindFloatLiteralExpr:   "FloatLiteralExpr",
	KindBoolLiteralExpr:    "BoolLiteralExpr",
	KindCharLiteralExpr:    "CharLiteralExpr",
	KindStringLiteralExpr:  "StringLiteralExpr",
	KindArrayLiteralExpr:   "ArrayLiteralExpr",
	KindParensExpr:         "ParensExpr",
	KindErrorExpr:          "ErrorExpr",
}

func (k ExprKind) String() string {
	if name, ok := exprKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type BinaryOp int

const (
	OpMul BinaryOp = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpLT
	OpLE
	OpGT
	OpGE
	OpEq
	OpNEq
	OpLAnd
	OpLOr
	OpExp
	OpAssign
)

var binaryOpInfo = map[BinaryOp]struct{ sign, name string }{
	OpMul:    {"*", "Multiplication"},
	OpDiv:    {"/", "Division"},
	OpMod:    {"%", "Modulo"},
	OpAdd:    {"+", "Addition"},
	OpSub:    {"-", "Subtraction"},
	OpLT:     {"<", "LessThan"},
	OpLE:     {"<=", "LessOrEqual"},
	OpGT:     {">", "GreaterThan"},
	OpGE:     {">=", "GreaterOrEqual"},
	OpEq:     {"==", "Equal"},
	OpNEq:    {"!=", "NotEqual"},
	OpLAnd:   {"&&", "LogicalAnd"},
	OpLOr:    {"||", "LogicalOr"},
	OpExp:    {"**", "Exponent"},
	OpAssign: {"=", "Assignment"},
}

func (op BinaryOp) Sign() string {
	return binaryOpInfo[op].sign
}

func (op BinaryOp) String() string {
	if info, ok := binaryOpInfo[op]; ok {
		return info.name
	}
	return "Unknown"
}

func (op BinaryOp) IsMultiplicative() bool { return op == OpMul || op == OpDiv || op == OpMod }
func (op BinaryOp) IsAdditive() bool       { return op == OpAdd || op == OpSub }
func (op BinaryOp) IsComparison() bool     { return op >= OpLT && op <= OpGE }
func (op BinaryOp) IsEquality() bool       { return op == OpEq || op == OpNEq }
func (op BinaryOp) IsLogical() bool        { return op == OpLAnd || op == OpLOr }
func (op BinaryOp) IsAssignment() bool     { return op == OpAssign }

type UnaryOp int

const (
	OpLNot UnaryOp = iota
	OpMinus
	OpPlus
)

var unaryOpInfo = map[UnaryOp]struct{ sign, name string }{
	OpLNot:  {"!", "LogicalNot"},
	OpMinus: {"-", "Minus"},
	OpPlus:  {"+", "Plus"},
}

func (op UnaryOp) Sign() string {
	return unaryOpInfo[op].sign
}

func (op UnaryOp) String() string {
	if info, ok := unaryOpInfo[op]; ok {
		return info.name
	}
	return "Unknown"
}

// Expr is an expression node. The type slot is filled by semantic analysis.
type Expr interface {
	Node
	Kind() ExprKind
	Type() Type
	SetType(t Type)
}

type exprBase struct {
	kind ExprKind
	rng  source.Range
	typ  Type
}

func (e *exprBase) Kind() ExprKind      { return e.kind }
func (e *exprBase) Family() Family      { return FamilyExpr }
func (e *exprBase) Range() source.Range { return e.rng }
func (e *exprBase) KindName() string    { return e.kind.String() }
func (e *exprBase) Type() Type          { return e.typ }
func (e *exprBase) SetType(t Type)      { e.typ = t }

type BinaryExpr struct {
	exprBase
	Op      BinaryOp
	OpRange source.Range
	LHS     Expr
	RHS     Expr
}

type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	OpRange source.Range
	Child   Expr
}

type CastExpr struct {
	exprBase
	Child     Expr
	CastType  Type
	TypeRange source.Range
}

type ArraySubscriptExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

type MemberOfExpr struct {
	exprBase
	Base        Expr
	Member      Identifier
	MemberRange source.Range
}

// DeclRefExpr names a declaration. Decl is set once the name is resolved.
type DeclRefExpr struct {
	exprBase
	Ident Identifier
	Decl  NamedDecl
}

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

type IntegerLiteralExpr struct {
	exprBase
	Value int64
}

type FloatLiteralExpr struct {
	exprBase
	Value float64
}

type BoolLiteralExpr struct {
	exprBase
	Value bool
}

type CharLiteralExpr struct {
	exprBase
	Value rune
}

type StringLiteralExpr struct {
	exprBase
	Value string
}

type ArrayLiteralExpr struct {
	exprBase
	Elems []Expr
}

type ParensExpr struct {
	exprBase
	Child Expr
}

// ErrorExpr marks where an expression was expected but none was parsed.
type ErrorExpr struct {
	exprBase
}

func (a *Arena) NewBinaryExpr(op BinaryOp, opRange source.Range, lhs, rhs Expr) *BinaryExpr {
	e := newNode[BinaryExpr](a)
	e.kind = KindBinaryExpr
	e.rng = lhs.Range().Union(rhs.Range())
	e.Op = op
	e.OpRange = opRange
	e.LHS = lhs
	e.RHS = rhs
	return e
}

func (a *Arena) NewUnaryExpr(op UnaryOp, opRange source.Range, child Expr) *UnaryExpr {
	e := newNode[UnaryExpr](a)
	e.kind = KindUnaryExpr
	e.rng = opRange.Union(child.Range())
	e.Op = op
	e.OpRange = opRange
	e.Child = child
	return e
}

func (a *Arena) NewCastExpr(child Expr, castType Type, typeRange source.Range) *CastExpr {
	e := newNode[CastExpr](a)
	e.kind = KindCastExpr
	e.rng = child.Range().Union(typeRange)
	e.Child = child
	e.CastType = castType
	e.TypeRange = typeRange
	e.typ = castType
	return e
}

func (a *Arena) NewArraySubscriptExpr(base, index Expr, rng source.Range) *ArraySubscriptExpr {
	e := newNode[ArraySubscriptExpr](a)
	e.kind = KindArraySubscriptExpr
	e.rng = rng
	e.Base = base
	e.Index = index
	return e
}

func (a *Arena) NewMemberOfExpr(base Expr, member Identifier, memberRange source.Range) *MemberOfExpr {
	e := newNode[MemberOfExpr](a)
	e.kind = KindMemberOfExpr
	e.rng = base.Range().Union(memberRange)
	e.Base = base
	e.Member = member
	e.MemberRange = memberRange
	return e
}

func (a *Arena) NewDeclRefExpr(ident Identifier, rng source.Range) *DeclRefExpr {
	e := newNode[DeclRefExpr](a)
	e.kind = KindDeclRefExpr
	e.rng = rng
	e.Ident = ident
	return e
}

func (a *Arena) NewCallExpr(callee Expr, args []Expr, rng source.Range) *CallExpr {
	e := newNode[CallExpr](a)
	e.kind = KindCallExpr
	e.rng = rng
	e.Callee = callee
	e.Args = newSlice(a, args)
	return e
}

func (a *Arena) NewIntegerLiteralExpr(value int64, rng source.Range) *IntegerLiteralExpr {
	e := newNode[IntegerLiteralExpr](a)
	e.kind = KindIntegerLiteralExpr
	e.rng = rng
	e.Value = value
	e.typ = a.IntType()
	return e
}

func (a *Arena) NewFloatLiteralExpr(value float64, rng source.Range) *FloatLiteralExpr {
	e := newNode[FloatLiteralExpr](a)
	e.kind = KindFloatLiteralExpr
	e.rng = rng
	e.Value = value
	e.typ = a.FloatType()
	return e
}

func (a *Arena) NewBoolLiteralExpr(value bool, rng source.Range) *BoolLiteralExpr {
	e := newNode[BoolLiteralExpr](a)
	e.kind = KindBoolLiteralExpr
	e.rng = rng
	e.Value = value
	e.typ = a.BoolType()
	return e
}

func (a *Arena) NewCharLiteralExpr(value rune, rng source.Range) *CharLiteralExpr {
	e := newNode[CharLiteralExpr](a)
	e.kind = KindCharLiteralExpr
	e.rng = rng
	e.Value = value
	e.typ = a.CharType()
	return e
}

func (a *Arena) NewStringLiteralExpr(value string, rng source.Range) *StringLiteralExpr {
	e := newNode[StringLiteralExpr](a)
	e.kind = KindStringLiteralExpr
	e.rng = rng
	e.Value = value
	e.typ = a.StringType()
	return e
}

func (a *Arena) NewArrayLiteralExpr(elems []Expr, rng source.Range) *ArrayLiteralExpr {
	e := newNode[ArrayLiteralExpr](a)
	e.kind = KindArrayLiteralExpr
	e.rng = rng
	e.Elems = newSlice(a, elems)
	return e
}

func (a *Arena) NewParensExpr(child Expr, rng source.Range) *ParensExpr {
	e := newNode[ParensExpr](a)
	e.kind = KindParensExpr
	e.rng = rng
	e.Child = child
	return e
}

func (a *Arena) NewErrorExpr(rng source.Range) *ErrorExpr {
	e := newNode[ErrorExpr](a)
	e.kind = KindErrorExpr
	e.rng = rng
	e.typ = a.ErrorType()
	return e
}

func AsBinaryExpr(e Expr) *BinaryExpr {
	if e == nil || e.Kind() != KindBinaryExpr {
		return nil
	}
	return e.(*BinaryExpr)
}

func AsUnaryExpr(e Expr) *UnaryExpr {
	if e == nil || e.Kind() != KindUnaryExpr {
		return nil
	}
	return e.(*UnaryExpr)
}

func AsCastExpr(e Expr) *CastExpr {
	if e == nil || e.Kind() != KindCastExpr {
		return nil
	}
	return e.(*CastExpr)
}

func AsArraySubscriptExpr(e Expr) *ArraySubscriptExpr {
	if e == nil || e.Kind() != KindArraySubscriptExpr {
		return nil
	}
	return e.(*ArraySubscriptExpr)
}

func AsMemberOfExpr(e Expr) *MemberOfExpr {
	if e == nil || e.Kind() != KindMemberOfExpr {
		return nil
	}
	return e.(*MemberOfExpr)
}

func AsDeclRefExpr(e Expr) *DeclRefExpr {
	if e == nil || e.Kind() != KindDeclRefExpr {
		return nil
	}
	return e.(*DeclRefExpr)
}

func AsCallExpr(e Expr) *CallExpr {
	if e == nil || e.Kind() != KindCallExpr {
		return nil
	}
	return e.(*CallExpr)
}

func AsIntegerLiteralExpr(e Expr) *IntegerLiteralExpr {
	if e == nil || e.Kind() != KindIntegerLiteralExpr {
		return nil
	}
	return e.(*IntegerLiteralExpr)
}

func AsFloatLiteralExpr(e Expr) *FloatLiteralExpr {
	if e == nil || e.Kind() != KindFloatLiteralExpr {
		return nil
	}
	return e.(*FloatLiteralExpr)
}

func AsBoolLiteralExpr(e Expr) *BoolLiteralExpr {
	if e == nil || e.Kind() != KindBoolLiteralExpr {
		return nil
	}
	return e.(*BoolLiteralExpr)
}

func AsCharLiteralExpr(e Expr) *CharLiteralExpr {
	if e == nil || e.Kind() != KindCharLiteralExpr {
		return nil
	}
	return e.(*CharLiteralExpr)
}

func AsStringLiteralExpr(e Expr) *StringLiteralExpr {
	if e == nil || e.Kind() != KindStringLiteralExpr {
		return nil
	}
	return e.(*StringLiteralExpr)
}

func AsArrayLiteralExpr(e Expr) *ArrayLiteralExpr {
	if e == nil || e.Kind() != KindArrayLiteralExpr {
		return nil
	}
	return e.(*ArrayLiteralExpr)
}

func AsParensExpr(e Expr) *ParensExpr {
	if e == nil || e.Kind() != KindParensExpr {
		return nil
	}
	return e.(*ParensExpr)
}

func AsErrorExpr(e Expr) *ErrorExpr {
	if e == nil || e.Kind() != KindErrorExpr {
		return nil
	}
	return e.(*ErrorExpr)
}
