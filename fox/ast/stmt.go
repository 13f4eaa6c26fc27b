package ast

import "github.com/dhamidi/fox/fox/source"

type StmtKind int

const (
	KindCompoundStmt StmtKind = iota
	KindConditionStmt
	KindWhileStmt
	KindReturnStmt
)

var stmtKindNames = map[StmtKind]string{
	KindCompoundStmt:  "CompoundStmt",
	KindConditionStmt: "ConditionStmt",
	KindWhileStmt:     "WhileStmt",
	KindReturnStmt:    "ReturnStmt",
}

func (k StmtKind) String() string {
	if name, ok := stmtKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Stmt interface {
	Node
	Kind() StmtKind
}

type stmtBase struct {
	kind StmtKind
	rng  source.Range
}

func (s *stmtBase) Kind() StmtKind      { return s.kind }
func (s *stmtBase) Family() Family      { return FamilyStmt }
func (s *stmtBase) Range() source.Range { return s.rng }
func (s *stmtBase) KindName() string    { return s.kind.String() }

// CompoundStmt is a braced block. Its nodes are expressions, statements
// or local declarations, in source order.
type CompoundStmt struct {
	stmtBase
	Nodes []Node
}

// ConditionStmt is an if statement. Else is nil, a *ConditionStmt or a
// *CompoundStmt.
type ConditionStmt struct {
	stmtBase
	Cond Expr
	Then *CompoundStmt
	Else Stmt
}

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *CompoundStmt
}

// ReturnStmt returns Expr, which is nil for a bare return.
type ReturnStmt struct {
	stmtBase
	Expr Expr
}

func (a *Arena) NewCompoundStmt(nodes []Node, rng source.Range) *CompoundStmt {
	s := newNode[CompoundStmt](a)
	s.kind = KindCompoundStmt
	s.rng = rng
	s.Nodes = newSlice(a, nodes)
	return s
}

func (a *Arena) NewConditionStmt(cond Expr, then *CompoundStmt, els Stmt, rng source.Range) *ConditionStmt {
	s := newNode[ConditionStmt](a)
	s.kind = KindConditionStmt
	s.rng = rng
	s.Cond = cond
	s.Then = then
	s.Else = els
	return s
}

func (a *Arena) NewWhileStmt(cond Expr, body *CompoundStmt, rng source.Range) *WhileStmt {
	s := newNode[WhileStmt](a)
	s.kind = KindWhileStmt
	s.rng = rng
	s.Cond = cond
	s.Body = body
	return s
}

func (a *Arena) NewReturnStmt(expr Expr, rng source.Range) *ReturnStmt {
	s := newNode[ReturnStmt](a)
	s.kind = KindReturnStmt
	s.rng = rng
	s.Expr = expr
	return s
}

func AsCompoundStmt(s Stmt) *CompoundStmt {
	if s == nil || s.Kind() != KindCompoundStmt {
		return nil
	}
	return s.(*CompoundStmt)
}

func AsConditionStmt(s Stmt) *ConditionStmt {
	if s == nil || s.Kind() != KindConditionStmt {
		return nil
	}
	return s.(*ConditionStmt)
}

func AsWhileStmt(s Stmt) *WhileStmt {
	if s == nil || s.Kind() != KindWhileStmt {
		return nil
	}
	return s.(*WhileStmt)
}

func AsReturnStmt(s Stmt) *ReturnStmt {
	if s == nil || s.Kind() != KindReturnStmt {
		return nil
	}
	return s.(*ReturnStmt)
}
