// Package ast holds the arena-owned syntax tree of a Fox compilation unit.
//
// Nodes come in three families (expressions, statements, declarations).
// Each family has a closed kind enumeration and checked downcasts such as
// AsBinaryExpr that switch on the kind, never on the dynamic Go type.
package ast

import "github.com/dhamidi/fox/fox/source"

type Family int

const (
	FamilyExpr Family = iota
	FamilyStmt
	FamilyDecl
)

var familyNames = map[Family]string{
	FamilyExpr: "Expr",
	FamilyStmt: "Stmt",
	FamilyDecl: "Decl",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Node is any tree node. All nodes are owned by the Arena that created them.
type Node interface {
	Range() source.Range
	Family() Family
	// KindName is the name of the node's kind, e.g. "BinaryExpr".
	KindName() string
}

// AsExpr returns n as an Expr if it belongs to the expression family.
func AsExpr(n Node) Expr {
	if n == nil || n.Family() != FamilyExpr {
		return nil
	}
	return n.(Expr)
}

func AsStmt(n Node) Stmt {
	if n == nil || n.Family() != FamilyStmt {
		return nil
	}
	return n.(Stmt)
}

func AsDecl(n Node) Decl {
	if n == nil || n.Family() != FamilyDecl {
		return nil
	}
	return n.(Decl)
}
