package ast

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch n.Family() {
	case FamilyExpr:
		e := n.(Expr)
		switch e.Kind() {
		case KindBinaryExpr:
			b := AsBinaryExpr(e)
			add(b.LHS)
			add(b.RHS)
		case KindUnaryExpr:
			add(AsUnaryExpr(e).Child)
		case KindCastExpr:
			add(AsCastExpr(e).Child)
		case KindArraySubscriptExpr:
			s := AsArraySubscriptExpr(e)
			add(s.Base)
			add(s.Index)
		case KindMemberOfExpr:
			add(AsMemberOfExpr(e).Base)
		case KindCallExpr:
			c := AsCallExpr(e)
			add(c.Callee)
			for _, arg := range c.Args {
				add(arg)
			}
		case KindArrayLiteralExpr:
			for _, elem := range AsArrayLiteralExpr(e).Elems {
				add(elem)
			}
		case KindParensExpr:
			add(AsParensExpr(e).Child)
		}

	case FamilyStmt:
		s := n.(Stmt)
		switch s.Kind() {
		case KindCompoundStmt:
			for _, c := range AsCompoundStmt(s).Nodes {
				add(c)
			}
		case KindConditionStmt:
			c := AsConditionStmt(s)
			add(c.Cond)
			if c.Then != nil {
				add(c.Then)
			}
			if c.Else != nil {
				add(c.Else)
			}
		case KindWhileStmt:
			w := AsWhileStmt(s)
			add(w.Cond)
			if w.Body != nil {
				add(w.Body)
			}
		case KindReturnStmt:
			add(AsReturnStmt(s).Expr)
		}

	case FamilyDecl:
		d := n.(Decl)
		switch d.Kind() {
		case KindUnitDecl:
			for _, c := range AsUnitDecl(d).Decls {
				add(c)
			}
		case KindFuncDecl:
			f := AsFuncDecl(d)
			for _, p := range f.Params {
				add(p)
			}
			if f.Body != nil {
				add(f.Body)
			}
		case KindVarDecl:
			add(AsVarDecl(d).Init)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first in pre-order. When fn
// returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
