package ast

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/fox/fox/source"
)

// Dump writes an indented tree of n to w. When sm is non-nil every line
// carries the node's line:column range.
func Dump(w io.Writer, n Node, sm *source.Manager) error {
	bw := bufio.NewWriter(w)
	dumpIndent(bw, n, sm, 0)
	return bw.Flush()
}

// DumpString returns the tree of n without positions.
func DumpString(n Node) string {
	var sb strings.Builder
	Dump(&sb, n, nil)
	return sb.String()
}

func dumpIndent(w *bufio.Writer, n Node, sm *source.Manager, indent int) {
	w.WriteString(strings.Repeat("  ", indent))
	w.WriteString(n.KindName())
	if sm != nil {
		r := n.Range()
		fmt.Fprintf(w, " [%s-%s]", shortPos(sm, r.BeginLoc()), shortPos(sm, r.EndLoc()))
	}
	if detail := Detail(n); detail != "" {
		w.WriteString(" ")
		w.WriteString(detail)
	}
	if d := AsDecl(n); d != nil && d.IsInvalid() {
		w.WriteString(" invalid")
	}
	w.WriteString("\n")

	for _, c := range Children(n) {
		dumpIndent(w, c, sm, indent+1)
	}
}

func shortPos(sm *source.Manager, loc source.Loc) string {
	p := sm.Position(loc)
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Detail is the one-line payload summary of n used by dumps, e.g. the
// operator of a BinaryExpr or the name and type of a VarDecl.
func Detail(n Node) string {
	switch n.Family() {
	case FamilyExpr:
		return exprDetail(n.(Expr))
	case FamilyDecl:
		return declDetail(n.(Decl))
	}
	return ""
}

func exprDetail(e Expr) string {
	switch e.Kind() {
	case KindBinaryExpr:
		return AsBinaryExpr(e).Op.String()
	case KindUnaryExpr:
		return AsUnaryExpr(e).Op.String()
	case KindCastExpr:
		return "as " + typeString(AsCastExpr(e).CastType)
	case KindMemberOfExpr:
		return "." + AsMemberOfExpr(e).Member.String()
	case KindDeclRefExpr:
		return AsDeclRefExpr(e).Ident.String()
	case KindCallExpr:
		return fmt.Sprintf("args=%d", len(AsCallExpr(e).Args))
	case KindIntegerLiteralExpr:
		return strconv.FormatInt(AsIntegerLiteralExpr(e).Value, 10)
	case KindFloatLiteralExpr:
		return strconv.FormatFloat(AsFloatLiteralExpr(e).Value, 'g', -1, 64)
	case KindBoolLiteralExpr:
		return strconv.FormatBool(AsBoolLiteralExpr(e).Value)
	case KindCharLiteralExpr:
		return strconv.QuoteRune(AsCharLiteralExpr(e).Value)
	case KindStringLiteralExpr:
		return strconv.Quote(AsStringLiteralExpr(e).Value)
	case KindArrayLiteralExpr:
		return fmt.Sprintf("elems=%d", len(AsArrayLiteralExpr(e).Elems))
	}
	return ""
}

func declDetail(d Decl) string {
	switch d.Kind() {
	case KindUnitDecl:
		return strconv.Quote(AsUnitDecl(d).Name.String())
	case KindFuncDecl:
		f := AsFuncDecl(d)
		return fmt.Sprintf("%s: %s", f.Ident(), typeString(f.ReturnType))
	case KindParamDecl:
		p := AsParamDecl(d)
		if p.Mutable {
			return fmt.Sprintf("%s: mut %s", p.Ident(), typeString(p.ValueType()))
		}
		return fmt.Sprintf("%s: %s", p.Ident(), typeString(p.ValueType()))
	case KindVarDecl:
		v := AsVarDecl(d)
		keyword := "var"
		if v.Const {
			keyword = "let"
		}
		return fmt.Sprintf("%s %s: %s", keyword, v.Ident(), typeString(v.ValueType()))
	}
	return ""
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
