package ast

import (
	"fmt"
	"strings"

	"github.com/roach88/assertrun/internal/value"
)

// Dump renders prog as S-expressions, one top-level statement per line,
// each prefixed with its line number. Used by tests and --verbose output.
func Dump(prog *Program) string {
	if prog == nil {
		return ""
	}
	var b strings.Builder
	for _, s := range prog.Body {
		fmt.Fprintf(&b, "%d: %s\n", s.Position().Line, DumpStmt(s))
	}
	return b.String()
}

// DumpStmt renders a single statement.
func DumpStmt(s Stmt) string {
	var b strings.Builder
	writeStmt(&b, s)
	return b.String()
}

// DumpExpr renders a single expression.
func DumpExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeBlock(b *strings.Builder, block []Stmt) {
	b.WriteString("(block")
	for _, s := range block {
		b.WriteByte(' ')
		writeStmt(b, s)
	}
	b.WriteByte(')')
}

func writeStmt(b *strings.Builder, s Stmt) {
	switch n := s.(type) {
	case *Assert:
		b.WriteString("(assert ")
		writeExpr(b, n.Test)
		if n.Msg != nil {
			b.WriteByte(' ')
			writeExpr(b, n.Msg)
		}
		b.WriteByte(')')
	case *Assign:
		b.WriteString("(assign ")
		writeExpr(b, n.Target)
		b.WriteByte(' ')
		writeExpr(b, n.Value)
		b.WriteByte(')')
	case *AugAssign:
		fmt.Fprintf(b, "(augassign %q ", string(n.Op)+"=")
		writeExpr(b, n.Target)
		b.WriteByte(' ')
		writeExpr(b, n.Value)
		b.WriteByte(')')
	case *ExprStmt:
		b.WriteString("(expr ")
		writeExpr(b, n.X)
		b.WriteByte(')')
	case *Import:
		b.WriteString("(import")
		for _, name := range n.Names {
			b.WriteByte(' ')
			b.WriteString(name)
		}
		b.WriteByte(')')
	case *If:
		b.WriteString("(if ")
		writeExpr(b, n.Test)
		b.WriteByte(' ')
		writeBlock(b, n.Body)
		if len(n.Else) > 0 {
			b.WriteByte(' ')
			writeBlock(b, n.Else)
		}
		b.WriteByte(')')
	case *For:
		b.WriteString("(for ")
		writeExpr(b, n.Target)
		b.WriteByte(' ')
		writeExpr(b, n.Iter)
		b.WriteByte(' ')
		writeBlock(b, n.Body)
		b.WriteByte(')')
	case *Pass:
		b.WriteString("(pass)")
	case *Break:
		b.WriteString("(break)")
	case *Continue:
		b.WriteString("(continue)")
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<unknown stmt %T>", s)
	}
}

func writeExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Name:
		fmt.Fprintf(b, "(name %s)", n.ID)
	case *Constant:
		fmt.Fprintf(b, "(const %s)", value.Repr(n.Value))
	case *List:
		b.WriteString("(list")
		for _, elt := range n.Elts {
			b.WriteByte(' ')
			writeExpr(b, elt)
		}
		b.WriteByte(')')
	case *Dict:
		b.WriteString("(dict")
		for i := range n.Keys {
			b.WriteString(" (")
			writeExpr(b, n.Keys[i])
			b.WriteByte(' ')
			writeExpr(b, n.Values[i])
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case *Attribute:
		b.WriteString("(attr ")
		writeExpr(b, n.X)
		fmt.Fprintf(b, " %s)", n.Attr)
	case *Subscript:
		b.WriteString("(idx ")
		writeExpr(b, n.X)
		b.WriteByte(' ')
		writeExpr(b, n.Index)
		b.WriteByte(')')
	case *Call:
		b.WriteString("(call ")
		writeExpr(b, n.Func)
		for _, arg := range n.Args {
			b.WriteByte(' ')
			writeExpr(b, arg)
		}
		b.WriteByte(')')
	case *UnaryOp:
		fmt.Fprintf(b, "(unary %q ", string(n.Op))
		writeExpr(b, n.X)
		b.WriteByte(')')
	case *BinOp:
		fmt.Fprintf(b, "(binary %q ", string(n.Op))
		writeExpr(b, n.Left)
		b.WriteByte(' ')
		writeExpr(b, n.Right)
		b.WriteByte(')')
	case *BoolOp:
		fmt.Fprintf(b, "(%s", string(n.Op))
		for _, v := range n.Values {
			b.WriteByte(' ')
			writeExpr(b, v)
		}
		b.WriteByte(')')
	case *Compare:
		b.WriteString("(compare ")
		writeExpr(b, n.Left)
		for i, op := range n.Ops {
			fmt.Fprintf(b, " %q ", string(op))
			writeExpr(b, n.Comparators[i])
		}
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<unknown expr %T>", e)
	}
}
