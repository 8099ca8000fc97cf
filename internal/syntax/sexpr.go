package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexpr renders a node as a compact s-expression, for example
// `(+ 1 (* 2 3))` for `1 + 2 * 3`. Groupings render as their contents.
func Sexpr(n Node) string {
	var b strings.Builder
	writeSexpr(&b, n)
	return b.String()
}

func writeSexpr(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *IntegerLiteral:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *StringLiteral:
		b.WriteString(n.Raw)
	case *Ident:
		b.WriteString(n.Name)
	case *BinOp:
		list(b, n.Op.Kind.String(), n.LHS, n.RHS)
	case *Unary:
		list(b, n.Op.Kind.String(), n.Operand)
	case *Tuple:
		if n.IsGrouping() {
			writeSexpr(b, n.Items.Items()[0])
			return
		}
		list(b, "tuple", exprNodes(n.Items.Items())...)
	case *App:
		list(b, "app", n.Receiver, n.Arg)
	case *Block:
		stmtList(b, "block", n.Stmts)
	case *Stmts:
		stmtList(b, "stmts", n)
	case *LetStmt:
		list(b, "let", n.Name, n.Value)
	case *ExprStmt:
		writeSexpr(b, n.Expr)
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}

func list(b *strings.Builder, head string, items ...Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, item := range items {
		b.WriteByte(' ')
		writeSexpr(b, item)
	}
	b.WriteByte(')')
}

// stmtList marks a trailing separator with a final `;` atom.
func stmtList(b *strings.Builder, head string, s *Stmts) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, stmt := range s.List.Items() {
		b.WriteByte(' ')
		writeSexpr(b, stmt)
	}
	if s.TrailingSemi.IsPresent() {
		b.WriteString(" ;")
	}
	b.WriteByte(')')
}

func exprNodes(exprs []Expr) []Node {
	nodes := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		nodes = append(nodes, e)
	}
	return nodes
}
