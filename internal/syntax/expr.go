package syntax

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

// Expr is a Term or a BinOp.
type Expr interface {
	Node
	isExpr()
}

type BinOp struct {
	LHS Expr
	Op  Op
	RHS Expr
}

func (b *BinOp) Span() Span {
	return Cover(b.LHS.Span(), b.RHS.Span())
}

func (*BinOp) isExpr() {}

// ParseExpr parses terms joined by binary operators. `+` and `-` bind less
// tightly than `*` and `/` and all four associate to the left. Input after
// the last term that does not start an operator is left unconsumed.
//
// Nested terms are parsed by recursion, so nesting depth is bounded by the
// goroutine stack.
func ParseExpr(ctx context.Context, in stream.Stream) parse.Result[Expr, *ExprError, *ExprError] {
	return parse.BinaryExpr(ctx, in, exprTerm, ParseOp, foldBinOp)
}

func exprTerm(ctx context.Context, in stream.Stream) parse.Result[Expr, *ExprError, *ExprError] {
	term := ParseTerm(ctx, in)
	switch term.Kind() {
	case parse.KindFail:
		return parse.Fail[Expr, *ExprError, *ExprError](&ExprError{Term: term.Err()}, term.Rest())
	case parse.KindFatal:
		return parse.Fatal[Expr, *ExprError](&ExprError{Term: term.FatalErr()}, term.Rest())
	}
	return parse.Done[Expr, *ExprError, *ExprError](term.Value(), term.Rest())
}

func foldBinOp(lhs Expr, op Op, rhs Expr) Expr {
	return &BinOp{LHS: lhs, Op: op, RHS: rhs}
}
