package parse

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/stream"
)

type Associativity uint8

const (
	AssocLeft Associativity = iota
	AssocRight
)

// Operator is a binary operator that knows how tightly it binds. Higher
// precedence binds tighter.
type Operator interface {
	Precedence() int
	Associativity() Associativity
}

// BinaryExpr parses `term (op term)*` and folds the operands by precedence
// climbing.
//
// A Fail of the first term is a Fail of the whole expression. Once an
// operator has matched the expression is committed to a right operand, so a
// Fail of that operand is returned as Fatal. The loop ends successfully at the
// first position where no operator matches, with the operator attempt
// rewound. Trailing input is left for the caller.
func BinaryExpr[X any, O Operator, E, OE error](
	ctx context.Context,
	in stream.Stream,
	term func(context.Context, stream.Stream) Result[X, E, E],
	op func(context.Context, stream.Stream) Result[O, OE, Never],
	fold func(lhs X, op O, rhs X) X,
) Result[X, E, E] {
	return climb(ctx, in, 0, term, op, fold)
}

func climb[X any, O Operator, E, OE error](
	ctx context.Context,
	in stream.Stream,
	minPrecedence int,
	term func(context.Context, stream.Stream) Result[X, E, E],
	op func(context.Context, stream.Stream) Result[O, OE, Never],
	fold func(lhs X, op O, rhs X) X,
) Result[X, E, E] {
	lhs := term(ctx, in)
	if lhs.Kind() != KindDone {
		return lhs
	}
	acc := lhs.Value()
	rest := lhs.Rest()
	for {
		anchor := rest.Anchor()
		o := op(ctx, rest)
		switch o.Kind() {
		case KindFail:
			return Done[X, E, E](acc, o.Rest().Rewind(anchor))
		case KindFatal:
			o.FatalErr().Unreachable()
		}
		operator := o.Value()
		precedence := operator.Precedence()
		if precedence < minPrecedence {
			// Belongs to an enclosing frame.
			return Done[X, E, E](acc, o.Rest().Rewind(anchor))
		}
		next := precedence + 1
		if operator.Associativity() == AssocRight {
			next = precedence
		}
		rhs := climb(ctx, o.Rest(), next, term, op, fold)
		switch rhs.Kind() {
		case KindFail:
			return Fatal[X, E, E](rhs.Err(), rhs.Rest())
		case KindFatal:
			return rhs
		}
		acc = fold(acc, operator, rhs.Value())
		rest = rhs.Rest()
	}
}
