// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package syntax implements the minilet grammar.
//
// Every production is a function from a stream.Stream to a parse.Result. A
// production returns Fail when its input does not start the way it requires
// and Fatal once it has seen enough input to rule out every other reading
// and then finds a defect. The commit points are the `let` keyword, an
// opening brace or parenthesis, the opening quote of a string, and a unary
// operator.
//
// Parse and ParseExpression are the entry points for complete sources.
package syntax

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

// Parse parses a complete source as a list of statements. Whitespace around
// the statements is allowed. Any other input left over is an error. The
// returned error is always a *ParseError.
func Parse(ctx context.Context, in stream.Stream) (*Stmts, error) {
	_, rest := parse.Must(ParseTrivia(ctx, in))
	res := ParseStmts(ctx, rest)
	if res.Kind() == parse.KindFatal {
		return nil, &ParseError{Kind: parse.KindFatal, Cause: res.FatalErr()}
	}
	if err := expectEnd(ctx, res.Rest()); err != nil {
		return nil, err
	}
	return res.Value(), nil
}

// ParseExpression parses a complete source as a single expression.
func ParseExpression(ctx context.Context, in stream.Stream) (Expr, error) {
	_, rest := parse.Must(ParseTrivia(ctx, in))
	res := ParseExpr(ctx, rest)
	switch res.Kind() {
	case parse.KindFail:
		return nil, &ParseError{Kind: parse.KindFail, Cause: res.Err()}
	case parse.KindFatal:
		return nil, &ParseError{Kind: parse.KindFatal, Cause: res.FatalErr()}
	}
	if err := expectEnd(ctx, res.Rest()); err != nil {
		return nil, err
	}
	return res.Value(), nil
}

func expectEnd(ctx context.Context, in stream.Stream) error {
	_, rest := parse.Must(ParseTrivia(ctx, in))
	r, next, ok := rest.Next(ctx)
	if !ok {
		return nil
	}
	if terr := malformedTerm(ctx, rest); terr != nil {
		return &ParseError{Kind: parse.KindFail, Cause: terr}
	}
	return &ParseError{
		Kind:  parse.KindFail,
		Cause: &UnexpectedInputError{Found: r, span: NewSpan(rest.Location(), next.Location())},
	}
}
