package syntax

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/optional"
	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

// Stmt is a LetStmt or an ExprStmt.
type Stmt interface {
	Node
	isStmt()
}

// LetStmt binds Name to Value. Every token and the whitespace between them
// is kept.
type LetStmt struct {
	Let        Token
	Spacing    Spacing
	Name       *Ident
	NameTrivia Trivia
	Eq         Token
	EqTrivia   Trivia
	Value      Expr
}

func (l *LetStmt) Span() Span {
	return Cover(l.Let.Span(), l.Value.Span())
}

type ExprStmt struct {
	Expr Expr
}

func (e *ExprStmt) Span() Span {
	return e.Expr.Span()
}

func (*LetStmt) isStmt()  {}
func (*ExprStmt) isStmt() {}

// ParseLet parses `let name = expr`. Once the keyword matched every missing
// piece is fatal.
func ParseLet(ctx context.Context, in stream.Stream) parse.Result[*LetStmt, *LetError, *LetError] {
	keyword := letKeyword(ctx, in)
	if keyword.Kind() != parse.KindDone {
		return parse.Fail[*LetStmt, *LetError, *LetError](&LetError{Kind: LetKeyword, Cause: keyword.Err()}, in)
	}

	spacing := ParseSpacing(ctx, keyword.Rest())
	if spacing.Kind() != parse.KindDone {
		return parse.Fatal[*LetStmt, *LetError](&LetError{Kind: LetSpacing, Cause: spacing.Err()}, spacing.Rest())
	}

	name := ParseIdent(ctx, spacing.Rest())
	if name.Kind() != parse.KindDone {
		return parse.Fatal[*LetStmt, *LetError](&LetError{Kind: LetName, Cause: name.Err()}, name.Rest())
	}
	nameTrivia, rest := parse.Must(ParseTrivia(ctx, name.Rest()))

	eq := equals(ctx, rest)
	if eq.Kind() != parse.KindDone {
		return parse.Fatal[*LetStmt, *LetError](&LetError{Kind: LetEq, Cause: eq.Err()}, eq.Rest())
	}
	eqTrivia, rest := parse.Must(ParseTrivia(ctx, eq.Rest()))

	value := ParseExpr(ctx, rest)
	switch value.Kind() {
	case parse.KindFail:
		return parse.Fatal[*LetStmt, *LetError](&LetError{Kind: LetValue, Cause: value.Err()}, value.Rest())
	case parse.KindFatal:
		return parse.Fatal[*LetStmt, *LetError](&LetError{Kind: LetValue, Cause: value.FatalErr()}, value.Rest())
	}
	return parse.Done[*LetStmt, *LetError, *LetError](&LetStmt{
		Let:        keyword.Value(),
		Spacing:    spacing.Value(),
		Name:       name.Value(),
		NameTrivia: nameTrivia,
		Eq:         eq.Value(),
		EqTrivia:   eqTrivia,
		Value:      value.Value(),
	}, value.Rest())
}

// ParseStmt parses a let binding or, when the input does not start with
// `let`, an expression.
func ParseStmt(ctx context.Context, in stream.Stream) parse.Result[Stmt, *StmtError, *StmtError] {
	let := ParseLet(ctx, in)
	switch let.Kind() {
	case parse.KindDone:
		return parse.Done[Stmt, *StmtError, *StmtError](let.Value(), let.Rest())
	case parse.KindFatal:
		return parse.Fatal[Stmt, *StmtError](&StmtError{Cause: let.FatalErr()}, let.Rest())
	}

	expr := ParseExpr(ctx, in)
	switch expr.Kind() {
	case parse.KindFail:
		return parse.Fail[Stmt, *StmtError, *StmtError](&StmtError{Cause: expr.Err()}, expr.Rest())
	case parse.KindFatal:
		return parse.Fatal[Stmt, *StmtError](&StmtError{Cause: expr.FatalErr()}, expr.Rest())
	}
	return parse.Done[Stmt, *StmtError, *StmtError](&ExprStmt{Expr: expr.Value()}, expr.Rest())
}

type StmtSeparator struct {
	Leading  Trivia
	Semi     Token
	Trailing Trivia
}

func (s StmtSeparator) Span() Span {
	return Cover(s.Leading.Span(), s.Trailing.Span())
}

func ParseStmtSeparator(ctx context.Context, in stream.Stream) parse.Result[StmtSeparator, *TokenError, parse.Never] {
	sep := ParseRelaxed(ctx, in, semi)
	if sep.Kind() != parse.KindDone {
		return parse.Fail[StmtSeparator, *TokenError, parse.Never](sep.Err(), sep.Rest())
	}
	v := sep.Value()
	return parse.Done[StmtSeparator, *TokenError, parse.Never](StmtSeparator{Leading: v.Leading, Semi: v.Item, Trailing: v.Trailing}, sep.Rest())
}

// TrailingSemi is a `;` after the last statement of a list.
type TrailingSemi struct {
	Leading Trivia
	Semi    Token
}

type Stmts struct {
	List         parse.Punctured[Stmt, StmtSeparator]
	TrailingSemi optional.Optional[TrailingSemi]
	span         Span
}

// Span is empty at the start position when the list is empty.
func (s *Stmts) Span() Span {
	return s.span
}

// LastExpr returns the expression of the final statement when the list does
// not end with a separator and the final statement is an expression. This is
// the value of a block.
func (s *Stmts) LastExpr() optional.Optional[Expr] {
	if s.TrailingSemi.IsPresent() {
		return optional.None[Expr]()
	}
	last, ok := s.List.Last().Get()
	if !ok {
		return optional.None[Expr]()
	}
	stmt, ok := last.(*ExprStmt)
	if !ok {
		return optional.None[Expr]()
	}
	return optional.Some(stmt.Expr)
}

// ParseStmts parses statements separated by `;` with an optional trailing
// `;`. It never fails. An empty list is valid.
func ParseStmts(ctx context.Context, in stream.Stream) parse.Result[*Stmts, parse.Never, *StmtsError] {
	list := parse.ParsePunctured(ctx, in, ParseStmt, ParseStmtSeparator)
	if list.Kind() == parse.KindFatal {
		return parse.Fatal[*Stmts, parse.Never](&StmtsError{Cause: list.FatalErr()}, list.Rest())
	}
	rest := list.Rest()

	trailingSemi := optional.None[TrailingSemi]()
	if list.Value().Len() > 0 {
		leading, afterTrivia := parse.Must(ParseTrivia(ctx, rest))
		if s := semi(ctx, afterTrivia); s.Kind() == parse.KindDone {
			trailingSemi = optional.Some(TrailingSemi{Leading: leading, Semi: s.Value()})
			rest = s.Rest()
		}
	}

	return parse.Done[*Stmts, parse.Never, *StmtsError](&Stmts{
		List:         list.Value(),
		TrailingSemi: trailingSemi,
		span:         NewSpan(in.Location(), rest.Location()),
	}, rest)
}
