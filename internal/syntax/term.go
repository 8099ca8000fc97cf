package syntax

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/optional"
	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

// Term is an operand of a binary expression: a literal, identifier, tuple,
// block, unary expression, or application.
type Term interface {
	Expr
	isTerm()
}

type Unary struct {
	Op      UnaryOp
	Operand Term
}

func (u *Unary) Span() Span {
	return Cover(u.Op.Span(), u.Operand.Span())
}

// Tuple is a parenthesized, comma separated list of expressions. A single
// element without a trailing comma is a grouping rather than a tuple.
type Tuple struct {
	LParen        Token
	Leading       Trivia
	Items         parse.Punctured[Expr, Relaxed[Token]]
	TrailingComma optional.Optional[Relaxed[Token]]
	Trailing      Trivia
	RParen        Token
}

func (t *Tuple) Span() Span {
	return Cover(t.LParen.Span(), t.RParen.Span())
}

func (t *Tuple) IsGrouping() bool {
	return t.Items.Len() == 1 && !t.TrailingComma.IsPresent()
}

// App applies a term to the tuple that immediately follows it.
type App struct {
	Receiver Term
	Arg      *Tuple
}

func (a *App) Span() Span {
	return Cover(a.Receiver.Span(), a.Arg.Span())
}

type Block struct {
	LBrace   Token
	Leading  Trivia
	Stmts    *Stmts
	Trailing Trivia
	RBrace   Token
}

func (b *Block) Span() Span {
	return Cover(b.LBrace.Span(), b.RBrace.Span())
}

func (*Unary) isExpr() {}
func (*Unary) isTerm() {}
func (*Tuple) isExpr() {}
func (*Tuple) isTerm() {}
func (*App) isExpr()   {}
func (*App) isTerm()   {}
func (*Block) isExpr() {}
func (*Block) isTerm() {}

// ParseTerm tries a block, a unary expression, a tuple, an identifier, and a
// literal in that order. Any term other than a unary expression may be
// followed by argument tuples.
func ParseTerm(ctx context.Context, in stream.Stream) parse.Result[Term, *TermError, *TermError] {
	block := ParseBlock(ctx, in)
	switch block.Kind() {
	case parse.KindDone:
		return applications(ctx, block.Value(), block.Rest())
	case parse.KindFatal:
		return parse.Fatal[Term, *TermError](&TermError{Cause: block.FatalErr(), span: Points(in.Location())}, block.Rest())
	}

	unary := ParseUnary(ctx, in)
	switch unary.Kind() {
	case parse.KindDone:
		return parse.Done[Term, *TermError, *TermError](unary.Value(), unary.Rest())
	case parse.KindFatal:
		return parse.Fatal[Term, *TermError](&TermError{Cause: unary.FatalErr(), span: Points(in.Location())}, unary.Rest())
	}

	tuple := ParseTuple(ctx, in)
	switch tuple.Kind() {
	case parse.KindDone:
		return applications(ctx, tuple.Value(), tuple.Rest())
	case parse.KindFatal:
		return parse.Fatal[Term, *TermError](&TermError{Cause: tuple.FatalErr(), span: Points(in.Location())}, tuple.Rest())
	}

	if ident := ParseIdent(ctx, in); ident.Kind() == parse.KindDone {
		return applications(ctx, ident.Value(), ident.Rest())
	}

	literal := ParseLiteral(ctx, in)
	switch literal.Kind() {
	case parse.KindDone:
		return applications(ctx, literal.Value(), literal.Rest())
	case parse.KindFatal:
		return parse.Fatal[Term, *TermError](&TermError{Cause: literal.FatalErr(), span: Points(in.Location())}, literal.Rest())
	}
	return parse.Fail[Term, *TermError, *TermError](&TermError{Literal: literal.Err(), span: Points(in.Location())}, in)
}

// malformedTerm returns the term failure at in when the input there starts
// like an integer but is not a valid one. Lists end quietly on a failed
// item, so callers that find an unexpected rune use this to report the
// literal instead.
func malformedTerm(ctx context.Context, in stream.Stream) *TermError {
	res := ParseTerm(ctx, in)
	if res.Kind() != parse.KindFail || res.Err().malformed() == nil {
		return nil
	}
	return res.Err()
}

func applications(ctx context.Context, receiver Term, in stream.Stream) parse.Result[Term, *TermError, *TermError] {
	rest := in
	for {
		anchor := rest.Anchor()
		arg := ParseTuple(ctx, rest)
		switch arg.Kind() {
		case parse.KindFail:
			return parse.Done[Term, *TermError, *TermError](receiver, arg.Rest().Rewind(anchor))
		case parse.KindFatal:
			return parse.Fatal[Term, *TermError](&TermError{Cause: arg.FatalErr(), span: Points(anchor.Location())}, arg.Rest())
		}
		receiver = &App{Receiver: receiver, Arg: arg.Value()}
		rest = arg.Rest()
	}
}

// ParseUnary parses `+` or `-` followed by a term. The operator commits the
// production.
func ParseUnary(ctx context.Context, in stream.Stream) parse.Result[*Unary, *UnaryError, *UnaryError] {
	op := ParseUnaryOp(ctx, in)
	if op.Kind() != parse.KindDone {
		return parse.Fail[*Unary, *UnaryError, *UnaryError](&UnaryError{Op: op.Err()}, in)
	}
	operand := ParseTerm(ctx, op.Rest())
	switch operand.Kind() {
	case parse.KindFail:
		return parse.Fatal[*Unary, *UnaryError](&UnaryError{Operand: operand.Err()}, operand.Rest())
	case parse.KindFatal:
		return parse.Fatal[*Unary, *UnaryError](&UnaryError{Operand: operand.FatalErr()}, operand.Rest())
	}
	return parse.Done[*Unary, *UnaryError, *UnaryError](&Unary{Op: op.Value(), Operand: operand.Value()}, operand.Rest())
}

func relaxedComma(ctx context.Context, in stream.Stream) parse.Result[Relaxed[Token], *TokenError, parse.Never] {
	return ParseRelaxed(ctx, in, comma)
}

// ParseTuple parses `( e1, e2, ... )` with an optional trailing comma. The
// opening parenthesis commits the production.
func ParseTuple(ctx context.Context, in stream.Stream) parse.Result[*Tuple, *TupleError, *TupleError] {
	open := lparen(ctx, in)
	if open.Kind() != parse.KindDone {
		return parse.Fail[*Tuple, *TupleError, *TupleError](&TupleError{Kind: TupleMissingOpen, Cause: open.Err()}, in)
	}
	leading, rest := parse.Must(ParseTrivia(ctx, open.Rest()))

	items := parse.ParsePunctured(ctx, rest, ParseExpr, relaxedComma)
	if items.Kind() == parse.KindFatal {
		return parse.Fatal[*Tuple, *TupleError](&TupleError{Kind: TupleElement, Cause: items.FatalErr().Item}, items.Rest())
	}
	rest = items.Rest()

	trailingComma := optional.None[Relaxed[Token]]()
	if items.Value().Len() > 0 {
		if c := relaxedComma(ctx, rest); c.Kind() == parse.KindDone {
			trailingComma = optional.Some(c.Value())
			rest = c.Rest()
		}
	}

	trailing, rest := parse.Must(ParseTrivia(ctx, rest))
	closing := rparen(ctx, rest)
	if closing.Kind() != parse.KindDone {
		if terr := malformedTerm(ctx, rest); terr != nil {
			return parse.Fatal[*Tuple, *TupleError](&TupleError{Kind: TupleElement, Cause: terr}, rest)
		}
		return parse.Fatal[*Tuple, *TupleError](&TupleError{Kind: TupleMissingClose, Cause: closing.Err()}, rest)
	}
	return parse.Done[*Tuple, *TupleError, *TupleError](&Tuple{
		LParen:        open.Value(),
		Leading:       leading,
		Items:         items.Value(),
		TrailingComma: trailingComma,
		Trailing:      trailing,
		RParen:        closing.Value(),
	}, closing.Rest())
}

// ParseBlock parses `{ stmts }`. The opening brace commits the production.
func ParseBlock(ctx context.Context, in stream.Stream) parse.Result[*Block, *BlockError, *BlockError] {
	open := lbrace(ctx, in)
	if open.Kind() != parse.KindDone {
		return parse.Fail[*Block, *BlockError, *BlockError](&BlockError{Kind: BlockMissingOpen, Cause: open.Err()}, in)
	}
	leading, rest := parse.Must(ParseTrivia(ctx, open.Rest()))

	stmts := ParseStmts(ctx, rest)
	if stmts.Kind() == parse.KindFatal {
		return parse.Fatal[*Block, *BlockError](&BlockError{Kind: BlockStmts, Cause: stmts.FatalErr()}, stmts.Rest())
	}

	trailing, rest := parse.Must(ParseTrivia(ctx, stmts.Rest()))
	closing := rbrace(ctx, rest)
	if closing.Kind() != parse.KindDone {
		if terr := malformedTerm(ctx, rest); terr != nil {
			return parse.Fatal[*Block, *BlockError](&BlockError{Kind: BlockStmts, Cause: terr}, rest)
		}
		return parse.Fatal[*Block, *BlockError](&BlockError{Kind: BlockMissingClose, Cause: closing.Err()}, rest)
	}
	return parse.Done[*Block, *BlockError, *BlockError](&Block{
		LBrace:   open.Value(),
		Leading:  leading,
		Stmts:    stmts.Value(),
		Trailing: trailing,
		RBrace:   closing.Value(),
	}, closing.Rest())
}
