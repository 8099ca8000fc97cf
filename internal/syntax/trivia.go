package syntax

import (
	"context"
	"strings"

	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

// Trivia is a run of optional whitespace. It may be empty.
type Trivia struct {
	Text string
	span Span
}

func (t Trivia) Span() Span {
	return t.span
}

// Spacing is a run of mandatory whitespace. It is never empty.
type Spacing struct {
	Text string
	span Span
}

func (s Spacing) Span() Span {
	return s.span
}

func whitespace(ctx context.Context, in stream.Stream) (string, stream.Stream) {
	var b strings.Builder
	rest := in
	for {
		r, next, ok := rest.Next(ctx)
		if !ok || !isWhitespace(r) {
			return b.String(), rest
		}
		b.WriteRune(r)
		rest = next
	}
}

func ParseTrivia(ctx context.Context, in stream.Stream) parse.Result[Trivia, parse.Never, parse.Never] {
	text, rest := whitespace(ctx, in)
	return parse.Done[Trivia, parse.Never, parse.Never](Trivia{Text: text, span: NewSpan(in.Location(), rest.Location())}, rest)
}

func ParseSpacing(ctx context.Context, in stream.Stream) parse.Result[Spacing, *SpacingError, parse.Never] {
	text, rest := whitespace(ctx, in)
	if text == "" {
		return parse.Fail[Spacing, *SpacingError, parse.Never](&SpacingError{span: Points(in.Location())}, in)
	}
	return parse.Done[Spacing, *SpacingError, parse.Never](Spacing{Text: text, span: NewSpan(in.Location(), rest.Location())}, rest)
}

// Relaxed is an item surrounded by optional whitespace.
type Relaxed[T any] struct {
	Leading  Trivia
	Item     T
	Trailing Trivia
}

func (r Relaxed[T]) Span() Span {
	return Cover(r.Leading.Span(), r.Trailing.Span())
}

// ParseRelaxed wraps p with Trivia on both sides. Errors from p are returned
// unchanged.
func ParseRelaxed[T any, E, F error](
	ctx context.Context,
	in stream.Stream,
	p func(context.Context, stream.Stream) parse.Result[T, E, F],
) parse.Result[Relaxed[T], E, F] {
	leading, rest := parse.Must(ParseTrivia(ctx, in))
	item := p(ctx, rest)
	switch item.Kind() {
	case parse.KindFail:
		return parse.Fail[Relaxed[T], E, F](item.Err(), item.Rest())
	case parse.KindFatal:
		return parse.Fatal[Relaxed[T], E, F](item.FatalErr(), item.Rest())
	}
	trailing, rest := parse.Must(ParseTrivia(ctx, item.Rest()))
	return parse.Done[Relaxed[T], E, F](Relaxed[T]{Leading: leading, Item: item.Value(), Trailing: trailing}, rest)
}
