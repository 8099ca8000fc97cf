package parse

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/optional"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

// Punctured is a list of items with a separator strictly between each pair
// of neighbours. It never holds a leading or trailing separator.
type Punctured[T, P any] struct {
	items      []T
	separators []P
}

// NewPunctured builds a list from parsed parts. It panics unless there is
// exactly one fewer separator than items, or both are empty.
func NewPunctured[T, P any](items []T, separators []P) Punctured[T, P] {
	if (len(items) == 0 && len(separators) != 0) || (len(items) > 0 && len(separators) != len(items)-1) {
		panic("parse: separators must sit strictly between items")
	}
	return Punctured[T, P]{items: items, separators: separators}
}

func (p Punctured[T, P]) Items() []T {
	return p.items
}

func (p Punctured[T, P]) Separators() []P {
	return p.separators
}

func (p Punctured[T, P]) Len() int {
	return len(p.items)
}

func (p Punctured[T, P]) Last() optional.Optional[T] {
	if len(p.items) == 0 {
		return optional.None[T]()
	}
	return optional.Some(p.items[len(p.items)-1])
}

// PuncturedError carries the fatal error of either an item or a separator.
type PuncturedError[TF, PF error] struct {
	Item        TF
	Separator   PF
	InSeparator bool
}

func (e *PuncturedError[TF, PF]) Error() string {
	if e.InSeparator {
		return e.Separator.Error()
	}
	return e.Item.Error()
}

func (e *PuncturedError[TF, PF]) Unwrap() error {
	if e.InSeparator {
		return e.Separator
	}
	return e.Item
}

// ParsePunctured parses `item (sep item)*`.
//
// An input that does not start with an item yields an empty list and the
// Stream is rewound to the entry point. Inside the loop, a separator that
// does not match, or one that is not followed by an item, ends the list and
// the Stream is rewound to just after the last item. A dangling separator is
// therefore left for the caller. Fatal errors from either production are
// returned immediately.
func ParsePunctured[T, P any, TE, TF, PE, PF error](
	ctx context.Context,
	in stream.Stream,
	item func(context.Context, stream.Stream) Result[T, TE, TF],
	sep func(context.Context, stream.Stream) Result[P, PE, PF],
) Result[Punctured[T, P], Never, *PuncturedError[TF, PF]] {
	anchor := in.Anchor()
	first := item(ctx, in)
	switch first.Kind() {
	case KindFail:
		return Done[Punctured[T, P], Never, *PuncturedError[TF, PF]](Punctured[T, P]{}, first.Rest().Rewind(anchor))
	case KindFatal:
		return Fatal[Punctured[T, P], Never](&PuncturedError[TF, PF]{Item: first.FatalErr()}, first.Rest())
	}

	items := []T{first.Value()}
	var separators []P
	rest := first.Rest()
	for {
		anchor = rest.Anchor()
		s := sep(ctx, rest)
		if s.Kind() == KindFail {
			rest = s.Rest().Rewind(anchor)
			break
		}
		if s.Kind() == KindFatal {
			return Fatal[Punctured[T, P], Never](&PuncturedError[TF, PF]{Separator: s.FatalErr(), InSeparator: true}, s.Rest())
		}

		next := item(ctx, s.Rest())
		if next.Kind() == KindFail {
			rest = next.Rest().Rewind(anchor)
			break
		}
		if next.Kind() == KindFatal {
			return Fatal[Punctured[T, P], Never](&PuncturedError[TF, PF]{Item: next.FatalErr()}, next.Rest())
		}

		separators = append(separators, s.Value())
		items = append(items, next.Value())
		rest = next.Rest()
	}
	return Done[Punctured[T, P], Never, *PuncturedError[TF, PF]](NewPunctured(items, separators), rest)
}
