package syntax

import (
	"context"
	"strings"

	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

var reserved = map[string]bool{
	"let": true,
}

type Ident struct {
	Name string
	span Span
}

func (i *Ident) Span() Span {
	return i.span
}

func (*Ident) isExpr() {}
func (*Ident) isTerm() {}

// ParseIdent parses an ASCII letter followed by ASCII letters and digits.
// Reserved words are not identifiers.
func ParseIdent(ctx context.Context, in stream.Stream) parse.Result[*Ident, *IdentError, parse.Never] {
	start := in.Location()
	var b strings.Builder
	rest := in
	for {
		r, next, ok := rest.Next(ctx)
		if !ok || !isAlnum(r) || (b.Len() == 0 && !isAlpha(r)) {
			break
		}
		b.WriteRune(r)
		rest = next
	}
	if b.Len() == 0 {
		return parse.Fail[*Ident, *IdentError, parse.Never](&IdentError{Kind: IdentMissing, span: Points(start)}, in)
	}
	span := NewSpan(start, rest.Location())
	if reserved[b.String()] {
		return parse.Fail[*Ident, *IdentError, parse.Never](&IdentError{Kind: IdentReserved, Name: b.String(), span: span}, in)
	}
	return parse.Done[*Ident, *IdentError, parse.Never](&Ident{Name: b.String(), span: span}, rest)
}
