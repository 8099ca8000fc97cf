package syntax

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

type OpKind uint8

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

var binarySymbols = map[rune]OpKind{
	'+': OpAdd,
	'-': OpSub,
	'*': OpMul,
	'/': OpDiv,
}

// Op is a binary operator together with the whitespace around it.
type Op struct {
	Kind     OpKind
	Leading  Spacing
	Symbol   Token
	Trailing Spacing
}

// Span covers the symbol only.
func (o Op) Span() Span {
	return o.Symbol.Span()
}

func (o Op) Precedence() int {
	switch o.Kind {
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

func (o Op) Associativity() parse.Associativity {
	return parse.AssocLeft
}

// ParseOp parses a binary operator. The symbol must have whitespace on both
// sides, so `a+b` is not an addition.
func ParseOp(ctx context.Context, in stream.Stream) parse.Result[Op, *OpError, parse.Never] {
	leading := ParseSpacing(ctx, in)
	if leading.Kind() != parse.KindDone {
		return parse.Fail[Op, *OpError, parse.Never](&OpError{Kind: OpMissingLeadingSpace, span: Points(in.Location())}, in)
	}
	at := leading.Rest().Location()
	r, rest, ok := leading.Rest().Next(ctx)
	if !ok {
		return parse.Fail[Op, *OpError, parse.Never](&OpError{Kind: OpNoSymbol, span: Points(at)}, in)
	}
	kind, known := binarySymbols[r]
	if !known {
		return parse.Fail[Op, *OpError, parse.Never](&OpError{Kind: OpUnknownSymbol, Found: r, span: NewSpan(at, rest.Location())}, in)
	}
	symbol := Token{Text: string(r), span: NewSpan(at, rest.Location())}
	trailing := ParseSpacing(ctx, rest)
	if trailing.Kind() != parse.KindDone {
		return parse.Fail[Op, *OpError, parse.Never](&OpError{Kind: OpMissingTrailingSpace, span: Points(rest.Location())}, in)
	}
	return parse.Done[Op, *OpError, parse.Never](Op{
		Kind:     kind,
		Leading:  leading.Value(),
		Symbol:   symbol,
		Trailing: trailing.Value(),
	}, trailing.Rest())
}

type UnaryKind uint8

const (
	UnaryPlus UnaryKind = iota
	UnaryMinus
)

func (k UnaryKind) String() string {
	if k == UnaryMinus {
		return "-"
	}
	return "+"
}

type UnaryOp struct {
	Kind   UnaryKind
	Symbol Token
}

func (o UnaryOp) Span() Span {
	return o.Symbol.Span()
}

func ParseUnaryOp(ctx context.Context, in stream.Stream) parse.Result[UnaryOp, *UnaryOpError, parse.Never] {
	if res := plus(ctx, in); res.Kind() == parse.KindDone {
		return parse.Done[UnaryOp, *UnaryOpError, parse.Never](UnaryOp{Kind: UnaryPlus, Symbol: res.Value()}, res.Rest())
	}
	res := minus(ctx, in)
	if res.Kind() == parse.KindDone {
		return parse.Done[UnaryOp, *UnaryOpError, parse.Never](UnaryOp{Kind: UnaryMinus, Symbol: res.Value()}, res.Rest())
	}
	return parse.Fail[UnaryOp, *UnaryOpError, parse.Never](&UnaryOpError{Found: res.Err().Found, span: res.Err().Span()}, in)
}
