package syntax

import (
	"context"
	"strconv"
	"strings"

	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

type IntegerPrefix uint8

const (
	PrefixNone IntegerPrefix = iota
	PrefixBin
	PrefixOct
	PrefixHex
)

func (p IntegerPrefix) Radix() int {
	switch p {
	case PrefixBin:
		return 2
	case PrefixOct:
		return 8
	case PrefixHex:
		return 16
	default:
		return 10
	}
}

func (p IntegerPrefix) String() string {
	switch p {
	case PrefixBin:
		return "0b"
	case PrefixOct:
		return "0o"
	case PrefixHex:
		return "0x"
	default:
		return ""
	}
}

func (p IntegerPrefix) valid(r rune) bool {
	switch p {
	case PrefixBin:
		return r == '0' || r == '1'
	case PrefixOct:
		return r >= '0' && r <= '7'
	case PrefixHex:
		return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	default:
		return isDigit(r)
	}
}

func prefixOf(r rune) (IntegerPrefix, bool) {
	switch r {
	case 'b':
		return PrefixBin, true
	case 'o':
		return PrefixOct, true
	case 'x':
		return PrefixHex, true
	default:
		return PrefixNone, false
	}
}

type IntegerLiteral struct {
	Prefix IntegerPrefix
	Digits string
	Value  int64
	span   Span
}

func (l *IntegerLiteral) Span() Span {
	return l.span
}

// ParseInteger parses a decimal, 0b, 0o, or 0x integer that fits in an int64.
// Digits are consumed up to the first one that is invalid for the radix.
func ParseInteger(ctx context.Context, in stream.Stream) parse.Result[*IntegerLiteral, *IntegerError, parse.Never] {
	start := in.Location()
	first, rest, ok := in.Next(ctx)
	if !ok || !isDigit(first) {
		return parse.Fail[*IntegerLiteral, *IntegerError, parse.Never](&IntegerError{Kind: IntegerNotDigit, span: Points(start)}, in)
	}

	prefix := PrefixNone
	var digits strings.Builder
	if first == '0' {
		r, next, ok := rest.Next(ctx)
		if p, isPrefix := prefixOf(r); ok && isPrefix {
			prefix = p
			rest = next
		} else {
			digits.WriteRune(first)
		}
	} else {
		digits.WriteRune(first)
	}

	for {
		r, next, ok := rest.Next(ctx)
		if !ok || !prefix.valid(r) {
			break
		}
		digits.WriteRune(r)
		rest = next
	}

	if digits.Len() == 0 {
		return parse.Fail[*IntegerLiteral, *IntegerError, parse.Never](&IntegerError{Kind: IntegerNoDigits, span: NewSpan(start, rest.Location())}, in)
	}
	value, err := strconv.ParseInt(digits.String(), prefix.Radix(), 64)
	if err != nil {
		return parse.Fail[*IntegerLiteral, *IntegerError, parse.Never](&IntegerError{Kind: IntegerOutOfRange, Cause: err, span: NewSpan(start, rest.Location())}, in)
	}
	return parse.Done[*IntegerLiteral, *IntegerError, parse.Never](&IntegerLiteral{
		Prefix: prefix,
		Digits: digits.String(),
		Value:  value,
		span:   NewSpan(start, rest.Location()),
	}, rest)
}

type StringLiteral struct {
	// Raw is the source text including quotes and escapes.
	Raw string
	// Text is the decoded value.
	Text string
	span Span
}

func (l *StringLiteral) Span() Span {
	return l.span
}

// ParseString parses a double quoted string. The only escapes are \" and \\.
// Once the opening quote has matched every later defect is fatal.
func ParseString(ctx context.Context, in stream.Stream) parse.Result[*StringLiteral, *StringError, *StringError] {
	start := in.Location()
	r, rest, ok := in.Next(ctx)
	if !ok || r != '"' {
		return parse.Fail[*StringLiteral, *StringError, *StringError](&StringError{Kind: StringMissing, span: Points(start)}, in)
	}

	var raw, text strings.Builder
	raw.WriteRune(r)
	for {
		at := rest.Location()
		c, next, ok := rest.Next(ctx)
		if !ok {
			return parse.Fatal[*StringLiteral, *StringError](&StringError{Kind: StringUnterminated, span: NewSpan(start, at)}, rest)
		}
		raw.WriteRune(c)
		rest = next
		switch c {
		case '"':
			return parse.Done[*StringLiteral, *StringError, *StringError](&StringLiteral{
				Raw:  raw.String(),
				Text: text.String(),
				span: NewSpan(start, rest.Location()),
			}, rest)
		case '\\':
			e, next, ok := rest.Next(ctx)
			if !ok {
				return parse.Fatal[*StringLiteral, *StringError](&StringError{Kind: StringUnterminated, span: NewSpan(start, rest.Location())}, rest)
			}
			if e != '"' && e != '\\' {
				return parse.Fatal[*StringLiteral, *StringError](&StringError{Kind: StringInvalidEscape, Escape: e, span: NewSpan(at, next.Location())}, rest)
			}
			raw.WriteRune(e)
			text.WriteRune(e)
			rest = next
		default:
			text.WriteRune(c)
		}
	}
}

// Literal is an IntegerLiteral or a StringLiteral.
type Literal interface {
	Term
	isLiteral()
}

func (*IntegerLiteral) isExpr()    {}
func (*IntegerLiteral) isTerm()    {}
func (*IntegerLiteral) isLiteral() {}
func (*StringLiteral) isExpr()     {}
func (*StringLiteral) isTerm()     {}
func (*StringLiteral) isLiteral()  {}

func ParseLiteral(ctx context.Context, in stream.Stream) parse.Result[Literal, *LiteralError, *StringError] {
	integer := ParseInteger(ctx, in)
	if integer.Kind() == parse.KindDone {
		return parse.Done[Literal, *LiteralError, *StringError](integer.Value(), integer.Rest())
	}
	str := ParseString(ctx, in)
	switch str.Kind() {
	case parse.KindFail:
		return parse.Fail[Literal, *LiteralError, *StringError](&LiteralError{Integer: integer.Err(), String: str.Err()}, in)
	case parse.KindFatal:
		return parse.Fatal[Literal, *LiteralError](str.FatalErr(), str.Rest())
	}
	return parse.Done[Literal, *LiteralError, *StringError](str.Value(), str.Rest())
}
