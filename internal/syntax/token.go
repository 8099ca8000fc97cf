package syntax

import (
	"context"

	"gopkg.microglot.org/minilet.go/internal/optional"
	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

// Token is a fixed piece of text such as a punctuation symbol or a keyword.
type Token struct {
	Text string
	span Span
}

func (t Token) Span() Span {
	return t.span
}

// token builds the production for a fixed piece of text. Text that starts
// with a letter is a keyword and must not be followed by another identifier
// character. A keyword running into a name, as in `letx`, is therefore a
// Fail and not a missing-space error, and the text is read as an identifier.
func token(text string) func(context.Context, stream.Stream) parse.Result[Token, *TokenError, parse.Never] {
	keyword := len(text) > 0 && isAlpha(rune(text[0]))
	return func(ctx context.Context, in stream.Stream) parse.Result[Token, *TokenError, parse.Never] {
		start := in.Location()
		rest := in
		for _, want := range text {
			r, next, ok := rest.Next(ctx)
			if !ok {
				return parse.Fail[Token, *TokenError, parse.Never](&TokenError{Expected: text, span: Points(start)}, in)
			}
			if r != want {
				return parse.Fail[Token, *TokenError, parse.Never](&TokenError{Expected: text, Found: optional.Some(r), span: Points(start)}, in)
			}
			rest = next
		}
		if keyword {
			if r, _, ok := rest.Next(ctx); ok && isAlnum(r) {
				return parse.Fail[Token, *TokenError, parse.Never](&TokenError{Expected: text, Found: optional.Some(r), span: Points(start)}, in)
			}
		}
		return parse.Done[Token, *TokenError, parse.Never](Token{Text: text, span: NewSpan(start, rest.Location())}, rest)
	}
}

var (
	semi       = token(";")
	plus       = token("+")
	minus      = token("-")
	lparen     = token("(")
	rparen     = token(")")
	lbrace     = token("{")
	rbrace     = token("}")
	equals     = token("=")
	comma      = token(",")
	letKeyword = token("let")
)

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlnum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	default:
		return false
	}
}
