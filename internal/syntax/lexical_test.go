package syntax

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/minilet.go/internal/idl"
	"gopkg.microglot.org/minilet.go/internal/parse"
	"gopkg.microglot.org/minilet.go/internal/stream"
)

func remaining(ctx context.Context, s stream.Stream) string {
	var b strings.Builder
	it := s.Segments()
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		b.WriteString(v.Value())
	}
	return b.String()
}

func TestTrivia(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	in := stream.NewString(" \t\r\n\f x ")
	first, rest := parse.Must(ParseTrivia(ctx, in))
	require.Equal(t, " \t\r\n\f ", first.Text)
	require.Equal(t, "x ", remaining(ctx, rest))
	require.Equal(t, idl.Location{Line: 2, Column: 3, Offset: 6}, rest.Location())

	second, again := parse.Must(ParseTrivia(ctx, rest))
	require.Equal(t, "", second.Text)
	require.True(t, second.Span().IsEmpty())
	require.Equal(t, rest.Location(), again.Location())
	require.Equal(t, "x ", remaining(ctx, again))

	empty, end := parse.Must(ParseTrivia(ctx, stream.NewString("")))
	require.Equal(t, "", empty.Text)
	require.True(t, end.AtEnd(ctx))
}

func TestSpacing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	res := ParseSpacing(ctx, stream.NewString("  \nx"))
	require.Equal(t, parse.KindDone, res.Kind())
	require.Equal(t, "  \n", res.Value().Text)
	require.Equal(t, "x", remaining(ctx, res.Rest()))

	for _, input := range []string{"x", ""} {
		res := ParseSpacing(ctx, stream.NewString(input))
		require.Equal(t, parse.KindFail, res.Kind())
		require.True(t, res.Err().Span().IsEmpty())
		require.Equal(t, input, remaining(ctx, res.Rest()))
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testCases := []struct {
		name   string
		parser func(context.Context, stream.Stream) parse.Result[Token, *TokenError, parse.Never]
		input  string
		match  bool
		rest   string
	}{
		{name: "semi", parser: semi, input: ";x", match: true, rest: "x"},
		{name: "semi mismatch", parser: semi, input: ",", rest: ","},
		{name: "semi at end", parser: semi, input: "", rest: ""},
		{name: "keyword", parser: letKeyword, input: "let x", match: true, rest: " x"},
		{name: "keyword before symbol", parser: letKeyword, input: "let(", match: true, rest: "("},
		{name: "keyword at end", parser: letKeyword, input: "let", match: true, rest: ""},
		{name: "keyword prefix of ident", parser: letKeyword, input: "letter", rest: "letter"},
		{name: "keyword followed by digit", parser: letKeyword, input: "let1", rest: "let1"},
		{name: "partial keyword", parser: letKeyword, input: "le", rest: "le"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			res := testCase.parser(ctx, stream.NewString(testCase.input))
			require.Equal(t, testCase.rest, remaining(ctx, res.Rest()))
			if !testCase.match {
				require.Equal(t, parse.KindFail, res.Kind())
				require.Equal(t, Points(idl.StartLocation), res.Err().Span())
				return
			}
			require.Equal(t, parse.KindDone, res.Kind())
			tok := res.Value()
			require.Equal(t, strings.TrimSuffix(testCase.input, testCase.rest), tok.Text)
			require.Equal(t, tok.Text, tok.Span().Text(testCase.input))
		})
	}
}

func TestTokenErrorMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	res := rparen(ctx, stream.NewString("]"))
	require.EqualError(t, res.Err(), `expected ")", found ']'`)
	res = rparen(ctx, stream.NewString(""))
	require.EqualError(t, res.Err(), `expected ")", found end of input`)
}

func TestInteger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testCases := []struct {
		name   string
		input  string
		value  int64
		prefix IntegerPrefix
		digits string
		rest   string
	}{
		{name: "hex", input: "0x1F rest", value: 31, prefix: PrefixHex, digits: "1F", rest: " rest"},
		{name: "binary", input: "0b1012", value: 5, prefix: PrefixBin, digits: "101", rest: "2"},
		{name: "octal", input: "0o777", value: 511, prefix: PrefixOct, digits: "777"},
		{name: "octal stops at eight", input: "0o78", value: 7, prefix: PrefixOct, digits: "7", rest: "8"},
		{name: "decimal", input: "42abc", value: 42, digits: "42", rest: "abc"},
		{name: "lone zero", input: "0", value: 0, digits: "0"},
		{name: "zero before symbol", input: "0;", value: 0, digits: "0", rest: ";"},
		{name: "zero before letter", input: "0z", value: 0, digits: "0", rest: "z"},
		{name: "leading zero", input: "012", value: 12, digits: "012"},
		{name: "mixed case hex", input: "0xffFF", value: 65535, prefix: PrefixHex, digits: "ffFF"},
		{name: "max", input: "9223372036854775807", value: math.MaxInt64, digits: "9223372036854775807"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			res := ParseInteger(ctx, stream.NewString(testCase.input))
			require.Equal(t, parse.KindDone, res.Kind())
			lit := res.Value()
			require.Equal(t, testCase.value, lit.Value)
			require.Equal(t, testCase.prefix, lit.Prefix)
			require.Equal(t, testCase.digits, lit.Digits)
			require.Equal(t, testCase.rest, remaining(ctx, res.Rest()))
			require.Equal(t, strings.TrimSuffix(testCase.input, testCase.rest), lit.Span().Text(testCase.input))
		})
	}
}

func TestIntegerFail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testCases := []struct {
		input string
		kind  IntegerErrorKind
	}{
		{input: "", kind: IntegerNotDigit},
		{input: "x1", kind: IntegerNotDigit},
		{input: "-1", kind: IntegerNotDigit},
		{input: "0x", kind: IntegerNoDigits},
		{input: "0xg", kind: IntegerNoDigits},
		{input: "0b2", kind: IntegerNoDigits},
		{input: "9223372036854775808", kind: IntegerOutOfRange},
		{input: "0x8000000000000000", kind: IntegerOutOfRange},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			res := ParseInteger(ctx, stream.NewString(testCase.input))
			require.Equal(t, parse.KindFail, res.Kind())
			require.Equal(t, testCase.kind, res.Err().Kind)
			require.Equal(t, idl.StartLocation, res.Err().Span().Start)
			require.Equal(t, testCase.input, remaining(ctx, res.Rest()))
		})
	}
}

func TestIntegerRadixRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	values := []int64{0, 1, 7, 8, 10, 255, 4096, 1 << 40, math.MaxInt64}
	prefixes := []IntegerPrefix{PrefixNone, PrefixBin, PrefixOct, PrefixHex}
	for _, value := range values {
		for _, prefix := range prefixes {
			digits := strconv.FormatInt(value, prefix.Radix())
			text := prefix.String() + digits
			t.Run(fmt.Sprintf("%s-%d", text, prefix.Radix()), func(t *testing.T) {
				res := ParseInteger(ctx, stream.NewString(text+" tail"))
				require.Equal(t, parse.KindDone, res.Kind())
				require.Equal(t, value, res.Value().Value)
				consumed := len(digits)
				if prefix != PrefixNone {
					consumed = consumed + 2
				}
				require.Equal(t, int64(consumed), res.Rest().Location().Offset)
				require.Equal(t, " tail", remaining(ctx, res.Rest()))
			})
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	unescape := strings.NewReplacer(`\"`, `"`, `\\`, `\`)
	testCases := []struct {
		name  string
		input string
		text  string
		rest  string
	}{
		{name: "plain", input: `"abc" x`, text: "abc", rest: " x"},
		{name: "empty", input: `""`, text: ""},
		{name: "escaped quote", input: `"a\"b"`, text: `a"b`},
		{name: "escaped backslash", input: `"a\\b"`, text: `a\b`},
		{name: "backslash before quote", input: `"a\\" + 1`, text: `a\`, rest: " + 1"},
		{name: "multibyte", input: `"日本語"!`, text: "日本語", rest: "!"},
		{name: "newline", input: "\"a\nb\"", text: "a\nb"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			res := ParseString(ctx, stream.NewString(testCase.input))
			require.Equal(t, parse.KindDone, res.Kind())
			lit := res.Value()
			require.Equal(t, testCase.text, lit.Text)
			require.Equal(t, strings.TrimSuffix(testCase.input, testCase.rest), lit.Raw)
			require.Equal(t, unescape.Replace(lit.Raw[1:len(lit.Raw)-1]), lit.Text)
			require.Equal(t, lit.Raw, lit.Span().Text(testCase.input))
			require.Equal(t, testCase.rest, remaining(ctx, res.Rest()))
		})
	}
}

func TestStringErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	testCases := []struct {
		name  string
		input string
		kind  parse.Kind
		err   StringErrorKind
		span  Span
	}{
		{
			name:  "not a string",
			input: "abc",
			kind:  parse.KindFail,
			err:   StringMissing,
			span:  Points(idl.StartLocation),
		},
		{
			name:  "empty input",
			input: "",
			kind:  parse.KindFail,
			err:   StringMissing,
			span:  Points(idl.StartLocation),
		},
		{
			name:  "invalid escape",
			input: `"a\nb"`,
			kind:  parse.KindFatal,
			err:   StringInvalidEscape,
			span: NewSpan(
				idl.Location{Line: 1, Column: 3, Offset: 2},
				idl.Location{Line: 1, Column: 5, Offset: 4},
			),
		},
		{
			name:  "unterminated",
			input: `"abc`,
			kind:  parse.KindFatal,
			err:   StringUnterminated,
			span:  NewSpan(idl.StartLocation, idl.Location{Line: 1, Column: 5, Offset: 4}),
		},
		{
			name:  "unterminated escape",
			input: `"ab\`,
			kind:  parse.KindFatal,
			err:   StringUnterminated,
			span:  NewSpan(idl.StartLocation, idl.Location{Line: 1, Column: 5, Offset: 4}),
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			res := ParseString(ctx, stream.NewString(testCase.input))
			require.Equal(t, testCase.kind, res.Kind())
			err := res.Err()
			if testCase.kind == parse.KindFatal {
				err = res.FatalErr()
			}
			require.Equal(t, testCase.err, err.Kind)
			require.Equal(t, testCase.span, err.Span())
		})
	}
}

func TestIdent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	res := ParseIdent(ctx, stream.NewString("abc1 x"))
	require.Equal(t, parse.KindDone, res.Kind())
	require.Equal(t, "abc1", res.Value().Name)
	require.Equal(t, " x", remaining(ctx, res.Rest()))

	res = ParseIdent(ctx, stream.NewString("lets"))
	require.Equal(t, parse.KindDone, res.Kind())
	require.Equal(t, "lets", res.Value().Name)

	for _, input := range []string{"1abc", "", "_a", "é"} {
		res := ParseIdent(ctx, stream.NewString(input))
		require.Equal(t, parse.KindFail, res.Kind(), input)
		require.Equal(t, IdentMissing, res.Err().Kind)
	}

	res = ParseIdent(ctx, stream.NewString("let"))
	require.Equal(t, parse.KindFail, res.Kind())
	require.Equal(t, IdentReserved, res.Err().Kind)
	require.Equal(t, "let", res.Err().Span().Text("let"))
}
