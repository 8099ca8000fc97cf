package driver

import (
	"errors"

	"gopkg.microglot.org/minilet.go/internal/exc"
	"gopkg.microglot.org/minilet.go/internal/syntax"
)

// Exception converts an error returned by the syntax entry points into an
// exception. The location covers the innermost grammar error, which is the
// one closest to the defect, and the message describes the whole chain.
// Errors that did not come from the grammar are wrapped as unknown.
func Exception(uri string, err error) exc.Exception {
	var perr *syntax.ParseError
	if !errors.As(err, &perr) {
		return asException(uri, err)
	}
	inner := syntax.Innermost(perr.Cause)
	span := inner.Span()
	return exc.Wrap(exc.Location{
		Location: span.Start,
		End:      span.End,
		URI:      uri,
	}, Code(inner), perr.Cause)
}

// Code maps a grammar error to an exception code.
func Code(err syntax.Error) string {
	switch e := err.(type) {
	case *syntax.StringError:
		switch e.Kind {
		case syntax.StringUnterminated:
			return exc.CodeUnterminatedString
		case syntax.StringInvalidEscape:
			return exc.CodeInvalidEscape
		}
		return exc.CodeExpectedToken
	case *syntax.IntegerError:
		return exc.CodeInvalidNumber
	case *syntax.IdentError:
		return exc.CodeExpectedIdentifier
	case *syntax.SpacingError:
		return exc.CodeMissingWhitespace
	case *syntax.OpError:
		switch e.Kind {
		case syntax.OpMissingLeadingSpace, syntax.OpMissingTrailingSpace:
			return exc.CodeMissingWhitespace
		}
		return exc.CodeUnexpectedInput
	case *syntax.TokenError:
		if !e.Found.IsPresent() {
			return exc.CodeUnexpectedEOF
		}
		return exc.CodeExpectedToken
	case *syntax.UnexpectedInputError:
		return exc.CodeUnexpectedInput
	case *syntax.TermError, *syntax.UnaryError, *syntax.UnaryOpError, *syntax.ExprError:
		return exc.CodeExpectedExpression
	default:
		return exc.CodeUnknownFatal
	}
}
