package syntax

import (
	"fmt"

	"gopkg.microglot.org/minilet.go/internal/optional"
	"gopkg.microglot.org/minilet.go/internal/parse"
)

// Error is implemented by every error produced by the grammar.
type Error interface {
	error
	Span() Span
}

func found(r optional.Optional[rune]) string {
	if v, ok := r.Get(); ok {
		return fmt.Sprintf("%q", v)
	}
	return "end of input"
}

type TokenError struct {
	Expected string
	// Found is empty at end of input.
	Found optional.Optional[rune]
	span  Span
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("expected %q, found %s", e.Expected, found(e.Found))
}

func (e *TokenError) Span() Span {
	return e.span
}

type SpacingError struct {
	span Span
}

func (e *SpacingError) Error() string {
	return "expected whitespace"
}

func (e *SpacingError) Span() Span {
	return e.span
}

type IntegerErrorKind uint8

const (
	IntegerNotDigit IntegerErrorKind = iota
	IntegerNoDigits
	IntegerOutOfRange
)

type IntegerError struct {
	Kind  IntegerErrorKind
	Cause error
	span  Span
}

func (e *IntegerError) Error() string {
	switch e.Kind {
	case IntegerNoDigits:
		return "missing digits after radix prefix"
	case IntegerOutOfRange:
		return "integer literal out of range"
	default:
		return "expected a digit"
	}
}

func (e *IntegerError) Span() Span {
	return e.span
}

func (e *IntegerError) Unwrap() error {
	return e.Cause
}

type StringErrorKind uint8

const (
	StringMissing StringErrorKind = iota
	StringUnterminated
	StringInvalidEscape
)

type StringError struct {
	Kind StringErrorKind
	// Escape is the character after the backslash for StringInvalidEscape.
	Escape rune
	span   Span
}

func (e *StringError) Error() string {
	switch e.Kind {
	case StringUnterminated:
		return "unterminated string literal"
	case StringInvalidEscape:
		return fmt.Sprintf("invalid escape sequence \\%c", e.Escape)
	default:
		return "expected a string literal"
	}
}

func (e *StringError) Span() Span {
	return e.span
}

// LiteralError holds the failures of both literal forms.
type LiteralError struct {
	Integer *IntegerError
	String  *StringError
}

func (e *LiteralError) Error() string {
	return "expected a literal"
}

func (e *LiteralError) Span() Span {
	return e.Integer.Span()
}

func (e *LiteralError) Unwrap() []error {
	return []error{e.Integer, e.String}
}

type IdentErrorKind uint8

const (
	IdentMissing IdentErrorKind = iota
	IdentReserved
)

type IdentError struct {
	Kind IdentErrorKind
	Name string
	span Span
}

func (e *IdentError) Error() string {
	if e.Kind == IdentReserved {
		return fmt.Sprintf("%q is reserved and cannot be used as an identifier", e.Name)
	}
	return "expected an identifier"
}

func (e *IdentError) Span() Span {
	return e.span
}

type OpErrorKind uint8

const (
	OpMissingLeadingSpace OpErrorKind = iota
	OpNoSymbol
	OpUnknownSymbol
	OpMissingTrailingSpace
)

type OpError struct {
	Kind  OpErrorKind
	Found rune
	span  Span
}

func (e *OpError) Error() string {
	switch e.Kind {
	case OpMissingLeadingSpace:
		return "expected whitespace before operator"
	case OpNoSymbol:
		return "expected an operator, found end of input"
	case OpUnknownSymbol:
		return fmt.Sprintf("unknown operator %q", e.Found)
	default:
		return "expected whitespace after operator"
	}
}

func (e *OpError) Span() Span {
	return e.span
}

type UnaryOpError struct {
	Found optional.Optional[rune]
	span  Span
}

func (e *UnaryOpError) Error() string {
	return fmt.Sprintf("expected '+' or '-', found %s", found(e.Found))
}

func (e *UnaryOpError) Span() Span {
	return e.span
}

// UnaryError has Op set when there was no operator and Operand set when the
// operand was missing or malformed.
type UnaryError struct {
	Op      *UnaryOpError
	Operand *TermError
}

func (e *UnaryError) Error() string {
	if e.Operand != nil {
		return "invalid operand of unary operator: " + e.Operand.Error()
	}
	return e.Op.Error()
}

func (e *UnaryError) Span() Span {
	if e.Operand != nil {
		return e.Operand.Span()
	}
	return e.Op.Span()
}

func (e *UnaryError) Unwrap() error {
	if e.Operand != nil {
		return e.Operand
	}
	return e.Op
}

type TupleErrorKind uint8

const (
	TupleMissingOpen TupleErrorKind = iota
	TupleElement
	TupleMissingClose
)

type TupleError struct {
	Kind  TupleErrorKind
	Cause error
}

func (e *TupleError) Error() string {
	switch e.Kind {
	case TupleMissingClose:
		return "unclosed parenthesis: " + e.Cause.Error()
	case TupleElement:
		return e.Cause.Error()
	default:
		return "expected '('"
	}
}

func (e *TupleError) Span() Span {
	return spanOf(e.Cause)
}

func (e *TupleError) Unwrap() error {
	return e.Cause
}

type BlockErrorKind uint8

const (
	BlockMissingOpen BlockErrorKind = iota
	BlockStmts
	BlockMissingClose
)

type BlockError struct {
	Kind  BlockErrorKind
	Cause error
}

func (e *BlockError) Error() string {
	switch e.Kind {
	case BlockMissingClose:
		return "unclosed block: " + e.Cause.Error()
	case BlockStmts:
		return e.Cause.Error()
	default:
		return "expected '{'"
	}
}

func (e *BlockError) Span() Span {
	return spanOf(e.Cause)
}

func (e *BlockError) Unwrap() error {
	return e.Cause
}

// TermError has a nil Cause when no alternative matched. Otherwise Cause is
// the fatal error of the alternative that committed. Literal holds the
// literal failure from the no-match case.
type TermError struct {
	Cause   error
	Literal *LiteralError
	span    Span
}

// malformed returns the integer error when the input began with a digit but
// was not a valid integer, such as `0x` or an out-of-range value.
func (e *TermError) malformed() *IntegerError {
	if e.Cause != nil || e.Literal == nil || e.Literal.Integer == nil {
		return nil
	}
	if e.Literal.Integer.Kind == IntegerNotDigit {
		return nil
	}
	return e.Literal.Integer
}

func (e *TermError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if ierr := e.malformed(); ierr != nil {
		return ierr.Error()
	}
	return "expected an expression"
}

func (e *TermError) Span() Span {
	if e.Cause != nil {
		return spanOf(e.Cause)
	}
	return e.span
}

func (e *TermError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	if ierr := e.malformed(); ierr != nil {
		return ierr
	}
	return nil
}

type ExprError struct {
	Term *TermError
}

func (e *ExprError) Error() string {
	return e.Term.Error()
}

func (e *ExprError) Span() Span {
	return e.Term.Span()
}

func (e *ExprError) Unwrap() error {
	return e.Term
}

type LetErrorKind uint8

const (
	LetKeyword LetErrorKind = iota
	LetSpacing
	LetName
	LetEq
	LetValue
)

type LetError struct {
	Kind  LetErrorKind
	Cause error
}

func (e *LetError) Error() string {
	switch e.Kind {
	case LetSpacing:
		return "expected whitespace after 'let'"
	case LetName:
		return "expected a name after 'let': " + e.Cause.Error()
	case LetEq:
		return "expected '=' in let binding: " + e.Cause.Error()
	case LetValue:
		return "expected a value in let binding: " + e.Cause.Error()
	default:
		return "expected 'let'"
	}
}

func (e *LetError) Span() Span {
	return spanOf(e.Cause)
}

func (e *LetError) Unwrap() error {
	return e.Cause
}

type StmtError struct {
	Cause error
}

func (e *StmtError) Error() string {
	return e.Cause.Error()
}

func (e *StmtError) Span() Span {
	return spanOf(e.Cause)
}

func (e *StmtError) Unwrap() error {
	return e.Cause
}

type StmtsError struct {
	Cause *parse.PuncturedError[*StmtError, parse.Never]
}

func (e *StmtsError) Error() string {
	return e.Cause.Error()
}

func (e *StmtsError) Span() Span {
	return e.Cause.Item.Span()
}

func (e *StmtsError) Unwrap() error {
	return e.Cause.Item
}

// UnexpectedInputError reports input left over after a complete parse.
type UnexpectedInputError struct {
	Found rune
	span  Span
}

func (e *UnexpectedInputError) Error() string {
	return fmt.Sprintf("unexpected %q", e.Found)
}

func (e *UnexpectedInputError) Span() Span {
	return e.span
}

// ParseError is returned by the top-level entry points. Kind tells whether
// the input failed to match or matched up to a fatal defect.
type ParseError struct {
	Kind  parse.Kind
	Cause Error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cause.Span().Start, e.Cause.Error())
}

func (e *ParseError) Span() Span {
	return e.Cause.Span()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func spanOf(err error) Span {
	if s, ok := err.(interface{ Span() Span }); ok {
		return s.Span()
	}
	return Span{}
}

// Innermost follows the chain of grammar errors below err and returns the
// deepest one. That is the error closest to the defect in the source.
func Innermost(err Error) Error {
	for {
		var next error
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			next = u.Unwrap()
		case interface{ Unwrap() []error }:
			if causes := u.Unwrap(); len(causes) > 0 {
				next = causes[0]
			}
		}
		inner, ok := next.(Error)
		if !ok {
			return err
		}
		err = inner
	}
}
