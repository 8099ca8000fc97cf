// Package parse provides the outcome type shared by every grammar production
// and the generic combinators built on it.
//
// A production is a function from a Stream to a Result. A Result is exactly
// one of:
//
//   - Done: the production matched. Rest is the Stream after the consumed
//     text.
//   - Fail: the production did not match. The caller may rewind and try an
//     alternative.
//   - Fatal: the production committed to a match and then found a defect. No
//     alternative may be tried and the error propagates to the top-level
//     caller.
//
// The error types E and F are part of the Result type. Using Never for
// either declares that the outcome cannot happen.
package parse

import (
	"fmt"

	"gopkg.microglot.org/minilet.go/internal/stream"
)

type Kind uint8

const (
	KindDone Kind = iota
	KindFail
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindDone:
		return "done"
	case KindFail:
		return "fail"
	case KindFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

// Result is the outcome of a production. T is the value produced on Done, E
// the error on Fail and F the error on Fatal.
type Result[T any, E, F error] struct {
	kind  Kind
	value T
	err   E
	fatal F
	rest  stream.Stream
}

func Done[T any, E, F error](v T, rest stream.Stream) Result[T, E, F] {
	return Result[T, E, F]{kind: KindDone, value: v, rest: rest}
}

func Fail[T any, E, F error](err E, rest stream.Stream) Result[T, E, F] {
	return Result[T, E, F]{kind: KindFail, err: err, rest: rest}
}

func Fatal[T any, E, F error](err F, rest stream.Stream) Result[T, E, F] {
	return Result[T, E, F]{kind: KindFatal, fatal: err, rest: rest}
}

func (r Result[T, E, F]) Kind() Kind {
	return r.kind
}

// Value is the produced value. It is the zero value unless Kind is KindDone.
func (r Result[T, E, F]) Value() T {
	return r.value
}

// Err is the recoverable error. It is the zero value unless Kind is KindFail.
func (r Result[T, E, F]) Err() E {
	return r.err
}

// FatalErr is the unrecoverable error. It is the zero value unless Kind is
// KindFatal.
func (r Result[T, E, F]) FatalErr() F {
	return r.fatal
}

// Rest is the Stream left after the production. On Done it follows the
// consumed text. On Fail and Fatal it is wherever the production stopped;
// callers that try alternatives rewind explicitly.
func (r Result[T, E, F]) Rest() stream.Stream {
	return r.rest
}

// Must unpacks the result of a production that can neither fail nor go
// fatal.
func Must[T any](r Result[T, Never, Never]) (T, stream.Stream) {
	if r.kind != KindDone {
		Never{}.Unreachable()
	}
	return r.value, r.rest
}
