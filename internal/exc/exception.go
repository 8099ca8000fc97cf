// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"fmt"

	"gopkg.microglot.org/minilet.go/internal/idl"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location identifies the text an exception refers to. End is the zero value
// when the exception points at a single position or at a whole file.
type Location struct {
	idl.Location
	End idl.Location
	URI string
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.URI, l.Line, l.Column)
}

// HasSpan reports whether End is set and does not precede the start.
func (l Location) HasSpan() bool {
	return l.End.Line > 0 && l.End.Offset >= l.Offset
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	return fmt.Sprintf("%s -- %s: %s", e.location, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// CodeOf returns the code of the first Exception in the chain of err or the
// empty string if there is none.
func CodeOf(err error) string {
	var e Exception
	if errors.As(err, &e) {
		return e.Code()
	}
	return ""
}
