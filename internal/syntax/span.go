// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	"fmt"

	"gopkg.microglot.org/minilet.go/internal/idl"
)

// Span is the region of source text covered by a node, token, or error. End
// is exclusive.
type Span struct {
	Start idl.Location
	End   idl.Location
}

func NewSpan(start idl.Location, end idl.Location) Span {
	return Span{Start: start, End: end}
}

// Points returns a zero-width span at loc.
func Points(loc idl.Location) Span {
	return Span{Start: loc, End: loc}
}

// Cover returns the span from the start of first to the end of last.
func Cover(first Span, last Span) Span {
	return Span{Start: first.Start, End: last.End}
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Text returns the part of source covered by the span. The source must be
// the complete text the span was measured against.
func (s Span) Text(source string) string {
	start, end := s.Start.Offset, s.End.Offset
	if start < 0 || end > int64(len(source)) || start > end {
		return ""
	}
	return source[start:end]
}

func (s Span) String() string {
	if s.IsEmpty() {
		return s.Start.String()
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Node is implemented by every syntax tree element.
type Node interface {
	Span() Span
}
