// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package stream implements a rewindable, position-tracked view over source
// text that may be supplied incrementally.
//
// A Stream is a value. Advancing returns a new Stream and leaves the old one
// untouched, so a copy of a Stream is a checkpoint that can be returned to at
// any time. The text itself lives in a buffer shared by every Stream derived
// from the same source. The buffer only ever grows, by pulling chunks from
// the source iterator on demand, so older Streams remain valid.
//
// The buffer is not safe for concurrent use. A source and all Streams derived
// from it belong to a single parse.
package stream

import (
	"context"
	"strings"
	"unicode/utf8"

	"gopkg.microglot.org/minilet.go/internal/idl"
	"gopkg.microglot.org/minilet.go/internal/iter"
	"gopkg.microglot.org/minilet.go/internal/optional"
)

type source struct {
	chunks idl.Iterator[string]
	buf    []string
	done   bool
}

// fill pulls one more chunk from the underlying iterator. It reports whether
// a chunk was added.
func (s *source) fill(ctx context.Context) bool {
	if s.done {
		return false
	}
	next := s.chunks.Next(ctx)
	if !next.IsPresent() {
		s.done = true
		return false
	}
	s.buf = append(s.buf, next.Value())
	return true
}

// Stream is a cursor over the text that remains to be parsed.
type Stream struct {
	src   *source
	chunk int
	pos   int
	loc   idl.Location
}

// New creates a Stream over the chunks produced by the given iterator. Empty
// chunks are skipped. Chunks are expected to end on code point boundaries.
func New(chunks idl.Iterator[string]) Stream {
	return Stream{
		src: &source{chunks: iter.NewIteratorFilter(chunks, iter.NonEmpty())},
		loc: idl.StartLocation,
	}
}

// NewString creates a Stream over text that is already in memory.
func NewString(text string) Stream {
	return New(iter.NewSlice([]string{text}))
}

// Location returns the position of the next code point.
func (s Stream) Location() idl.Location {
	return s.loc
}

// Anchor captures the current position.
func (s Stream) Anchor() Anchor {
	return Anchor{stream: s}
}

// Rewind returns the Stream captured by the anchor. The anchor must have been
// taken from s or from a Stream that s was advanced from.
func (s Stream) Rewind(a Anchor) Stream {
	return a.stream
}

// current returns the unread part of the current chunk, pulling from the
// source when the cursor sits at the end of the buffered text. It returns
// false at end of input.
func (s *Stream) current(ctx context.Context) (string, bool) {
	for {
		if s.chunk < len(s.src.buf) {
			text := s.src.buf[s.chunk]
			if s.pos < len(text) {
				return text[s.pos:], true
			}
			if s.chunk+1 < len(s.src.buf) || s.src.fill(ctx) {
				s.chunk = s.chunk + 1
				s.pos = 0
				continue
			}
			return "", false
		}
		if !s.src.fill(ctx) {
			return "", false
		}
	}
}

// Next returns the next code point and the Stream after it. The boolean is
// false at end of input, in which case the returned Stream is s.
func (s Stream) Next(ctx context.Context) (rune, Stream, bool) {
	rest := s
	text, ok := rest.current(ctx)
	if !ok {
		return 0, s, false
	}
	r, size := utf8.DecodeRuneInString(text)
	rest.pos = rest.pos + size
	rest.loc = step(rest.loc, r, size)
	return r, rest, true
}

// Advance consumes n code points. If fewer than n remain the Stream stops at
// end of input.
func (s Stream) Advance(ctx context.Context, n int) Stream {
	rest := s
	for n > 0 {
		text, ok := rest.current(ctx)
		if !ok {
			break
		}
		offset := 0
		for offset < len(text) && n > 0 {
			r, size := utf8.DecodeRuneInString(text[offset:])
			rest.loc = step(rest.loc, r, size)
			offset = offset + size
			n = n - 1
		}
		rest.pos = rest.pos + offset
	}
	return rest
}

// AtEnd reports whether no input remains.
func (s Stream) AtEnd(ctx context.Context) bool {
	_, ok := s.current(ctx)
	return !ok
}

// Segments returns the remaining text as a sequence of contiguous chunks,
// starting at the current position. The text is not copied. Each call starts
// over from the current position.
func (s Stream) Segments() idl.Iterator[string] {
	return &segments{stream: s, first: true}
}

// Buffered returns all text pulled from the source so far, including text
// before the current position.
func (s Stream) Buffered() string {
	return strings.Join(s.src.buf, "")
}

type segments struct {
	stream Stream
	first  bool
}

func (it *segments) Next(ctx context.Context) optional.Optional[string] {
	if !it.first && it.stream.chunk < len(it.stream.src.buf) {
		it.stream.pos = len(it.stream.src.buf[it.stream.chunk])
	}
	it.first = false
	text, ok := it.stream.current(ctx)
	if !ok {
		return optional.None[string]()
	}
	return optional.Some(text)
}

func (it *segments) Close(ctx context.Context) error {
	return nil
}

// Anchor is a checkpoint created by Stream.Anchor.
type Anchor struct {
	stream Stream
}

// Location returns the position captured by the anchor.
func (a Anchor) Location() idl.Location {
	return a.stream.loc
}

func step(loc idl.Location, r rune, size int) idl.Location {
	loc.Offset = loc.Offset + int64(size)
	if r == '\n' {
		loc.Line = loc.Line + 1
		loc.Column = 1
		return loc
	}
	loc.Column = loc.Column + 1
	return loc
}
