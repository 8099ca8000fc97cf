// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.microglot.org/minilet.go/internal/idl"
	"gopkg.microglot.org/minilet.go/internal/optional"
)

// DefaultChunkSize is the read size used when NewTextFileBody is given a
// non-positive size.
const DefaultChunkSize = 4096

// NewTextFileBody converts a FileBody into an iterator of text chunks. Every
// chunk ends on a code point boundary so that no code point is split across
// two chunks. Reads are performed lazily, one per call to Next, using the
// context given to Next.
func NewTextFileBody(b idl.FileBody, size int) idl.Iterator[string] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &textFileBody{
		body: b,
		size: int32(size),
	}
}

type textFileBody struct {
	body    idl.FileBody
	size    int32
	pending []byte
	done    bool
	err     error
}

func (f *textFileBody) Next(ctx context.Context) optional.Optional[string] {
	for !f.done {
		b, err := f.body.Read(ctx, f.size)
		if err != nil && !errors.Is(err, io.EOF) {
			f.err = err
			f.done = true
			break
		}
		if errors.Is(err, io.EOF) {
			f.done = true
		}
		data := append(f.pending, b...)
		cut := len(data)
		if !f.done {
			cut = completePrefix(data)
		}
		f.pending = append([]byte(nil), data[cut:]...)
		if cut > 0 {
			return optional.Some(string(data[:cut]))
		}
	}
	return optional.None[string]()
}

func (f *textFileBody) Close(ctx context.Context) error {
	_ = f.body.Close(ctx)
	return f.err
}

// completePrefix returns the length of the longest prefix of b that does not
// end inside a multi-byte code point.
func completePrefix(b []byte) int {
	for back := 1; back <= utf8.UTFMax && back <= len(b); back = back + 1 {
		start := len(b) - back
		if !utf8.RuneStart(b[start]) {
			continue
		}
		if utf8.FullRune(b[start:]) {
			return len(b)
		}
		return start
	}
	return len(b)
}
