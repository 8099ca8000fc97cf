// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"context"
	"fmt"

	"gopkg.microglot.org/minilet.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

// Iterator is a single consumer sequence producer. Calls to Next may block
// while the next value is produced, for example while reading from a file.
type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

// Location is a position in source text. Line and Column are 1-based and
// Column counts code points. Offset is the byte offset from the start of the
// text.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// StartLocation is the location of the first code point of any text.
var StartLocation = Location{Line: 1, Column: 1}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindMinilet
)

func (k FileKind) String() string {
	switch k {
	case FileKindMinilet:
		return "minilet"
	case FileKindNone:
		return "none"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}
