// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"

	"gopkg.microglot.org/minilet.go/internal/exc"
	"gopkg.microglot.org/minilet.go/internal/idl"
)

func bodyFromIO(path string, v io.ReadCloser) idl.FileBody {
	return &ioFileBody{path: path, rc: v}
}

// ioFileBody reads from an io.ReadCloser. End of input is reported as an
// exception with CodeEOF that wraps io.EOF.
type ioFileBody struct {
	path string
	rc   io.ReadCloser
	b    []byte
}

func (self *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, exc.Wrap(exc.Location{URI: self.path}, exc.CodeFileReadError, err)
	}
	if len(self.b) < int(size) {
		self.b = make([]byte, size)
	}
	count, err := self.rc.Read(self.b[:size])
	if err != nil && err != io.EOF {
		return nil, exc.Wrap(exc.Location{URI: self.path}, exc.CodeFileReadError, err)
	}
	if err == io.EOF {
		return self.b[:count], exc.Wrap(exc.Location{URI: self.path}, exc.CodeEOF, err)
	}
	return self.b[:count], nil
}

func (self *ioFileBody) Close(ctx context.Context) error {
	return self.rc.Close()
}
