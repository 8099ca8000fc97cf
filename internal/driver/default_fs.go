// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"path/filepath"
	"strings"

	"gopkg.microglot.org/minilet.go/internal/fs"
	"gopkg.microglot.org/minilet.go/internal/idl"
)

// PathEnv lists extra search roots, separated like PATH.
const PathEnv = "MINILET_PATH"

// NewDefaultFS returns the search roots from PathEnv followed by the
// platform data directories.
func NewDefaultFS(lookup func(string) (string, bool)) (idl.FileSystem, error) {
	return NewRootsFS(DefaultRoots(lookup))
}

// DefaultRoots returns the roots named by PathEnv followed by the platform
// data directories.
func DefaultRoots(lookup func(string) (string, bool)) []string {
	var roots []string
	if extra, ok := lookup(PathEnv); ok {
		for _, root := range strings.Split(extra, string(filepath.ListSeparator)) {
			if root != "" {
				roots = append(roots, root)
			}
		}
	}
	return append(roots, getDefaultRoots(lookup)...)
}

// NewRootsFS returns a file system that tries each root in order.
func NewRootsFS(roots []string, options ...fs.FileSystemLocalOption) (idl.FileSystem, error) {
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot, options...)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
