package target

import (
	"net/url"
	"path/filepath"
)

// Stdin is the target name that selects standard input.
const Stdin = "-"

// Normalize processes a given source target and converts it into a standard
// form.
//
// Targets may be any valid URI or file path. When the target is a file path
// or a file URI then the path is converted to an absolute form rooted at "/"
// so that it resolves against each search root. All non-file URIs and the
// Stdin marker are left as-is.
func Normalize(target string) string {
	if target == Stdin {
		return target
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return filepath.Clean(target)
}

// IsStdin reports whether the target selects standard input.
func IsStdin(target string) bool {
	return target == Stdin
}
