// Package diag renders exceptions as human readable reports with an excerpt
// of the source they point at.
package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"gopkg.microglot.org/minilet.go/internal/exc"
)

// Level is the severity shown in the header of a report.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Renderer formats exceptions.
type Renderer struct {
	level  map[Level]*color.Color
	marker map[Level]*color.Color
	bold   *color.Color
	dim    *color.Color
}

// NewRenderer returns a Renderer for the given color mode, one of "auto",
// "always" or "never". In "auto" mode colors follow the terminal detection of
// the color package.
func NewRenderer(mode string) *Renderer {
	r := &Renderer{
		level: map[Level]*color.Color{
			LevelError:   color.New(color.FgRed, color.Bold),
			LevelWarning: color.New(color.FgYellow, color.Bold),
		},
		marker: map[Level]*color.Color{
			LevelError:   color.New(color.FgRed, color.Bold),
			LevelWarning: color.New(color.FgYellow, color.Bold),
		},
		bold: color.New(color.Bold),
		dim:  color.New(color.Faint),
	}
	for _, c := range r.all() {
		switch mode {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		}
	}
	return r
}

func (r *Renderer) all() []*color.Color {
	out := []*color.Color{r.bold, r.dim}
	for _, c := range r.level {
		out = append(out, c)
	}
	for _, c := range r.marker {
		out = append(out, c)
	}
	return out
}

// Render formats e as a report. The source is the text of the file named by
// the exception location. When source does not contain the line the
// excerpt is left out.
func (r *Renderer) Render(level Level, e exc.Exception, source string) string {
	var b strings.Builder
	loc := e.Location()

	fmt.Fprintf(&b, "%s[%s]: %s\n", r.level[level].Sprint(string(level)), e.Code(), e.Message())
	lines := strings.Split(source, "\n")
	line := int(loc.Line)
	if line < 1 || line > len(lines) {
		fmt.Fprintf(&b, "%s %s\n", r.dim.Sprint("-->"), loc)
		return b.String()
	}

	width := len(fmt.Sprint(line))
	indent := strings.Repeat(" ", width)
	bar := r.dim.Sprint("|")
	text := strings.TrimSuffix(lines[line-1], "\r")

	fmt.Fprintf(&b, "%s %s %s\n", indent, r.dim.Sprint("-->"), loc)
	fmt.Fprintf(&b, "%s %s\n", indent, bar)
	fmt.Fprintf(&b, "%s %s %s\n", r.bold.Sprintf("%*d", width, line), bar, text)
	fmt.Fprintf(&b, "%s %s %s%s\n", indent, bar, padding(text, int(loc.Column)), r.marker[level].Sprint(strings.Repeat("^", markerLength(loc, text))))
	return b.String()
}

// Write renders every exception to w. Sources are looked up by URI.
func (r *Renderer) Write(w io.Writer, level Level, es []exc.Exception, sources map[string]string) error {
	for _, e := range es {
		if _, err := io.WriteString(w, r.Render(level, e, sources[e.Location().URI])); err != nil {
			return err
		}
	}
	return nil
}

// padding reproduces the whitespace before column so that the marker lines
// up under tabs.
func padding(text string, column int) string {
	var b strings.Builder
	for offset, r := range []rune(text) {
		if offset >= column-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
			continue
		}
		b.WriteByte(' ')
	}
	for n := utf8.RuneCountInString(text); n < column-1; n = n + 1 {
		b.WriteByte(' ')
	}
	return b.String()
}

// markerLength covers the span when it ends on the same line and is one
// otherwise.
func markerLength(loc exc.Location, text string) int {
	if !loc.HasSpan() || loc.End.Line != loc.Line {
		return 1
	}
	n := int(loc.End.Column - loc.Column)
	if rest := utf8.RuneCountInString(text) - int(loc.Column) + 1; n > rest && rest > 0 {
		n = rest
	}
	if n < 1 {
		return 1
	}
	return n
}
