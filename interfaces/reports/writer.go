package reports

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// docWriter accumulates the first write error so report bodies can be
// written without checking every call.
type docWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (d *docWriter) raw(s string) {
	if d.err != nil {
		return
	}
	_, d.err = io.WriteString(d.w, s)
}

// text writes HTML-escaped content.
func (d *docWriter) text(s string) {
	d.raw(templ.EscapeString(s))
}

// rawf writes formatted trusted markup. Arguments must already be escaped.
func (d *docWriter) rawf(format string, args ...any) {
	d.raw(fmt.Sprintf(format, args...))
}

// href returns a sanitised, attribute-safe link target.
func href(link string) string {
	return templ.EscapeString(string(templ.URL(link)))
}
