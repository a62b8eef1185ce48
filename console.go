package prepkit

import (
	"fmt"
	"io"
)

// Console is the progress-reporting sink handed to components that need to
// tell the operator what is happening.  It is deliberately tiny so callers
// can wrap any destination: a styled terminal, a log file, a test buffer.
// There is no package-level console; every component gets one injected.
type Console interface {
	// Line reports one formatted line of progress.
	Line(format string, args ...any)
}

// WriterConsole is a Console that writes unstyled lines to a Writer.
type WriterConsole struct {
	Out io.Writer
}

// NewWriterConsole returns a Console writing plain lines to w.
func NewWriterConsole(w io.Writer) *WriterConsole {
	return &WriterConsole{Out: w}
}

// Line writes the formatted line followed by a linefeed.
func (c *WriterConsole) Line(format string, args ...any) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

// quietConsole discards everything.  Used when no Console is injected.
type quietConsole struct{}

func (quietConsole) Line(string, ...any) {}
