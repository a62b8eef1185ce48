package tui

import (
	"fmt"
	"io"
	"strings"
)

// StyledConsole renders progress lines so they stand apart from the raw
// child-process output interleaved around them.  It implements
// prepkit.Console.
type StyledConsole struct {
	Out io.Writer
}

// NewStyledConsole returns a console writing styled lines to w.
func NewStyledConsole(w io.Writer) *StyledConsole {
	return &StyledConsole{Out: w}
}

// Line styles and writes one progress line.  Failure reports are styled
// to stand out; everything else gets the status color.
func (c *StyledConsole) Line(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	style := statusStyle
	switch {
	case strings.Contains(line, "failed") || strings.Contains(line, "Aborting"):
		style = errorStyle
	case strings.HasPrefix(line, "Step "):
		style = titleStyle
	}
	fmt.Fprintln(c.Out, style.Render(line))
}
