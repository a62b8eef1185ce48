package recipe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Bindings maps placeholder keys to the values the operator supplied.
// Constructed once per recipe run, then read-only during substitution of
// every step's command and working directory.
type Bindings map[string]string

// ErrUnresolved marks a {{key}} placeholder that survived substitution.
// Executing a command with dead placeholder text in it is almost
// certainly a mistake, so the step is aborted instead.
var ErrUnresolved = errors.New("unresolved placeholder")

var placeholderPattern = regexp.MustCompile(`\{\{[^{}]*\}\}`)

// Expand substitutes every literal {{key}} occurrence in the template
// with its bound value.  Any placeholder left over afterwards - a key
// nobody declared, or a typo - fails with ErrUnresolved naming it.
func (b Bindings) Expand(template string) (string, error) {
	out := template
	for key, value := range b {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	if leftover := placeholderPattern.FindString(out); leftover != "" {
		return "", fmt.Errorf("%w %s in %q", ErrUnresolved, leftover, template)
	}
	return out, nil
}
