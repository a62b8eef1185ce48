package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jregan/prepkit/recipe"
)

// ErrEmptyArgument means the operator submitted an empty value.  The run
// aborts before any command executes; a blank substituted into a shell
// command is never what anyone wanted.
var ErrEmptyArgument = errors.New("argument value cannot be empty")

// askModel prompts for each declared argument in order, one text input
// at a time.
type askModel struct {
	args    []recipe.ArgDecl
	input   textinput.Model
	current int
	values  recipe.Bindings
	aborted bool
	empty   bool
}

func newAskModel(args []recipe.ArgDecl) askModel {
	ti := textinput.New()
	ti.PromptStyle = promptStyle
	ti.Focus()
	return askModel{
		args:   args,
		input:  ti,
		values: recipe.Bindings{},
	}
}

func (m askModel) Init() tea.Cmd { return textinput.Blink }

func (m askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				m.empty = true
				return m, tea.Quit
			}
			m.values[m.args[m.current].Key] = value
			m.current++
			if m.current >= len(m.args) {
				return m, tea.Quit
			}
			m.input.Reset()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m askModel) View() string {
	if m.current >= len(m.args) {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n",
		titleStyle.Render(m.args[m.current].Prompt),
		m.input.View(),
		helpStyle.Render("enter to confirm, esc to abort"))
}

// AskArgs prompts the operator for every declared argument, in declaration
// order, and returns the resolved bindings.  An empty value aborts with
// ErrEmptyArgument; cancelling aborts with ErrAborted.
func AskArgs(args []recipe.ArgDecl) (recipe.Bindings, error) {
	if len(args) == 0 {
		return recipe.Bindings{}, nil
	}
	final, err := tea.NewProgram(newAskModel(args)).Run()
	if err != nil {
		return nil, fmt.Errorf("argument prompt - %w", err)
	}
	m := final.(askModel)
	if m.aborted {
		return nil, ErrAborted
	}
	if m.empty {
		return nil, ErrEmptyArgument
	}
	return m.values, nil
}
