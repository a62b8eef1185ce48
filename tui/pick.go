// Package tui is the operator-facing side of prepkit: picking a recipe,
// collecting argument values, and styling progress output.  The engine
// itself knows nothing about any of this; it only sees the values and
// sinks chosen here.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jregan/prepkit/recipe"
)

// ErrAborted means the operator backed out without choosing.
var ErrAborted = errors.New("aborted by operator")

// recipeItem wraps a Recipe for the list display.
type recipeItem struct {
	name  string
	steps int
}

func (i recipeItem) Title() string { return i.name }
func (i recipeItem) Description() string {
	if i.steps == 1 {
		return "1 step"
	}
	return fmt.Sprintf("%d steps", i.steps)
}
func (i recipeItem) FilterValue() string { return i.name }

type pickModel struct {
	list    list.Model
	choice  string
	aborted bool
}

func newPickModel(recipes []recipe.Recipe) pickModel {
	items := make([]list.Item, len(recipes))
	for i, r := range recipes {
		items[i] = recipeItem{name: r.Name, steps: len(r.Commands)}
	}
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	l := list.New(items, delegate, 0, 0)
	l.Title = "Which recipe would you like to run?"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return pickModel{list: l}
}

func (m pickModel) Init() tea.Cmd { return nil }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		// Leave plain keys alone while the operator is typing a filter.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(recipeItem); ok {
				m.choice = item.name
				return m, tea.Quit
			}
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickModel) View() string {
	return m.list.View()
}

// SelectRecipe shows the recipe list and returns the chosen name, or
// ErrAborted if the operator cancelled.
func SelectRecipe(recipes []recipe.Recipe) (string, error) {
	final, err := tea.NewProgram(newPickModel(recipes)).Run()
	if err != nil {
		return "", fmt.Errorf("recipe selection - %w", err)
	}
	m := final.(pickModel)
	if m.aborted || m.choice == "" {
		return "", ErrAborted
	}
	return m.choice, nil
}
