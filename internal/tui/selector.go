// Package tui provides the interactive picker shown when a display name
// matches more than one remote field.
package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"brassworks.dev/fieldsmith/internal/field"
)

// ErrCanceled is returned when the user leaves the picker without choosing.
var ErrCanceled = errors.New("selection canceled")

type model struct {
	name     string
	choices  []field.Field
	cursor   int
	selected bool
	canceled bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	s := fmt.Sprintf("%q matches several fields, pick one:\n\n", m.name)
	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s  %s\n", cursor, choice.ID, choice.Name)
	}
	s += "\n(enter to select, q to abort)\n"
	return s
}

// SelectField lets the user pick one field among ambiguous name matches.
func SelectField(name string, candidates []field.Field) (*field.Field, error) {
	p := tea.NewProgram(model{name: name, choices: candidates})
	out, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := out.(model)
	if m.canceled {
		return nil, ErrCanceled
	}
	chosen := m.choices[m.cursor]
	return &chosen, nil
}
