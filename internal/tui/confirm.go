// Package tui provides the interactive confirmation prompt for depsweep.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/depsweep/internal/tui/styles"
)

// ConfirmModel is a single yes/no question answered in a text field.
// Enter submits the typed answer; Esc and Ctrl+C answer no.
type ConfirmModel struct {
	question  string
	input     textinput.Model
	done      bool
	answer    bool
	cancelled bool
}

// NewConfirmModel creates a ConfirmModel asking question.
func NewConfirmModel(question string) ConfirmModel {
	ti := textinput.New()
	ti.Placeholder = "y/N"
	ti.CharLimit = 16
	ti.Width = 8
	ti.Prompt = "› "
	ti.Focus()

	return ConfirmModel{
		question: question,
		input:    ti,
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			m.answer = IsAffirmative(m.input.Value())
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.done = true
			m.cancelled = true
			m.answer = false
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	var b strings.Builder

	b.WriteString(styles.PromptStyle.Render(m.question))
	b.WriteString(" ")

	if m.done {
		if m.answer {
			b.WriteString(styles.SuccessTextStyle.Render("yes"))
		} else {
			b.WriteString(styles.MutedTextStyle.Render("no"))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(
		styles.KeyStyle.Render("enter") + " submit  " + styles.KeyStyle.Render("esc") + " skip",
	))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether the question has been answered.
func (m ConfirmModel) Done() bool {
	return m.done
}

// Answer reports whether the user answered yes.
func (m ConfirmModel) Answer() bool {
	return m.answer
}

// Cancelled reports whether the prompt was dismissed with Esc or Ctrl+C.
func (m ConfirmModel) Cancelled() bool {
	return m.cancelled
}

// Value returns the text typed so far.
func (m ConfirmModel) Value() string {
	return m.input.Value()
}

// IsAffirmative reports whether answer means yes: "y" or "yes", any case,
// surrounding whitespace ignored. Everything else means no.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
