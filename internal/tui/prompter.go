package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/wexinc/depsweep/internal/config"
	sweeperrors "github.com/wexinc/depsweep/internal/errors"
	"github.com/wexinc/depsweep/internal/install"
)

var (
	_ install.Prompter = (*TUIPrompter)(nil)
	_ install.Prompter = (*LinePrompter)(nil)
)

// Question returns the confirmation question asked for spec.
func Question(spec string) string {
	return fmt.Sprintf("Install %s?", spec)
}

// TUIPrompter asks each question with an inline bubbletea program.
type TUIPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTUIPrompter creates a TUIPrompter reading keys from in and rendering to out.
func NewTUIPrompter(in io.Reader, out io.Writer) *TUIPrompter {
	return &TUIPrompter{in: in, out: out}
}

// Confirm runs the prompt until it is answered or ctx is cancelled.
func (p *TUIPrompter) Confirm(ctx context.Context, spec string) (bool, error) {
	program := tea.NewProgram(
		NewConfirmModel(Question(spec)),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		return false, sweeperrors.PromptFailed(spec, err)
	}

	m, ok := final.(ConfirmModel)
	if !ok {
		return false, sweeperrors.PromptFailed(spec, fmt.Errorf("unexpected model %T", final))
	}
	return m.Answer(), nil
}

// LinePrompter asks each question on one line and reads one line back.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm writes the question and reads the answer. End of input without an
// answer is an error; the caller treats it as "no".
func (p *LinePrompter) Confirm(ctx context.Context, spec string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, sweeperrors.PromptFailed(spec, err)
	}

	fmt.Fprintf(p.out, "%s [y/N] ", Question(spec))

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
		fmt.Fprintln(p.out)
		return false, sweeperrors.PromptFailed(spec, err)
	}
	return IsAffirmative(line), nil
}

// NewPrompter picks a prompt implementation for mode. In auto mode the TUI is
// used only when in is a terminal.
func NewPrompter(mode config.PromptMode, in io.Reader, out io.Writer) install.Prompter {
	switch mode {
	case config.PromptModeTUI:
		return NewTUIPrompter(in, out)
	case config.PromptModeLine:
		return NewLinePrompter(in, out)
	default:
		if IsTerminal(in) {
			return NewTUIPrompter(in, out)
		}
		return NewLinePrompter(in, out)
	}
}

// IsTerminal reports whether r is a terminal device.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
