package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// ConfirmModel is the bubbletea model for a yes/no prompt. No is the
// default choice.
type ConfirmModel struct {
	prompt    string
	yes       bool
	confirmed bool
	done      bool
}

func newConfirmModel(prompt string) ConfirmModel {
	return ConfirmModel{prompt: prompt}
}

// Confirmed reports whether the user accepted the prompt
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.confirmed = false
		m.done = true
		return m, tea.Quit

	case tea.KeyEnter:
		m.confirmed = m.yes
		m.done = true
		return m, tea.Quit

	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		m.yes = !m.yes

	case tea.KeyRunes:
		switch strings.ToLower(string(key.Runes)) {
		case "y":
			m.yes, m.confirmed, m.done = true, true, true
			return m, tea.Quit
		case "n", "q":
			m.yes, m.confirmed, m.done = false, false, true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	yes, no := MutedStyle.Render("  Yes  "), MutedStyle.Render("  No  ")
	if m.yes {
		yes = SuccessStyle.Bold(true).Render("[ Yes ]")
	} else {
		no = ErrorStyle.Bold(true).Render("[ No ]")
	}

	var sb strings.Builder
	sb.WriteString(WarnStyle.Render("? "))
	sb.WriteString(HeaderStyle.Render(m.prompt))
	sb.WriteString("\n\n  ")
	sb.WriteString(yes)
	sb.WriteString("  ")
	sb.WriteString(no)
	sb.WriteString("\n\n")
	sb.WriteString(HintStyle.Render("  [y/n] [←/→:toggle] [Enter:choose] [Esc:cancel]"))
	sb.WriteString("\n")
	return sb.String()
}

// TerminalConfirmer asks for confirmation with an interactive prompt. It
// declines when the input is not a terminal.
type TerminalConfirmer struct {
	in     *os.File
	out    io.Writer
	logger *log.Logger
}

// NewTerminalConfirmer creates a confirmer reading keys from in and drawing to out
func NewTerminalConfirmer(in *os.File, out io.Writer, logger *log.Logger) *TerminalConfirmer {
	if logger == nil {
		logger = log.Default()
	}
	return &TerminalConfirmer{in: in, out: out, logger: logger}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Confirm runs the prompt and reports the user's choice
func (c *TerminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !IsTerminal(c.in) {
		c.logger.Warn("no terminal for confirmation, declining; use --force to proceed", "prompt", prompt)
		return false, nil
	}

	p := tea.NewProgram(newConfirmModel(prompt),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("error running confirmation prompt: %w", err)
	}

	return final.(ConfirmModel).Confirmed(), nil
}
