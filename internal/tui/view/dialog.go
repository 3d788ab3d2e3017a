package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/quizdesk/internal/confirm"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

// DialogState holds the state needed to render the confirmation dialog.
type DialogState struct {
	Request confirm.Request

	// Busy is true once the request was confirmed and the mutation is
	// running. Both buttons render disabled.
	Busy bool

	// Spinner is the current spinner frame, shown while busy.
	Spinner string

	Width int
}

// RenderDialog renders a pending confirmation request.
func RenderDialog(s *styles.Styles, state DialogState) string {
	frame := s.Dialog
	confirmBtn := s.Button
	confirmLabel := "Confirm"
	if state.Request.Destructive {
		frame = s.DialogDestructive
		confirmBtn = s.ButtonDanger
		confirmLabel = "Delete"
	}

	cancel := s.Button.Render("esc Cancel")
	ok := confirmBtn.Render("enter " + confirmLabel)
	if state.Busy {
		cancel = s.ButtonDisabled.Render("esc Cancel")
		ok = s.ButtonDisabled.Render(state.Spinner + " Working…")
	}

	width := state.Width - 4
	if width > 64 {
		width = 64
	}
	if width < 24 {
		width = 24
	}

	var b strings.Builder
	b.WriteString(s.Title.UnsetMarginBottom().Render(state.Request.Title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(state.Request.Message))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, ok, "  ", cancel))

	return frame.Render(b.String())
}
