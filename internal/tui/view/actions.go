package view

import (
	"strings"

	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

// ActionKeys maps each action to the key that triggers it.
var ActionKeys = map[lifecycle.Action]string{
	lifecycle.ActionEdit:        "e",
	lifecycle.ActionPublish:     "p",
	lifecycle.ActionDelete:      "d",
	lifecycle.ActionViewResults: "v",
}

// ActionsState holds the state needed to render the action bar.
type ActionsState struct {
	// State is the lifecycle state of the selected quiz.
	State lifecycle.State

	// Selected is false when the list is empty.
	Selected bool

	// Busy disables every mutating action while one is in flight.
	Busy bool
}

// RenderActions lists the actions the selected quiz's state allows, in the
// order lifecycle.AllowedActions gives them. Mutating actions are dimmed
// while Busy.
func RenderActions(s *styles.Styles, state ActionsState) string {
	if !state.Selected {
		return ""
	}
	actions := lifecycle.AllowedActions(state.State)
	if len(actions) == 0 {
		return s.Muted.Render("Actions: none")
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		label := ActionKeys[a] + " " + a.Label()
		if state.Busy && a.Mutating() {
			parts = append(parts, s.ActionDisabled.Render(label))
		} else {
			parts = append(parts, s.ActionEnabled.Render(label))
		}
	}
	return s.Muted.Render("Actions: ") + strings.Join(parts, "  ")
}
