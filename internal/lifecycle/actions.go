package lifecycle

// Action is something a teacher can do to a quiz.
type Action string

const (
	ActionEdit        Action = "edit"
	ActionPublish     Action = "publish"
	ActionDelete      Action = "delete"
	ActionViewResults Action = "view_results"
)

// allowed is the action table. Order is the order actions are offered in.
var allowed = map[State][]Action{
	Draft:     {ActionEdit, ActionPublish, ActionDelete},
	Published: {ActionViewResults},
	Closed:    {ActionViewResults, ActionDelete},
}

// AllowedActions returns the actions permitted in state s.
// Unknown states permit nothing. The returned slice is owned by the caller.
func AllowedActions(s State) []Action {
	actions := allowed[s]
	if len(actions) == 0 {
		return []Action{}
	}
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// Permits reports whether action a is allowed in state s.
func Permits(s State, a Action) bool {
	for _, candidate := range allowed[s] {
		if candidate == a {
			return true
		}
	}
	return false
}

// Mutating reports whether the action changes server state and therefore
// has to pass through confirmation.
func (a Action) Mutating() bool {
	return a == ActionPublish || a == ActionDelete
}

// Label returns a short human-readable name for the action.
func (a Action) Label() string {
	switch a {
	case ActionEdit:
		return "Edit"
	case ActionPublish:
		return "Publish"
	case ActionDelete:
		return "Delete"
	case ActionViewResults:
		return "View results"
	default:
		return string(a)
	}
}

// TransitionAction maps a requested target state to the action that
// produces it. Only Published has a user-facing action.
func TransitionAction(target State) (Action, bool) {
	if target == Published {
		return ActionPublish, true
	}
	return "", false
}
