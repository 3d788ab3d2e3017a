// Package lifecycle defines the quiz state machine: the closed set of states,
// the actions each state permits and the display metadata used to render them.
//
// Everything in this package is a pure function of its inputs. Unknown states
// never cause a panic; they permit no actions and render in their own
// "unknown" category so the quiz stays visible.
package lifecycle

import "strings"

// State is the lifecycle state of a quiz.
type State string

const (
	// Draft quizzes are editable and invisible to students.
	Draft State = "draft"
	// Published quizzes are visible to students and accept submissions.
	Published State = "published"
	// Closed quizzes no longer accept submissions.
	Closed State = "closed"
)

// States returns every known state in lifecycle order.
func States() []State {
	return []State{Draft, Published, Closed}
}

// ParseState normalizes a wire or user supplied state name.
// Matching is case-insensitive; unrecognized values are returned trimmed
// but otherwise unchanged so callers can still display them.
func ParseState(s string) State {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case string(Draft):
		return Draft
	case string(Published):
		return Published
	case string(Closed):
		return Closed
	default:
		return State(trimmed)
	}
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case Draft, Published, Closed:
		return true
	default:
		return false
	}
}

// String returns the wire value of the state.
func (s State) String() string {
	return string(s)
}

// CanTransition reports whether a quiz may be moved from one state to
// another by a user request. Only drafts can be published; closing happens
// on the server when a quiz's window ends.
func CanTransition(from, to State) bool {
	return from == Draft && to == Published
}

// CanStoreTransition reports whether a store should accept a status change.
// Stores additionally allow Published -> Closed, which the server performs on
// its own schedule.
func CanStoreTransition(from, to State) bool {
	if CanTransition(from, to) {
		return true
	}
	return from == Published && to == Closed
}
