// Package confirm implements the request/confirm/cancel protocol that holds a
// mutating command until the teacher explicitly acknowledges it.
//
// The gate owns no business logic. It stores at most one Request, hands its
// Command out at most once, and refuses to confirm or cancel while the
// injected Guard reports a mutation in flight.
package confirm

import (
	"fmt"

	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
)

// Operation identifies the gateway call a Command performs.
type Operation int

const (
	// OpSetStatus moves a quiz to Command.Target.
	OpSetStatus Operation = iota + 1
	// OpDelete removes a quiz.
	OpDelete
)

// String returns the operation name used in logs.
func (o Operation) String() string {
	switch o {
	case OpSetStatus:
		return "set_status"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Command is the deferred mutation held by a Request.
type Command struct {
	Op     Operation
	QuizID string
	// Target is only meaningful for OpSetStatus.
	Target lifecycle.State
}

// String renders the command for logs and test failures.
func (c Command) String() string {
	if c.Op == OpSetStatus {
		return fmt.Sprintf("%s(%s -> %s)", c.Op, c.QuizID, c.Target)
	}
	return fmt.Sprintf("%s(%s)", c.Op, c.QuizID)
}

// Request is a pending confirmation.
type Request struct {
	Title   string
	Message string
	Command Command
	// Destructive marks irreversible requests; it only affects rendering.
	Destructive bool
}

// Guard reports whether a mutation is currently executing anywhere in the
// coordinator that owns the gate.
type Guard interface {
	InFlight() bool
}

// GuardFunc adapts a function to Guard.
type GuardFunc func() bool

// InFlight implements Guard.
func (f GuardFunc) InFlight() bool { return f() }

// Gate holds at most one pending Request.
//
// Gate is not safe for concurrent use; it is driven from the UI event loop.
type Gate struct {
	guard    Guard
	pending  *Request
	consumed bool
}

// NewGate creates a closed gate. A nil guard never reports a mutation in flight.
func NewGate(guard Guard) *Gate {
	if guard == nil {
		guard = GuardFunc(func() bool { return false })
	}
	return &Gate{guard: guard}
}

// Request opens the gate with req, replacing any request that has not been
// confirmed yet. It fails while a mutation is in flight.
func (g *Gate) Request(req Request) error {
	if g.guard.InFlight() {
		return errors.ErrMutationInFlight
	}
	r := req
	g.pending = &r
	g.consumed = false
	return nil
}

// Confirm hands out the pending command. It returns false, and does nothing,
// when the gate is closed, the command was already handed out, or a mutation
// is in flight.
func (g *Gate) Confirm() (Command, bool) {
	if g.pending == nil || g.consumed || g.guard.InFlight() {
		return Command{}, false
	}
	g.consumed = true
	return g.pending.Command, true
}

// Cancel closes the gate without handing out the command.
func (g *Gate) Cancel() error {
	if g.pending == nil {
		return errors.ErrNoPendingConfirmation
	}
	if g.consumed || g.guard.InFlight() {
		return errors.ErrCancelDuringMutation
	}
	g.pending = nil
	return nil
}

// Close closes the gate after the confirmed command's outcome is recorded.
func (g *Gate) Close() {
	g.pending = nil
	g.consumed = false
}

// IsOpen reports whether a request is pending or awaiting its outcome.
func (g *Gate) IsOpen() bool {
	return g.pending != nil
}

// Awaiting reports whether the pending command has been handed out and the
// gate is waiting for its outcome.
func (g *Gate) Awaiting() bool {
	return g.pending != nil && g.consumed
}

// Pending returns a copy of the open request.
func (g *Gate) Pending() (Request, bool) {
	if g.pending == nil {
		return Request{}, false
	}
	return *g.pending, true
}
