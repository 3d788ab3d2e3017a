package confirm

import (
	"testing"

	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
)

type flag struct{ on bool }

func (f *flag) InFlight() bool { return f.on }

func publishReq(id string) Request {
	return Request{
		Title:   "Publish quiz?",
		Command: Command{Op: OpSetStatus, QuizID: id, Target: lifecycle.Published},
	}
}

func deleteReq(id string) Request {
	return Request{
		Title:       "Delete quiz?",
		Command:     Command{Op: OpDelete, QuizID: id},
		Destructive: true,
	}
}

func TestGate_ConfirmWithoutRequestIsNoop(t *testing.T) {
	g := NewGate(nil)

	if _, ok := g.Confirm(); ok {
		t.Fatal("Confirm() on a closed gate should be a no-op")
	}
	if g.IsOpen() {
		t.Error("gate should stay closed")
	}
}

func TestGate_ConfirmHandsOutCommandOnce(t *testing.T) {
	g := NewGate(nil)
	if err := g.Request(publishReq("q1")); err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	cmd, ok := g.Confirm()
	if !ok {
		t.Fatal("first Confirm() should succeed")
	}
	if cmd.QuizID != "q1" || cmd.Op != OpSetStatus || cmd.Target != lifecycle.Published {
		t.Errorf("Confirm() = %v", cmd)
	}
	if !g.IsOpen() || !g.Awaiting() {
		t.Error("gate stays open awaiting the outcome after Confirm()")
	}

	if _, ok := g.Confirm(); ok {
		t.Error("second Confirm() must not hand out the command again")
	}

	g.Close()
	if g.IsOpen() {
		t.Error("Close() should close the gate")
	}
}

func TestGate_LastRequestWins(t *testing.T) {
	g := NewGate(nil)
	_ = g.Request(publishReq("q3"))
	_ = g.Request(deleteReq("q3"))

	req, ok := g.Pending()
	if !ok || !req.Destructive {
		t.Fatalf("Pending() = %+v, %v; want the delete request", req, ok)
	}

	cmd, ok := g.Confirm()
	if !ok || cmd.Op != OpDelete {
		t.Errorf("Confirm() = %v, %v; want delete", cmd, ok)
	}
}

func TestGate_ConfirmBlockedWhileInFlight(t *testing.T) {
	f := &flag{}
	g := NewGate(f)
	_ = g.Request(deleteReq("q2"))

	f.on = true
	if _, ok := g.Confirm(); ok {
		t.Fatal("Confirm() must be a no-op while a mutation is in flight")
	}

	f.on = false
	if _, ok := g.Confirm(); !ok {
		t.Error("Confirm() should succeed once the flight resolves")
	}
}

func TestGate_RequestRejectedWhileInFlight(t *testing.T) {
	f := &flag{on: true}
	g := NewGate(f)

	if err := g.Request(publishReq("q1")); !errors.Is(err, errors.ErrMutationInFlight) {
		t.Errorf("Request() error = %v, want ErrMutationInFlight", err)
	}
	if g.IsOpen() {
		t.Error("rejected request must not open the gate")
	}
}

func TestGate_Cancel(t *testing.T) {
	t.Run("no pending request", func(t *testing.T) {
		g := NewGate(nil)
		if err := g.Cancel(); !errors.Is(err, errors.ErrNoPendingConfirmation) {
			t.Errorf("Cancel() error = %v, want ErrNoPendingConfirmation", err)
		}
	})

	t.Run("pending request", func(t *testing.T) {
		g := NewGate(nil)
		_ = g.Request(deleteReq("q1"))
		if err := g.Cancel(); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if g.IsOpen() {
			t.Error("Cancel() should close the gate")
		}
		if _, ok := g.Confirm(); ok {
			t.Error("cancelled command must never be handed out")
		}
	})

	t.Run("while in flight", func(t *testing.T) {
		f := &flag{}
		g := NewGate(f)
		_ = g.Request(deleteReq("q1"))
		if _, ok := g.Confirm(); !ok {
			t.Fatal("Confirm() should succeed")
		}
		f.on = true
		if err := g.Cancel(); !errors.Is(err, errors.ErrCancelDuringMutation) {
			t.Errorf("Cancel() error = %v, want ErrCancelDuringMutation", err)
		}
		if !g.IsOpen() {
			t.Error("rejected cancel must leave the gate open")
		}
	})

	t.Run("after confirm before flight flag", func(t *testing.T) {
		g := NewGate(nil)
		_ = g.Request(deleteReq("q1"))
		_, _ = g.Confirm()
		if err := g.Cancel(); !errors.Is(err, errors.ErrCancelDuringMutation) {
			t.Errorf("Cancel() error = %v, want ErrCancelDuringMutation", err)
		}
	})
}

func TestCommandString(t *testing.T) {
	if got := (Command{Op: OpSetStatus, QuizID: "q1", Target: lifecycle.Published}).String(); got != "set_status(q1 -> published)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Command{Op: OpDelete, QuizID: "q2"}).String(); got != "delete(q2)" {
		t.Errorf("String() = %q", got)
	}
	if got := Operation(9).String(); got != "operation(9)" {
		t.Errorf("String() = %q", got)
	}
}
