package coordinator

import (
	"github.com/Iron-Ham/quizdesk/internal/confirm"
	"github.com/Iron-Ham/quizdesk/internal/errors"
)

// flight is the single-flight guard. It is held from the moment a confirmed
// command starts until its outcome is recorded: immediately on failure, or
// when the follow-up reload completes on success.
type flight struct {
	active    bool
	cmd       confirm.Command
	reloading bool
}

// InFlight implements confirm.Guard.
func (f *flight) InFlight() bool {
	return f.active
}

func (f *flight) acquire(cmd confirm.Command) error {
	if f.active {
		return errors.ErrMutationInFlight
	}
	f.active = true
	f.cmd = cmd
	f.reloading = false
	return nil
}

func (f *flight) owns(cmd confirm.Command) bool {
	return f.active && !f.reloading && f.cmd == cmd
}

func (f *flight) awaitReload() {
	f.reloading = true
}

func (f *flight) release() {
	*f = flight{}
}
