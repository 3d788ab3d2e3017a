package quiz

import (
	"fmt"

	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
)

// Reasons reported by stores when they refuse a mutation. They are shown to
// the teacher verbatim.
const (
	ReasonHasSubmissions   = "Quiz has submissions"
	ReasonPublishedDelete  = "Published quizzes cannot be deleted"
	ReasonInvalidStatus    = "Unknown quiz status"
	reasonTransitionFormat = "Cannot change status from %s to %s"
)

// CheckTransition applies the store-side rules for a status change.
func CheckTransition(q Quiz, target lifecycle.State) error {
	if !target.Valid() {
		return errors.NewGatewayError("set_status", ReasonInvalidStatus).WithQuizID(q.ID)
	}
	if !lifecycle.CanStoreTransition(q.State, target) {
		reason := fmt.Sprintf(reasonTransitionFormat, q.State, target)
		return errors.NewGatewayError("set_status", reason).WithQuizID(q.ID)
	}
	return nil
}

// CheckDelete applies the store-side rules for deletion.
func CheckDelete(q Quiz) error {
	if q.State == lifecycle.Published {
		return errors.NewGatewayError("delete", ReasonPublishedDelete).WithQuizID(q.ID)
	}
	if q.SubmissionCount > 0 {
		return errors.NewGatewayError("delete", ReasonHasSubmissions).WithQuizID(q.ID)
	}
	return nil
}
