package coordinator

import (
	"github.com/Iron-Ham/quizdesk/internal/confirm"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// ListLoadedMsg carries the result of a list fetch.
type ListLoadedMsg struct {
	Seq     uint64
	Quizzes []quiz.Quiz
	Err     error
	// AfterMutation marks the reload issued by a successful mutation.
	AfterMutation bool
}

// MutationDoneMsg carries the outcome of a confirmed gateway call.
type MutationDoneMsg struct {
	Command confirm.Command
	Err     error
}

// FeedbackExpiredMsg fires when a success banner's display time runs out.
type FeedbackExpiredMsg struct {
	Seq uint64
}
