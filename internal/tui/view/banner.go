package view

import (
	"github.com/Iron-Ham/quizdesk/internal/coordinator"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

// RenderFeedback renders the coordinator's feedback banner.
func RenderFeedback(s *styles.Styles, fb coordinator.Feedback) string {
	switch fb.Kind {
	case coordinator.FeedbackSuccess:
		return s.SuccessMsg.Render("✓ " + fb.Message)
	case coordinator.FeedbackError:
		return s.ErrorMsg.Render("✗ "+fb.Message) + s.Muted.Render("  (x to dismiss)")
	default:
		return ""
	}
}

// RenderNotice renders a local, non-persistent hint such as a refused intent.
func RenderNotice(s *styles.Styles, notice string) string {
	if notice == "" {
		return ""
	}
	return s.Muted.Render(notice)
}
