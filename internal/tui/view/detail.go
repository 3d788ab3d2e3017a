package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

// DetailState holds the state needed to render the detail pane.
type DetailState struct {
	Quiz quiz.Quiz

	// Intent is the read-only action that opened the pane, Edit or
	// ViewResults. Empty renders plain details.
	Intent lifecycle.Action

	Width int
}

// RenderDetail renders the detail pane for one quiz.
func RenderDetail(s *styles.Styles, state DetailState) string {
	q := state.Quiz
	heading := "Details"
	switch state.Intent {
	case lifecycle.ActionEdit:
		heading = "Draft details"
	case lifecycle.ActionViewResults:
		heading = "Results"
	}

	timeLimit := "none"
	if q.TimeLimitMinutes > 0 {
		timeLimit = fmt.Sprintf("%d min", q.TimeLimitMinutes)
	}
	created := "-"
	if !q.CreatedAt.IsZero() {
		created = q.CreatedAt.Local().Format("2006-01-02 15:04")
	}

	lines := []string{
		s.Subtitle.Render(heading),
		field(s, "Title", q.Title),
		field(s, "Status", s.Badge(q.State)),
		field(s, "Questions", fmt.Sprintf("%d", q.QuestionCount)),
		field(s, "Time limit", timeLimit),
		field(s, "Submissions", fmt.Sprintf("%d", q.SubmissionCount)),
		field(s, "Created", created),
		field(s, "ID", q.ID),
	}
	if state.Intent == lifecycle.ActionViewResults && q.SubmissionCount == 0 {
		lines = append(lines, s.Muted.Render("No submissions yet."))
	}

	style := s.Detail
	if state.Width > 4 {
		style = style.Width(state.Width - 4)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func field(s *styles.Styles, label, value string) string {
	return s.Muted.Render(fmt.Sprintf("%-12s", label)) + value
}
