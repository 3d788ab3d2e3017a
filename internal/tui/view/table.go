package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

// Fixed column widths, one column of slack included. The title column takes
// whatever is left.
const (
	stateColWidth     = 13
	questionsColWidth = 10
	subsColWidth      = 12
	createdColWidth   = 11
	minTitleWidth     = 12
	cursorMarker      = "›"
)

// TableState holds the state needed to render the quiz table.
type TableState struct {
	// Quizzes are the rows, already filtered.
	Quizzes []quiz.Quiz

	// Cursor is the index of the selected row.
	Cursor int

	// Total is the size of the unfiltered list.
	Total int

	// Filter is the active state filter; empty means all.
	Filter lifecycle.State

	// Loading is true while an explicit load is outstanding.
	Loading bool

	// Spinner is the current spinner frame.
	Spinner string

	Width int
}

// TitleWidth returns the width available to the title column.
func TitleWidth(total int) int {
	w := total - stateColWidth - questionsColWidth - subsColWidth - createdColWidth - 8
	if w < minTitleWidth {
		return minTitleWidth
	}
	return w
}

// RenderHeader renders the screen title with the filter and loading state.
func RenderHeader(s *styles.Styles, state TableState) string {
	filter := "all"
	if state.Filter != "" {
		filter = lifecycle.Describe(state.Filter).Label
	}
	line := s.Title.Render("Quizzes") + "  " +
		s.Subtitle.Render(fmt.Sprintf("filter: %s · %d of %d", filter, len(state.Quizzes), state.Total))
	if state.Loading {
		line += "  " + s.Muted.Render(state.Spinner+" Loading…")
	}
	return line
}

// RenderTable renders the quiz table.
func RenderTable(s *styles.Styles, state TableState) string {
	if len(state.Quizzes) == 0 {
		return s.Muted.Render(emptyMessage(state))
	}

	titleWidth := TitleWidth(state.Width)
	var b strings.Builder
	b.WriteString(s.TableHeader.Render(row(titleWidth, "Title", "Status", "Questions", "Submissions", "Created")))
	b.WriteString("\n")

	for i, q := range state.Quizzes {
		line := row(titleWidth,
			q.Title,
			s.Badge(q.State),
			fmt.Sprintf("%d", q.QuestionCount),
			fmt.Sprintf("%d", q.SubmissionCount),
			formatDate(q),
		)
		if i == state.Cursor {
			b.WriteString(s.RowSelected.Render(cursorMarker + " " + line))
		} else {
			b.WriteString(s.Row.Render("  " + line))
		}
		if i < len(state.Quizzes)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func emptyMessage(state TableState) string {
	switch {
	case state.Loading:
		return state.Spinner + " Loading quizzes…"
	case state.Filter != "" && state.Total > 0:
		return fmt.Sprintf("No %s quizzes.", strings.ToLower(lifecycle.Describe(state.Filter).Label))
	default:
		return "No quizzes yet."
	}
}

func row(titleWidth int, title, state, questions, subs, created string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(title, titleWidth),
		cell(state, stateColWidth),
		cell(questions, questionsColWidth),
		cell(subs, subsColWidth),
		cell(created, createdColWidth),
	)
}

func cell(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(ansi.Truncate(content, width-1, "…"))
}

func formatDate(q quiz.Quiz) string {
	if q.CreatedAt.IsZero() {
		return "-"
	}
	return q.CreatedAt.Local().Format("2006-01-02")
}
