package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/quizdesk/internal/access"
	"github.com/Iron-Ham/quizdesk/internal/coordinator"
	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

var (
	listState string
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print your quizzes",
	Long: `Print your quizzes with their status.

Filter by status with --state and by title with --match, a glob such
as "unit*" or "*review*" (case-insensitive).`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listState, "state", "", "only show quizzes in this state (draft, published, closed)")
	listCmd.Flags().StringVar(&listMatch, "match", "", "only show quizzes whose title matches this glob")
}

const readOnlyNotice = "Read-only: the current token may not publish or delete quizzes."

func runList(cmd *cobra.Command, args []string) error {
	filter, err := parseStateFilter(listState)
	if err != nil {
		return err
	}
	matcher, err := compileTitleGlob(listMatch)
	if err != nil {
		return err
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	coord := coordinator.New(rt.gateway, coordinator.Options{Logger: rt.logger})
	coordinator.Drive(coord, coord.LoadEntities())
	snap := coord.Snapshot()
	if snap.Feedback.IsError() {
		return errors.New(snap.Feedback.Message)
	}

	quizzes := quiz.FilterByState(snap.Quizzes, filter)
	if matcher != nil {
		quizzes = matchTitles(quizzes, matcher)
	}

	out := cmd.OutOrStdout()
	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes.")
		return nil
	}
	fmt.Fprintln(out, renderQuizTable(quizzes))
	fmt.Fprintf(out, "%d of %d quizzes\n", len(quizzes), len(snap.Quizzes))
	if !access.Permitted(accessGate(rt.cfg)) {
		fmt.Fprintln(out, readOnlyNotice)
	}
	return nil
}

func parseStateFilter(raw string) (lifecycle.State, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	s := lifecycle.ParseState(raw)
	if !s.Valid() {
		return "", errors.NewValidationError("unknown state").WithField("state").WithValue(raw)
	}
	return s, nil
}

func compileTitleGlob(pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, errors.NewValidationError("invalid title pattern").WithField("match").WithValue(pattern).WithCause(err)
	}
	return g, nil
}

func matchTitles(quizzes []quiz.Quiz, g glob.Glob) []quiz.Quiz {
	out := make([]quiz.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if g.Match(strings.ToLower(q.Title)) {
			out = append(out, q)
		}
	}
	return out
}

func renderQuizTable(quizzes []quiz.Quiz) string {
	st := styles.Active()
	rows := make([][]string, 0, len(quizzes))
	for _, q := range quizzes {
		created := "-"
		if !q.CreatedAt.IsZero() {
			created = q.CreatedAt.Local().Format("2006-01-02")
		}
		rows = append(rows, []string{
			q.ID,
			q.Title,
			lifecycle.Describe(q.State).Label,
			strconv.Itoa(q.QuestionCount),
			strconv.Itoa(q.SubmissionCount),
			created,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(st.Palette.Border)).
		Headers("ID", "TITLE", "STATUS", "QUESTIONS", "SUBMISSIONS", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Bold(true).Foreground(st.Palette.Muted)
			}
			if col == 2 {
				return base.Foreground(st.StateColor(lifecycle.Describe(quizzes[row].State).Category))
			}
			return base
		}).
		Render()
}
