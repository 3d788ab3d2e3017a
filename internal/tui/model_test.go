package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/quizdesk/internal/coordinator"
	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/gateway/memory"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
)

func sampleStore() *memory.Store {
	return memory.New(
		quiz.Quiz{ID: "q1", Title: "Fractions", State: lifecycle.Draft, QuestionCount: 5},
		quiz.Quiz{ID: "q2", Title: "Photosynthesis", State: lifecycle.Published, SubmissionCount: 12},
		quiz.Quiz{ID: "q3", Title: "Volcanoes", State: lifecycle.Closed},
	)
}

func newTestModel(t *testing.T, store *memory.Store) Model {
	t.Helper()
	coord := coordinator.New(store, coordinator.Options{})
	m := NewModel(coord, Options{
		ShowHelp: true,
		Styles:   styles.NewStyles(styles.DefaultPalette()),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = drain(t, next.(Model), coord.LoadEntities())
	if len(m.coord.Snapshot().Quizzes) == 0 {
		t.Fatal("initial load produced no quizzes")
	}
	return m
}

// drain runs cmd and every follow-up command, feeding messages back into
// the model until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, follow := m.Update(msg)
			m = next.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func screen(m Model) string {
	return ansi.Strip(m.View())
}

func selectedID(t *testing.T, m Model) string {
	t.Helper()
	q, ok := m.selected()
	if !ok {
		t.Fatal("nothing selected")
	}
	return q.ID
}

func TestModel_RendersList(t *testing.T) {
	m := newTestModel(t, sampleStore())
	out := screen(m)

	for _, want := range []string{"Quizzes", "Fractions", "Photosynthesis", "Volcanoes", "Actions:", "p publish"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q:\n%s", want, out)
		}
	}
	if selectedID(t, m) != "q1" {
		t.Errorf("first row should be selected, got %s", selectedID(t, m))
	}
}

func TestModel_PublishFlow(t *testing.T) {
	store := sampleStore()
	m := newTestModel(t, store)

	m, cmd := press(m, "p")
	if cmd != nil {
		t.Error("requesting confirmation should not run anything")
	}
	if out := screen(m); !strings.Contains(out, "Publish quiz?") || !strings.Contains(out, "enter/y confirm") {
		t.Fatalf("dialog not shown:\n%s", out)
	}
	if store.Calls().Mutations() != 0 {
		t.Fatal("gateway called before confirmation")
	}

	m, cmd = press(m, "enter")
	if cmd == nil {
		t.Fatal("confirm should return the mutation command")
	}
	m = drain(t, m, cmd)

	out := screen(m)
	if strings.Contains(out, "Publish quiz?") {
		t.Errorf("dialog should close after success:\n%s", out)
	}
	if !strings.Contains(out, "Quiz published") {
		t.Errorf("success banner missing:\n%s", out)
	}
	q, _ := m.coord.Quiz("q1")
	if q.State != lifecycle.Published {
		t.Errorf("q1 state = %s, want published", q.State)
	}
	if got := store.Calls().SetStatus; got != 1 {
		t.Errorf("SetStatus calls = %d, want 1", got)
	}
}

func TestModel_ConfirmWithY(t *testing.T) {
	store := sampleStore()
	m := newTestModel(t, store)

	m, _ = press(m, "down", "down", "d")
	m, cmd := press(m, "y")
	m = drain(t, m, cmd)

	if _, ok := m.coord.Quiz("q3"); ok {
		t.Error("q3 should be deleted")
	}
	if !strings.Contains(screen(m), "Quiz deleted") {
		t.Errorf("success banner missing:\n%s", screen(m))
	}
}

func TestModel_CancelDialog(t *testing.T) {
	for _, k := range []string{"esc", "n"} {
		t.Run(k, func(t *testing.T) {
			store := sampleStore()
			m := newTestModel(t, store)

			m, _ = press(m, "down", "down", "d")
			if !strings.Contains(screen(m), "Delete quiz?") {
				t.Fatal("delete dialog not shown")
			}
			m, cmd := press(m, k)
			if cmd != nil {
				t.Error("cancel should not run anything")
			}
			if strings.Contains(screen(m), "Delete quiz?") {
				t.Error("dialog should be closed")
			}
			if store.Calls().Mutations() != 0 {
				t.Error("cancel must not reach the gateway")
			}
		})
	}
}

func TestModel_DialogSwallowsOtherKeys(t *testing.T) {
	m := newTestModel(t, sampleStore())

	m, _ = press(m, "p", "down", "d", "f", "q")
	if selectedID(t, m) != "q1" {
		t.Errorf("selection moved under the dialog: %s", selectedID(t, m))
	}
	if m.filter != "" {
		t.Errorf("filter changed under the dialog: %q", m.filter)
	}
	if !strings.Contains(screen(m), "Publish quiz?") {
		t.Error("original request should still be pending")
	}
}

func TestModel_RefusedIntentShowsNotice(t *testing.T) {
	store := sampleStore()
	m := newTestModel(t, store)

	m, _ = press(m, "down", "d")
	out := screen(m)
	if !strings.Contains(out, "Cannot delete a published quiz") {
		t.Errorf("notice missing:\n%s", out)
	}
	if strings.Contains(out, "Delete quiz?") {
		t.Error("no dialog should open for a refused intent")
	}

	m, _ = press(m, "p")
	if !strings.Contains(screen(m), "Cannot publish a published quiz") {
		t.Errorf("publish notice missing:\n%s", screen(m))
	}

	m, _ = press(m, "up")
	if strings.Contains(screen(m), "Cannot") {
		t.Error("notice should clear on the next key")
	}
}

func TestModel_BusyDialog(t *testing.T) {
	store := sampleStore()
	release := store.Hold(memory.MethodSetStatus)
	defer release()

	m := newTestModel(t, store)
	m, _ = press(m, "p")
	m, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("confirm should return the mutation command")
	}

	out := screen(m)
	if !strings.Contains(out, "Working…") {
		t.Errorf("busy dialog should show progress:\n%s", out)
	}

	m, again := press(m, "enter")
	if again != nil {
		t.Error("second confirm while in flight should be a no-op")
	}
	m, _ = press(m, "esc")
	if !strings.Contains(screen(m), "The change is already being saved") {
		t.Errorf("cancel during flight should be refused:\n%s", screen(m))
	}

	release()
	m = drain(t, m, cmd)
	if store.Calls().SetStatus != 1 {
		t.Errorf("SetStatus calls = %d, want 1", store.Calls().SetStatus)
	}
	if m.coord.Snapshot().MutationInFlight {
		t.Error("flight should be released after the reload")
	}
}

func TestModel_ErrorFeedbackAndDismiss(t *testing.T) {
	store := sampleStore()
	store.FailNext(memory.MethodDelete, errors.NewGatewayError("delete", "Quiz has submissions"))
	m := newTestModel(t, store)

	m, _ = press(m, "down", "down", "d")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	out := screen(m)
	if !strings.Contains(out, "Quiz has submissions") {
		t.Errorf("error banner missing:\n%s", out)
	}
	if _, ok := m.coord.Quiz("q3"); !ok {
		t.Error("failed delete must keep the quiz")
	}

	m, _ = press(m, "x")
	if strings.Contains(screen(m), "Quiz has submissions") {
		t.Error("x should dismiss the banner")
	}
}

func TestModel_FilterCycle(t *testing.T) {
	m := newTestModel(t, sampleStore())

	m, _ = press(m, "f")
	if m.filter != lifecycle.Draft {
		t.Fatalf("filter = %q, want draft", m.filter)
	}
	out := screen(m)
	if !strings.Contains(out, "filter: Draft") || strings.Contains(out, "Photosynthesis") {
		t.Errorf("draft filter not applied:\n%s", out)
	}

	m, _ = press(m, "f")
	if selectedID(t, m) != "q2" {
		t.Errorf("published filter should select q2, got %s", selectedID(t, m))
	}

	m, _ = press(m, "f", "f")
	if m.filter != "" {
		t.Errorf("filter should wrap to all, got %q", m.filter)
	}
}

func TestModel_SelectionFollowsQuizAcrossReload(t *testing.T) {
	store := sampleStore()
	m := newTestModel(t, store)

	m, _ = press(m, "down")
	if selectedID(t, m) != "q2" {
		t.Fatalf("expected q2 selected, got %s", selectedID(t, m))
	}

	if err := store.Delete(context.Background(), "q1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	m, cmd := press(m, "r")
	m = drain(t, m, cmd)

	if selectedID(t, m) != "q2" {
		t.Errorf("selection should stay on q2, got %s", selectedID(t, m))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestModel_SelectionClampsWhenQuizDisappears(t *testing.T) {
	store := sampleStore()
	m := newTestModel(t, store)

	m, _ = press(m, "down", "down", "d")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	if selectedID(t, m) != "q2" {
		t.Errorf("selection should fall back to the last row, got %s", selectedID(t, m))
	}
}

func TestModel_DetailPane(t *testing.T) {
	m := newTestModel(t, sampleStore())

	m, _ = press(m, "down", "e")
	if m.detailOpen {
		t.Error("edit is not permitted on a published quiz")
	}
	if !strings.Contains(screen(m), "Edit is not available for a published quiz") {
		t.Errorf("notice missing:\n%s", screen(m))
	}

	m, _ = press(m, "v")
	if !m.detailOpen || m.detailIntent != lifecycle.ActionViewResults {
		t.Fatal("view results should open the detail pane")
	}
	if !strings.Contains(screen(m), "Results") {
		t.Errorf("results pane missing:\n%s", screen(m))
	}

	m, _ = press(m, "esc")
	if m.detailOpen {
		t.Error("esc should close the detail pane")
	}

	m, _ = press(m, "enter")
	if !m.detailOpen || m.detailIntent != "" {
		t.Error("enter should open plain details")
	}
	m, _ = press(m, "enter")
	if m.detailOpen {
		t.Error("enter should toggle details closed")
	}
}

func TestModel_StoreChangedReloads(t *testing.T) {
	store := sampleStore()
	m := newTestModel(t, store)

	store.Put(quiz.Quiz{ID: "q4", Title: "Tectonics", State: lifecycle.Draft})
	next, cmd := m.Update(StoreChangedMsg{Path: "quizzes.db"})
	m = drain(t, next.(Model), cmd)

	if !strings.Contains(screen(m), "Tectonics") {
		t.Errorf("external change not picked up:\n%s", screen(m))
	}
}

func TestModel_StoreChangedDuringFlightSkipsReload(t *testing.T) {
	store := sampleStore()
	release := store.Hold(memory.MethodSetStatus)
	defer release()

	m := newTestModel(t, store)
	m, _ = press(m, "p", "enter")
	before := store.Calls().List

	_, cmd := m.Update(StoreChangedMsg{})
	if cmd != nil {
		if _, ok := cmd().(tea.BatchMsg); ok {
			t.Error("no reload should be issued while a mutation is in flight")
		}
	}
	if store.Calls().List != before {
		t.Error("list fetched during flight")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, sampleStore())

	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce tea.QuitMsg")
	}

	m, _ = press(m, "p")
	_, cmd = press(m, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c should quit even with a dialog open")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce tea.QuitMsg")
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t, sampleStore())
	if strings.Contains(screen(m), "v results") {
		t.Error("short help should not list every binding")
	}
	m, _ = press(m, "?")
	if !strings.Contains(screen(m), "v results") {
		t.Errorf("full help missing bindings:\n%s", screen(m))
	}
}

func TestNextFilter(t *testing.T) {
	tests := []struct {
		in, want lifecycle.State
	}{
		{"", lifecycle.Draft},
		{lifecycle.Draft, lifecycle.Published},
		{lifecycle.Published, lifecycle.Closed},
		{lifecycle.Closed, ""},
		{lifecycle.State("archived"), ""},
	}
	for _, tt := range tests {
		if got := nextFilter(tt.in); got != tt.want {
			t.Errorf("nextFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"lifecycle", errors.NewLifecycleError("q1", "closed", "publish"), "Cannot publish a closed quiz"},
		{"unknown state", errors.NewLifecycleError("q1", "archived", "delete"), `Cannot delete a quiz in state "archived"`},
		{"in flight", errors.ErrMutationInFlight, "Wait for the current change to finish"},
		{"cancel", errors.ErrCancelDuringMutation, "The change is already being saved"},
		{"not found", errors.NewNotFoundError("quiz", "q9"), "That quiz is no longer in the list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := noticeFor(tt.err); got != tt.want {
				t.Errorf("noticeFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
