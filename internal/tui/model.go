package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/quizdesk/internal/coordinator"
	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/logging"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
	"github.com/Iron-Ham/quizdesk/internal/tui/styles"
	"github.com/Iron-Ham/quizdesk/internal/tui/view"
)

// Options configures a Model.
type Options struct {
	// ShowHelp renders the key help line under the screen.
	ShowHelp bool
	// Watcher, when set, reloads the list whenever the store file changes.
	Watcher *Watcher
	// Styles defaults to styles.Active().
	Styles *styles.Styles
	Logger *logging.Logger
}

// Model is the Bubble Tea model of the quiz management screen. It owns
// presentation state only; everything about quizzes and mutations lives in
// the coordinator.
type Model struct {
	coord   *coordinator.Coordinator
	styles  *styles.Styles
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	watcher *Watcher
	logger  *logging.Logger

	filter     lifecycle.State
	cursor     int
	selectedID string

	detailOpen   bool
	detailIntent lifecycle.Action

	notice   string
	showHelp bool
	width    int
	height   int
}

// NewModel creates the screen model around coord.
func NewModel(coord *coordinator.Coordinator, opts Options) Model {
	st := opts.Styles
	if st == nil {
		st = styles.Active()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(st.Palette.Primary)

	return Model{
		coord:    coord,
		styles:   st,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		watcher:  opts.Watcher,
		logger:   logger.WithComponent("tui"),
		showHelp: opts.ShowHelp,
	}
}

// Init loads the list and starts the spinner and the store watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.coord.LoadEntities(), m.spinner.Tick, m.watcher.Wait())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StoreChangedMsg:
		cmds := []tea.Cmd{m.watcher.Wait()}
		// The post-mutation reload covers changes made by our own mutation.
		if !m.coord.Snapshot().MutationInFlight {
			m.logger.Debug("store changed on disk, reloading", "path", msg.Path)
			cmds = append(cmds, m.coord.LoadEntities())
		}
		return m, tea.Batch(cmds...)

	case WatchErrorMsg:
		m.logger.Warn("store watch error", "error", msg.Err)
		return m, m.watcher.Wait()
	}

	cmd := m.coord.Update(msg)
	m.syncCursor()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	m.notice = ""

	if m.coord.Snapshot().Pending != nil {
		return m.handleDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Publish):
		if q, ok := m.selected(); ok {
			m.refused(m.coord.RequestTransition(q.ID, lifecycle.Published))
		}
	case key.Matches(msg, m.keys.Delete):
		if q, ok := m.selected(); ok {
			m.refused(m.coord.RequestDeletion(q.ID))
		}
	case key.Matches(msg, m.keys.Edit):
		m.openDetail(lifecycle.ActionEdit)
	case key.Matches(msg, m.keys.Results):
		m.openDetail(lifecycle.ActionViewResults)
	case key.Matches(msg, m.keys.Detail):
		if m.detailOpen {
			m.detailOpen = false
		} else if _, ok := m.selected(); ok {
			m.detailOpen = true
			m.detailIntent = ""
		}
	case key.Matches(msg, m.keys.Close):
		m.detailOpen = false
	case key.Matches(msg, m.keys.Filter):
		m.filter = nextFilter(m.filter)
		m.selectedID = ""
		m.cursor = 0
		m.syncCursor()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.coord.LoadEntities()
	case key.Matches(msg, m.keys.Dismiss):
		m.coord.DismissFeedback()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleDialogKey routes keys while a confirmation is open. Everything but
// confirm and cancel is swallowed so the selection cannot move under it.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.coord.Confirm()
	case key.Matches(msg, m.keys.Close):
		m.refused(m.coord.Cancel())
	}
	return m, nil
}

// View renders the screen.
func (m Model) View() string {
	snap := m.coord.Snapshot()
	visible := quiz.FilterByState(snap.Quizzes, m.filter)
	busy := snap.MutationInFlight || snap.Awaiting

	table := view.TableState{
		Quizzes: visible,
		Cursor:  m.cursor,
		Total:   len(snap.Quizzes),
		Filter:  m.filter,
		Loading: snap.ListLoading,
		Spinner: m.spinner.View(),
		Width:   m.width,
	}

	sections := []string{
		view.RenderHeader(m.styles, table),
		view.RenderTable(m.styles, table),
	}

	q, selected := m.selectedIn(visible)
	sections = append(sections, view.RenderActions(m.styles, view.ActionsState{
		State:    q.State,
		Selected: selected,
		Busy:     busy,
	}))
	if m.detailOpen && selected {
		sections = append(sections, view.RenderDetail(m.styles, view.DetailState{
			Quiz:   q,
			Intent: m.detailIntent,
			Width:  m.width,
		}))
	}
	if snap.Pending != nil {
		sections = append(sections, view.RenderDialog(m.styles, view.DialogState{
			Request: *snap.Pending,
			Busy:    busy,
			Spinner: m.spinner.View(),
			Width:   m.width,
		}))
	}
	sections = append(sections,
		view.RenderFeedback(m.styles, snap.Feedback),
		view.RenderNotice(m.styles, m.notice),
	)
	if m.showHelp {
		var km help.KeyMap = m.keys
		if snap.Pending != nil {
			km = dialogKeys{m.keys}
		}
		sections = append(sections, m.styles.HelpBar.Render(m.help.View(km)))
	}

	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (m Model) visible() []quiz.Quiz {
	return quiz.FilterByState(m.coord.Snapshot().Quizzes, m.filter)
}

func (m Model) selected() (quiz.Quiz, bool) {
	return m.selectedIn(m.visible())
}

func (m Model) selectedIn(visible []quiz.Quiz) (quiz.Quiz, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return quiz.Quiz{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) move(delta int) {
	visible := m.visible()
	if len(visible) == 0 {
		return
	}
	m.cursor = max(0, min(len(visible)-1, m.cursor+delta))
	m.selectedID = visible[m.cursor].ID
}

// syncCursor keeps the selection on the same quiz across reloads and falls
// back to the nearest row when that quiz is gone.
func (m *Model) syncCursor() {
	visible := m.visible()
	if len(visible) == 0 {
		m.cursor = 0
		m.selectedID = ""
		m.detailOpen = false
		return
	}
	if m.selectedID != "" {
		for i, q := range visible {
			if q.ID == m.selectedID {
				m.cursor = i
				return
			}
		}
	}
	m.cursor = max(0, min(len(visible)-1, m.cursor))
	m.selectedID = visible[m.cursor].ID
}

func (m *Model) openDetail(intent lifecycle.Action) {
	q, ok := m.selected()
	if !ok {
		return
	}
	if !lifecycle.Permits(q.State, intent) {
		m.notice = fmt.Sprintf("%s is not available for %s", intent.Label(), stateNoun(q.State))
		return
	}
	m.detailOpen = true
	m.detailIntent = intent
}

// refused turns a synchronous rejection into a notice.
func (m *Model) refused(err error) {
	if err == nil {
		return
	}
	m.logger.Debug("intent refused", "error", err)
	m.notice = noticeFor(err)
}

func noticeFor(err error) string {
	var lcErr *errors.LifecycleError
	switch {
	case errors.As(err, &lcErr):
		return fmt.Sprintf("Cannot %s %s", lcErr.Action, stateNoun(lifecycle.State(lcErr.State)))
	case errors.Is(err, errors.ErrCancelDuringMutation):
		return "The change is already being saved"
	case errors.Is(err, errors.ErrMutationInFlight):
		return "Wait for the current change to finish"
	case errors.Is(err, errors.ErrQuizNotFound):
		return "That quiz is no longer in the list"
	default:
		return err.Error()
	}
}

func stateNoun(s lifecycle.State) string {
	if !s.Valid() {
		return fmt.Sprintf("a quiz in state %q", string(s))
	}
	return "a " + strings.ToLower(lifecycle.Describe(s).Label) + " quiz"
}

// nextFilter cycles all -> draft -> published -> closed -> all.
func nextFilter(current lifecycle.State) lifecycle.State {
	states := lifecycle.States()
	if current == "" {
		return states[0]
	}
	for i, s := range states {
		if s == current && i+1 < len(states) {
			return states[i+1]
		}
	}
	return ""
}
