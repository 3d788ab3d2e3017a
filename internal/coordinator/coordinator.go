package coordinator

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/quizdesk/internal/confirm"
	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/logging"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// Fallback banner text used when the gateway gives no reason.
const (
	FallbackLoad    = "Failed to load quizzes"
	FallbackPublish = "Failed to publish quiz"
	FallbackStatus  = "Failed to update quiz status"
	FallbackDelete  = "Failed to delete quiz"
)

// Options configures a Coordinator.
type Options struct {
	// FeedbackTTL is how long success feedback is shown. Zero disables expiry.
	FeedbackTTL time.Duration
	// Logger defaults to a NopLogger. Request deadlines belong to the gateway.
	Logger *logging.Logger
}

// State is a read-only snapshot for rendering.
type State struct {
	Quizzes          []quiz.Quiz
	ListLoading      bool
	MutationInFlight bool
	Feedback         Feedback
	// Pending is the open confirmation request, nil when the gate is closed.
	Pending *confirm.Request
	// Awaiting is true once Pending has been confirmed and its outcome is
	// outstanding.
	Awaiting bool
}

// Coordinator sequences list loads and confirmed mutations against a gateway.
type Coordinator struct {
	gateway quiz.Gateway
	gate    *confirm.Gate
	flight  *flight
	logger  *logging.Logger

	feedbackTTL time.Duration

	quizzes     []quiz.Quiz
	listLoading bool
	feedback    Feedback

	feedbackSeq uint64
	loadSeq     uint64 // last issued
	appliedSeq  uint64 // last applied successfully
	loadingSeq  uint64 // explicit load that set listLoading
}

// New creates a Coordinator with an empty list. Call LoadEntities to fill it.
func New(gw quiz.Gateway, opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	f := &flight{}
	return &Coordinator{
		gateway:     gw,
		gate:        confirm.NewGate(f),
		flight:      f,
		logger:      logger.WithComponent("coordinator"),
		feedbackTTL: opts.FeedbackTTL,
		quizzes:     []quiz.Quiz{},
	}
}

// Snapshot returns the current state. Slices are copies.
func (c *Coordinator) Snapshot() State {
	s := State{
		Quizzes:          quiz.Clone(c.quizzes),
		ListLoading:      c.listLoading,
		MutationInFlight: c.flight.InFlight(),
		Feedback:         c.feedback,
		Awaiting:         c.gate.Awaiting(),
	}
	if req, ok := c.gate.Pending(); ok {
		s.Pending = &req
	}
	return s
}

// Quiz returns the quiz with id from the current list.
func (c *Coordinator) Quiz(id string) (quiz.Quiz, bool) {
	return quiz.Find(c.quizzes, id)
}

// LoadEntities starts an explicit list fetch and marks the list as loading.
func (c *Coordinator) LoadEntities() tea.Cmd {
	c.listLoading = true
	cmd := c.load(false)
	c.loadingSeq = c.loadSeq
	return cmd
}

func (c *Coordinator) load(afterMutation bool) tea.Cmd {
	c.loadSeq++
	seq := c.loadSeq
	gw := c.gateway
	c.logger.Debug("list fetch issued", "seq", seq, "after_mutation", afterMutation)

	return func() tea.Msg {
		var quizzes []quiz.Quiz
		err := guard("list", func() error {
			var err error
			quizzes, err = gw.List(context.Background())
			return err
		})
		return ListLoadedMsg{Seq: seq, Quizzes: quizzes, Err: err, AfterMutation: afterMutation}
	}
}

// RequestTransition opens the confirmation gate for moving quiz id to target.
// It fails without touching the gate when the quiz is unknown or its state
// does not permit the transition.
func (c *Coordinator) RequestTransition(id string, target lifecycle.State) error {
	q, ok := c.Quiz(id)
	if !ok {
		return errors.NewNotFoundError("quiz", id)
	}
	action, ok := lifecycle.TransitionAction(target)
	if !ok || !lifecycle.Permits(q.State, action) {
		return errors.NewLifecycleError(id, string(q.State), transitionLabel(target))
	}

	return c.open(confirm.Request{
		Title:   fmt.Sprintf("%s quiz?", action.Label()),
		Message: fmt.Sprintf("%q will become visible to students. Published quizzes cannot be edited.", q.Title),
		Command: confirm.Command{Op: confirm.OpSetStatus, QuizID: id, Target: target},
	})
}

// RequestDeletion opens the confirmation gate for deleting quiz id.
func (c *Coordinator) RequestDeletion(id string) error {
	q, ok := c.Quiz(id)
	if !ok {
		return errors.NewNotFoundError("quiz", id)
	}
	if !lifecycle.Permits(q.State, lifecycle.ActionDelete) {
		return errors.NewLifecycleError(id, string(q.State), string(lifecycle.ActionDelete))
	}

	return c.open(confirm.Request{
		Title:       "Delete quiz?",
		Message:     fmt.Sprintf("%q will be permanently deleted. This cannot be undone.", q.Title),
		Command:     confirm.Command{Op: confirm.OpDelete, QuizID: id},
		Destructive: true,
	})
}

func transitionLabel(target lifecycle.State) string {
	if action, ok := lifecycle.TransitionAction(target); ok {
		return string(action)
	}
	return "set status " + string(target)
}

func (c *Coordinator) open(req confirm.Request) error {
	if err := c.gate.Request(req); err != nil {
		return err
	}
	c.logger.WithQuiz(req.Command.QuizID).Debug("confirmation requested", "command", req.Command.String())
	return nil
}

// Confirm executes the pending command. It is a no-op returning nil when the
// gate is closed, already confirmed, or a mutation is in flight.
func (c *Coordinator) Confirm() tea.Cmd {
	cmd, ok := c.gate.Confirm()
	if !ok {
		return nil
	}
	run, err := c.executeConfirmed(cmd)
	if err != nil {
		// The gate checks the same guard, so this only happens if they disagree.
		c.logger.WithQuiz(cmd.QuizID).Error("confirmed command rejected", "command", cmd.String(), "error", err)
		c.gate.Close()
		return nil
	}
	return run
}

// executeConfirmed is the only path to a gateway mutation.
func (c *Coordinator) executeConfirmed(cmd confirm.Command) (tea.Cmd, error) {
	if err := c.flight.acquire(cmd); err != nil {
		return nil, err
	}
	c.clearFeedback()

	gw := c.gateway
	c.logger.WithQuiz(cmd.QuizID).WithOperation(cmd.Op.String()).Info("mutation started", "command", cmd.String())

	return func() tea.Msg {
		err := guard(cmd.Op.String(), func() error {
			return mutate(context.Background(), gw, cmd)
		})
		return MutationDoneMsg{Command: cmd, Err: err}
	}, nil
}

func mutate(ctx context.Context, gw quiz.Gateway, cmd confirm.Command) error {
	switch cmd.Op {
	case confirm.OpSetStatus:
		return gw.SetStatus(ctx, cmd.QuizID, cmd.Target)
	case confirm.OpDelete:
		return gw.Delete(ctx, cmd.QuizID)
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown operation %s", cmd.Op))
	}
}

// guard runs fn and converts a panic into an error.
func guard(op string, fn func() error) error {
	var err error
	var pc panics.Catcher
	pc.Try(func() { err = fn() })
	if r := pc.Recovered(); r != nil {
		return errors.NewGatewayTransportError(op, r.AsError())
	}
	return err
}

// Cancel closes the gate without executing. It is refused while a mutation
// is in flight.
func (c *Coordinator) Cancel() error {
	return c.gate.Cancel()
}

// DismissFeedback clears the banner.
func (c *Coordinator) DismissFeedback() {
	c.clearFeedback()
}

// Update applies a message produced by one of the coordinator's commands and
// returns any follow-up command. Unrelated messages are ignored.
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListLoadedMsg:
		return c.handleListLoaded(msg)
	case MutationDoneMsg:
		return c.handleMutationDone(msg)
	case FeedbackExpiredMsg:
		if msg.Seq == c.feedbackSeq && c.feedback.Kind == FeedbackSuccess {
			c.feedback = Feedback{}
		}
	}
	return nil
}

func (c *Coordinator) handleListLoaded(msg ListLoadedMsg) tea.Cmd {
	if msg.Seq >= c.loadingSeq {
		c.listLoading = false
	}
	if msg.AfterMutation {
		c.flight.release()
	}

	if msg.Seq <= c.appliedSeq {
		c.logger.Debug("stale list response discarded", "seq", msg.Seq, "applied", c.appliedSeq)
		return nil
	}

	if msg.Err != nil {
		c.logger.Warn("list fetch failed", "seq", msg.Seq, "error", msg.Err)
		c.setError(errors.UserMessage(msg.Err, FallbackLoad))
		return nil
	}

	c.appliedSeq = msg.Seq
	c.quizzes = quiz.Clone(msg.Quizzes)
	if c.quizzes == nil {
		c.quizzes = []quiz.Quiz{}
	}
	c.logger.Debug("list applied", "seq", msg.Seq, "count", len(c.quizzes))
	return nil
}

func (c *Coordinator) handleMutationDone(msg MutationDoneMsg) tea.Cmd {
	if !c.flight.owns(msg.Command) {
		c.logger.Warn("unexpected mutation result ignored", "command", msg.Command.String())
		return nil
	}
	log := c.logger.WithQuiz(msg.Command.QuizID).WithOperation(msg.Command.Op.String())

	if msg.Err != nil {
		log.Warn("mutation failed", "error", msg.Err)
		c.setError(errors.UserMessage(msg.Err, failureFallback(msg.Command)))
		c.flight.release()
		c.gate.Close()
		return nil
	}

	log.Info("mutation succeeded")
	expiry := c.setSuccess(successMessage(msg.Command))
	c.flight.awaitReload()
	reload := c.load(true)
	c.gate.Close()
	return tea.Batch(reload, expiry)
}

func successMessage(cmd confirm.Command) string {
	switch {
	case cmd.Op == confirm.OpDelete:
		return "Quiz deleted"
	case cmd.Target == lifecycle.Published:
		return "Quiz published"
	default:
		return fmt.Sprintf("Quiz moved to %s", lifecycle.Describe(cmd.Target).Label)
	}
}

func failureFallback(cmd confirm.Command) string {
	switch {
	case cmd.Op == confirm.OpDelete:
		return FallbackDelete
	case cmd.Target == lifecycle.Published:
		return FallbackPublish
	default:
		return FallbackStatus
	}
}

func (c *Coordinator) setSuccess(message string) tea.Cmd {
	c.feedbackSeq++
	c.feedback = Feedback{Kind: FeedbackSuccess, Message: message}
	if c.feedbackTTL <= 0 {
		return nil
	}
	seq := c.feedbackSeq
	return tea.Tick(c.feedbackTTL, func(time.Time) tea.Msg {
		return FeedbackExpiredMsg{Seq: seq}
	})
}

func (c *Coordinator) setError(message string) {
	c.feedbackSeq++
	c.feedback = Feedback{Kind: FeedbackError, Message: message}
}

func (c *Coordinator) clearFeedback() {
	c.feedbackSeq++
	c.feedback = Feedback{}
}
