// Package errors holds the error vocabulary shared by every quizdesk layer.
//
// Sentinels name the conditions callers branch on. The typed errors carry
// the context needed to log a failure and to phrase it for the user:
//
//   - GatewayError: a quiz store rejected a call (Reason is shown verbatim)
//     or could not be reached at all (transport failure, retryable)
//   - LifecycleError: the quiz state does not permit the requested action
//   - NotFoundError: a quiz ID that is not in the list or the store
//   - ValidationError: bad input from flags, fixtures or config
//
// Typical use:
//
//	err := errors.NewGatewayError("delete", "Quiz has submissions").WithQuizID("q2")
//
//	if errors.Is(err, errors.ErrGatewayRejected) { ... }
//
//	banner := errors.UserMessage(err, "Failed to delete quiz")
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// The standard helpers are re-exported so callers need a single import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Quiz and store sentinels.
var (
	ErrQuizNotFound       = New("quiz not found")
	ErrActionNotAllowed   = New("action not allowed in current state")
	ErrGatewayRejected    = New("gateway rejected request")
	ErrGatewayUnavailable = New("gateway unavailable")
)

// Coordination sentinels.
var (
	// ErrMutationInFlight is returned while an earlier confirmed mutation
	// (including its follow-up reload) has not resolved.
	ErrMutationInFlight      = New("a mutation is already in flight")
	ErrNoPendingConfirmation = New("no pending confirmation")
	// ErrCancelDuringMutation: the command behind the dialog is already running.
	ErrCancelDuringMutation = New("cannot cancel while a mutation is in flight")
	ErrAccessDenied         = New("access denied")
)

var (
	ErrInvalidInput = New("invalid input")
	ErrTimeout      = New("operation timed out")
)

// retryer is implemented by errors that know whether a retry could help.
type retryer interface {
	IsRetryable() bool
}

// IsRetryable reports whether err (or anything it wraps) is a transient
// failure. Deadlines count as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var r retryer
	if As(err, &r) {
		return r.IsRetryable()
	}
	return Is(err, ErrTimeout) || Is(err, context.DeadlineExceeded)
}

// GatewayError describes a failed call to a quiz store.
//
// A rejection (NewGatewayError) carries the store's own explanation in
// Reason. A transport failure (NewGatewayTransportError) has no Reason and
// wraps the underlying cause.
type GatewayError struct {
	Op         string
	QuizID     string
	Reason     string
	StatusCode int

	cause     error
	retryable bool
}

// NewGatewayError records a store that refused op with a human-readable reason.
func NewGatewayError(op, reason string) *GatewayError {
	return &GatewayError{Op: op, Reason: reason, cause: ErrGatewayRejected}
}

// NewGatewayTransportError records a store that could not be reached or
// answered with something unreadable. Context deadlines also match ErrTimeout.
func NewGatewayTransportError(op string, cause error) *GatewayError {
	wrapped := fmt.Errorf("%w: %w", ErrGatewayUnavailable, cause)
	if errors.Is(cause, context.DeadlineExceeded) {
		wrapped = fmt.Errorf("%w: %w", ErrTimeout, wrapped)
	}
	return &GatewayError{Op: op, cause: wrapped, retryable: true}
}

// WithQuizID sets the quiz the call was about.
func (e *GatewayError) WithQuizID(id string) *GatewayError {
	e.QuizID = id
	return e
}

// WithStatusCode records the HTTP status. Server-side failures are retryable.
func (e *GatewayError) WithStatusCode(code int) *GatewayError {
	e.StatusCode = code
	if code >= 500 {
		e.retryable = true
	}
	return e
}

func (e *GatewayError) Error() string {
	var ctx []string
	if e.Op != "" {
		ctx = append(ctx, "op="+e.Op)
	}
	if e.QuizID != "" {
		ctx = append(ctx, "quiz="+e.QuizID)
	}
	if e.StatusCode != 0 {
		ctx = append(ctx, fmt.Sprintf("status=%d", e.StatusCode))
	}

	head := "gateway error"
	if len(ctx) > 0 {
		head += " [" + strings.Join(ctx, ", ") + "]"
	}
	if e.Reason != "" {
		return head + ": " + e.Reason
	}
	return fmt.Sprintf("%s: request failed: %v", head, e.cause)
}

func (e *GatewayError) Unwrap() error { return e.cause }

// IsRetryable is true for transport failures and 5xx responses.
func (e *GatewayError) IsRetryable() bool { return e.retryable }

// LifecycleError is returned when an action is requested against a quiz
// whose state does not permit it. Such requests never reach a gateway.
type LifecycleError struct {
	QuizID string
	State  string
	Action string
}

// NewLifecycleError builds a LifecycleError; it matches ErrActionNotAllowed.
func NewLifecycleError(quizID, state, action string) *LifecycleError {
	return &LifecycleError{QuizID: quizID, State: state, Action: action}
}

func (e *LifecycleError) Error() string {
	msg := fmt.Sprintf("%s not allowed while %s", e.Action, e.State)
	if e.QuizID != "" {
		return fmt.Sprintf("lifecycle error [quiz=%s]: %s", e.QuizID, msg)
	}
	return "lifecycle error: " + msg
}

func (e *LifecycleError) Unwrap() error { return ErrActionNotAllowed }

// NotFoundError names a resource that does not exist. A "quiz" NotFoundError
// matches ErrQuizNotFound.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: resourceID}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrQuizNotFound && e.ResourceType == "quiz"
}

// ValidationError reports bad input. It always matches ErrInvalidInput.
type ValidationError struct {
	Message string
	Field   string
	Value   any

	cause error
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

func (e *ValidationError) Error() string {
	var ctx []string
	if e.Field != "" {
		ctx = append(ctx, "field="+e.Field)
	}
	if e.Value != nil {
		ctx = append(ctx, fmt.Sprintf("value=%v", e.Value))
	}

	head := "validation error"
	if len(ctx) > 0 {
		head += " [" + strings.Join(ctx, ", ") + "]"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", head, e.Message, e.cause)
	}
	return head + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func (e *ValidationError) Unwrap() error { return e.cause }

// Reason returns the store-supplied reason from the first GatewayError in
// the chain, unmodified, or "".
func Reason(err error) string {
	var gwErr *GatewayError
	if As(err, &gwErr) {
		return gwErr.Reason
	}
	return ""
}

// UserMessage is the banner text for err: the gateway reason verbatim when
// there is a non-blank one, otherwise fallback. Only a *GatewayError carries
// a reason; any other error, however readable, yields fallback. A nil err
// yields "".
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if reason := Reason(err); strings.TrimSpace(reason) != "" {
		return reason
	}
	return fallback
}

// Wrapf adds formatted context to err, keeping it unwrappable. Nil stays nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
