// Package quiz holds the quiz entity and the Gateway capability that every
// quiz store (remote API, local SQLite file, in-memory fake) implements.
package quiz

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
)

// Quiz is a teacher-owned quiz as returned by a store. Only ID and State carry
// invariants; everything else is display data.
type Quiz struct {
	ID               string          `json:"id" yaml:"id"`
	Title            string          `json:"title" yaml:"title"`
	State            lifecycle.State `json:"status" yaml:"status"`
	CreatedAt        time.Time       `json:"created_at" yaml:"created_at"`
	QuestionCount    int             `json:"question_count" yaml:"question_count"`
	TimeLimitMinutes int             `json:"time_limit_minutes" yaml:"time_limit_minutes"`
	SubmissionCount  int             `json:"submission_count" yaml:"submission_count"`
}

// Gateway is the capability the coordinator consumes. Implementations report
// rejections as *errors.GatewayError carrying a human-readable reason; that
// reason is shown to the user verbatim. Any other error type is treated as a
// failure without a reason and shown as the operation's generic message, so
// wrap readable refusals with errors.NewGatewayError.
type Gateway interface {
	// List returns every quiz visible to the caller.
	List(ctx context.Context) ([]Quiz, error)
	// SetStatus requests a lifecycle transition.
	SetStatus(ctx context.Context, id string, target lifecycle.State) error
	// Delete removes a quiz permanently.
	Delete(ctx context.Context, id string) error
}

// createdLayouts are tried in order by ParseCreatedAt.
var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseCreatedAt reads a creation timestamp in any of the formats stores are
// known to emit. Anything unparseable (including "") yields the zero time so
// the quiz is still listed.
func ParseCreatedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Find returns the quiz with the given ID.
func Find(quizzes []Quiz, id string) (Quiz, bool) {
	for _, q := range quizzes {
		if q.ID == id {
			return q, true
		}
	}
	return Quiz{}, false
}

// Clone returns an independent copy of quizzes. A nil input yields nil.
func Clone(quizzes []Quiz) []Quiz {
	return slices.Clone(quizzes)
}

// FilterByState returns the quizzes in state s, preserving order.
// An empty state matches everything.
func FilterByState(quizzes []Quiz, s lifecycle.State) []Quiz {
	if s == "" {
		return quizzes
	}
	out := make([]Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		if q.State == s {
			out = append(out, q)
		}
	}
	return out
}
