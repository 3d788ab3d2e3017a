package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// Envelope is the JSON body every quiz API response is wrapped in.
type Envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Data      json.RawMessage     `json:"data,omitempty"`
	ErrorCode string              `json:"error_code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

// QuizPayload is one element of the list data. CreatedAt stays a string so
// an odd timestamp on one quiz cannot fail the whole list.
type QuizPayload struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	QuestionCount    int    `json:"question_count"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
	SubmissionCount  int    `json:"submission_count"`
}

// Quiz converts the payload, normalising the status and timestamp.
func (p QuizPayload) Quiz() quiz.Quiz {
	return quiz.Quiz{
		ID:               p.ID,
		Title:            p.Title,
		State:            lifecycle.ParseState(p.Status),
		CreatedAt:        quiz.ParseCreatedAt(p.CreatedAt),
		QuestionCount:    p.QuestionCount,
		TimeLimitMinutes: p.TimeLimitMinutes,
		SubmissionCount:  p.SubmissionCount,
	}
}

// StatusRequest is the body of PATCH /quizzes/{id}.
type StatusRequest struct {
	Status string `json:"status"`
}

// ErrorCode maps an HTTP status to the error_code field.
func ErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}
