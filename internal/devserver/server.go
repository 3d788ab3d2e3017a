// Package devserver serves a quiz.Gateway over the same REST API the httpapi
// client speaks. It exists so the HTTP backend can be run end to end against
// a local SQLite store.
package devserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/gateway/httpapi"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/logging"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// BasePath is the prefix every quiz route lives under.
const BasePath = "/api/teacher"

// Server exposes a gateway over HTTP.
type Server struct {
	gateway quiz.Gateway
	token   string
	logger  *logging.Logger
}

// New creates a server. When token is non-empty every quiz route requires
// "Authorization: Bearer <token>".
func New(gw quiz.Gateway, token string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Server{gateway: gw, token: token, logger: logger.WithComponent("devserver")}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeOK(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
	})

	r.Route(BasePath+"/quizzes", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleList)
		r.Patch("/{quizID}", s.handleSetStatus)
		r.Delete("/{quizID}", s.handleDelete)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(got) != s.token {
				writeError(w, http.StatusUnauthorized, "Missing or invalid token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.gateway.List(r.Context())
	if err != nil {
		s.writeGatewayError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "ok", quizzes)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quizID")

	var req httpapi.StatusRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	target := lifecycle.ParseState(req.Status)
	if !target.Valid() {
		writeError(w, http.StatusUnprocessableEntity, quiz.ReasonInvalidStatus)
		return
	}

	if err := s.gateway.SetStatus(r.Context(), id, target); err != nil {
		s.writeGatewayError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Quiz status updated", map[string]string{"id": id, "status": string(target)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quizID")
	if err := s.gateway.Delete(r.Context(), id); err != nil {
		s.writeGatewayError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Quiz deleted", map[string]string{"id": id})
}

// writeGatewayError maps store errors onto status codes. Rejections keep
// their reason; anything else is reported as an internal error.
func (s *Server) writeGatewayError(w http.ResponseWriter, err error) {
	var gwErr *errors.GatewayError
	if errors.As(err, &gwErr) && errors.Is(err, errors.ErrGatewayRejected) {
		status := gwErr.StatusCode
		if status == 0 {
			status = http.StatusConflict
		}
		writeError(w, status, gwErr.Reason)
		return
	}
	if errors.Is(err, errors.ErrQuizNotFound) {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}
	s.logger.Error("store failure", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, status, httpapi.Envelope{Success: true, Message: message, Data: raw})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, httpapi.Envelope{
		Success:   false,
		Message:   message,
		ErrorCode: httpapi.ErrorCode(status),
	})
}

func writeJSON(w http.ResponseWriter, status int, env httpapi.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
