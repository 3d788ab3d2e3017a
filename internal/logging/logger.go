package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels accepted in configuration.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the file NewLogger writes inside the log directory.
const LogFileName = "quizdesk.log"

var slogLevels = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// sink is the output shared by a logger and all of its children.
type sink struct {
	mu     sync.Mutex
	closer io.Closer
}

func (s *sink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Logger writes JSON lines through log/slog. Child loggers created with the
// With* methods share the parent's output. Safe for concurrent use; a nil
// *Logger discards everything.
type Logger struct {
	slog *slog.Logger
	out  *sink
}

// NewLogger opens {dir}/quizdesk.log behind a RotatingWriter and logs at
// level and above. Unknown levels fall back to INFO.
func NewLogger(dir string, level string, rotation RotationConfig) (*Logger, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("log directory is required")
	}

	rw, err := NewRotatingWriter(filepath.Join(dir, LogFileName), rotation)
	if err != nil {
		return nil, err
	}
	return build(rw, level, rw), nil
}

// NewWriterLogger logs to w. Close leaves w open.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return build(w, level, nil)
}

// NopLogger discards all output.
func NopLogger() *Logger {
	return NewWriterLogger(io.Discard, LevelError)
}

func build(w io.Writer, level string, closer io.Closer) *Logger {
	opts := &slog.HandlerOptions{Level: slogLevels[ParseLevel(level)]}
	return &Logger{
		slog: slog.New(slog.NewJSONHandler(w, opts)),
		out:  &sink{closer: closer},
	}
}

// WithQuiz tags entries with quiz_id.
func (l *Logger) WithQuiz(quizID string) *Logger {
	return l.With("quiz_id", quizID)
}

// WithOperation tags entries with op (publish, delete, list).
func (l *Logger) WithOperation(op string) *Logger {
	return l.With("op", op)
}

// WithComponent tags entries with component.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// With returns a child carrying the given key/value pairs. Pairs whose key
// is not a string are dropped.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || len(args) == 0 {
		return l
	}
	attrs := make([]any, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		}
	}
	return &Logger{slog: l.slog.With(attrs...), out: l.out}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil {
		l.slog.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil {
		l.slog.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l != nil {
		l.slog.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l != nil {
		l.slog.Error(msg, args...)
	}
}

// Close closes the log file. Children share it, so closing one closes all.
// Later writes are silently dropped.
func (l *Logger) Close() error {
	if l == nil || l.out == nil {
		return nil
	}
	return l.out.close()
}

// ParseLevel normalises a configured level, defaulting to LevelInfo.
func ParseLevel(level string) string {
	upper := strings.ToUpper(strings.TrimSpace(level))
	if _, ok := slogLevels[upper]; ok {
		return upper
	}
	return LevelInfo
}

// ValidLevels lists the accepted levels from most to least verbose.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
