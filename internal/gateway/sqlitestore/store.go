// Package sqlitestore keeps quizzes in a local SQLite file and implements
// quiz.Gateway over it with the same rules the remote API enforces.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// Store is a quiz.Gateway backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.NewValidationError("store path is required").WithField("store.path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps the read-check-write in SetStatus and Delete
	// serialized without relying on SQLite busy handling.
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			created_at TEXT NOT NULL,
			question_count INTEGER NOT NULL DEFAULT 0,
			time_limit_minutes INTEGER NOT NULL DEFAULT 0,
			submission_count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("quiz store migration failed: %w", err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List implements quiz.Gateway. Newest quizzes come first.
func (s *Store) List(ctx context.Context) ([]quiz.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, status, created_at, question_count,
		time_limit_minutes, submission_count FROM quizzes ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, errors.NewGatewayTransportError("list", err)
	}
	defer rows.Close()

	quizzes := []quiz.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, errors.NewGatewayTransportError("list", err)
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewGatewayTransportError("list", err)
	}
	return quizzes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row scanner) (quiz.Quiz, error) {
	var (
		q       quiz.Quiz
		status  string
		created string
	)
	if err := row.Scan(&q.ID, &q.Title, &status, &created, &q.QuestionCount,
		&q.TimeLimitMinutes, &q.SubmissionCount); err != nil {
		return quiz.Quiz{}, err
	}
	q.State = lifecycle.ParseState(status)
	q.CreatedAt = quiz.ParseCreatedAt(created)
	return q, nil
}

// Get returns a single quiz.
func (s *Store) Get(ctx context.Context, id string) (quiz.Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, status, created_at, question_count,
		time_limit_minutes, submission_count FROM quizzes WHERE id = ?`, id)
	q, err := scanQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Quiz{}, errors.NewNotFoundError("quiz", id)
	}
	if err != nil {
		return quiz.Quiz{}, errors.NewGatewayTransportError("get", err).WithQuizID(id)
	}
	return q, nil
}

// SetStatus implements quiz.Gateway.
func (s *Store) SetStatus(ctx context.Context, id string, target lifecycle.State) error {
	return s.inTx(ctx, "set_status", id, func(tx *sql.Tx, q quiz.Quiz) error {
		if err := quiz.CheckTransition(q, target); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE quizzes SET status = ? WHERE id = ?`, string(target), id)
		return err
	})
}

// Delete implements quiz.Gateway.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.inTx(ctx, "delete", id, func(tx *sql.Tx, q quiz.Quiz) error {
		if err := quiz.CheckDelete(q); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
		return err
	})
}

// inTx loads quiz id inside a transaction and commits if fn succeeds.
// Rule violations from fn are returned as-is; everything else is a
// transport failure.
func (s *Store) inTx(ctx context.Context, op, id string, fn func(*sql.Tx, quiz.Quiz) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewGatewayTransportError(op, err).WithQuizID(id)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT id, title, status, created_at, question_count,
		time_limit_minutes, submission_count FROM quizzes WHERE id = ?`, id)
	q, err := scanQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.NewGatewayError(op, "Quiz not found").WithQuizID(id).WithStatusCode(404)
	}
	if err != nil {
		return errors.NewGatewayTransportError(op, err).WithQuizID(id)
	}

	if err := fn(tx, q); err != nil {
		var gwErr *errors.GatewayError
		if errors.As(err, &gwErr) {
			return err
		}
		return errors.NewGatewayTransportError(op, err).WithQuizID(id)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewGatewayTransportError(op, err).WithQuizID(id)
	}
	return nil
}

// Upsert inserts quizzes or replaces existing rows with the same ID. Quizzes
// without an ID get a new UUID; a zero CreatedAt is set to now. The stored
// quizzes are returned.
func (s *Store) Upsert(ctx context.Context, quizzes []quiz.Quiz) ([]quiz.Quiz, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO quizzes
		(id, title, status, created_at, question_count, time_limit_minutes, submission_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			created_at = excluded.created_at,
			question_count = excluded.question_count,
			time_limit_minutes = excluded.time_limit_minutes,
			submission_count = excluded.submission_count`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	stored := make([]quiz.Quiz, 0, len(quizzes))
	for i, q := range quizzes {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.CreatedAt.IsZero() {
			// Keep fixture order stable under ORDER BY created_at DESC.
			q.CreatedAt = now.Add(-time.Duration(i) * time.Second)
		}
		if q.State == "" {
			q.State = lifecycle.Draft
		}
		if _, err := stmt.ExecContext(ctx, q.ID, q.Title, string(q.State),
			q.CreatedAt.UTC().Format(time.RFC3339Nano), q.QuestionCount,
			q.TimeLimitMinutes, q.SubmissionCount); err != nil {
			return nil, fmt.Errorf("upsert quiz %q: %w", q.Title, err)
		}
		stored = append(stored, q)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

// Reset deletes every quiz.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quizzes`)
	return err
}
