// Package memory provides an in-process quiz.Gateway. It applies the same
// store rules as the SQLite backend and can be told to fail or block the next
// call, which makes it the fake used throughout the tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Iron-Ham/quizdesk/internal/errors"
	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

// Calls counts gateway invocations by method.
type Calls struct {
	List      int
	SetStatus int
	Delete    int
}

// Mutations returns SetStatus + Delete.
func (c Calls) Mutations() int {
	return c.SetStatus + c.Delete
}

// Store is a thread-safe in-memory quiz store.
type Store struct {
	mu      sync.Mutex
	quizzes []quiz.Quiz
	calls   Calls

	failNext map[string]error
	hold     map[string]chan struct{}
}

// New creates a store holding a copy of quizzes in the given order.
func New(quizzes ...quiz.Quiz) *Store {
	return &Store{
		quizzes:  slices.Clone(quizzes),
		failNext: make(map[string]error),
		hold:     make(map[string]chan struct{}),
	}
}

// Method names accepted by FailNext and Hold.
const (
	MethodList      = "list"
	MethodSetStatus = "set_status"
	MethodDelete    = "delete"
)

// FailNext makes the next call to method return err without applying it.
func (s *Store) FailNext(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method] = err
}

// Hold makes every call to method block until the returned release function
// is called or the call's context ends.
func (s *Store) Hold(method string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold[method] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.hold[method] == ch {
				delete(s.hold, method)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns the call counters.
func (s *Store) Calls() Calls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Put inserts or replaces a quiz, simulating a change made by someone else.
func (s *Store) Put(q quiz.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.quizzes {
		if s.quizzes[i].ID == q.ID {
			s.quizzes[i] = q
			return
		}
	}
	s.quizzes = append(s.quizzes, q)
}

// Snapshot returns the stored quizzes without counting as a List call.
func (s *Store) Snapshot() []quiz.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.quizzes)
}

// begin counts the call, waits on any hold and consumes a queued failure.
func (s *Store) begin(ctx context.Context, method string) error {
	s.mu.Lock()
	switch method {
	case MethodList:
		s.calls.List++
	case MethodSetStatus:
		s.calls.SetStatus++
	case MethodDelete:
		s.calls.Delete++
	}
	ch := s.hold[method]
	s.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return errors.NewGatewayTransportError(method, ctx.Err())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failNext[method]; ok {
		delete(s.failNext, method)
		return err
	}
	return nil
}

// List implements quiz.Gateway.
func (s *Store) List(ctx context.Context) ([]quiz.Quiz, error) {
	if err := s.begin(ctx, MethodList); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.quizzes), nil
}

// SetStatus implements quiz.Gateway.
func (s *Store) SetStatus(ctx context.Context, id string, target lifecycle.State) error {
	if err := s.begin(ctx, MethodSetStatus); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return notFound(MethodSetStatus, id)
	}
	if err := quiz.CheckTransition(s.quizzes[i], target); err != nil {
		return err
	}
	s.quizzes[i].State = target
	return nil
}

// Delete implements quiz.Gateway.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.begin(ctx, MethodDelete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return notFound(MethodDelete, id)
	}
	if err := quiz.CheckDelete(s.quizzes[i]); err != nil {
		return err
	}
	s.quizzes = slices.Delete(s.quizzes, i, i+1)
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.quizzes, func(q quiz.Quiz) bool { return q.ID == id })
}

func notFound(op, id string) error {
	return errors.NewGatewayError(op, "Quiz not found").WithQuizID(id).WithStatusCode(404)
}
