package sqlitestore

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/quizdesk/internal/lifecycle"
	"github.com/Iron-Ham/quizdesk/internal/quiz"
)

//go:embed sample.yaml
var sampleFixture []byte

// Fixture is the YAML seed file format.
type Fixture struct {
	Quizzes []quiz.Quiz `yaml:"quizzes"`
}

// ParseFixture decodes a seed file. Status values are normalized; an unknown
// status is an error so typos do not end up as unmanageable rows.
func ParseFixture(r io.Reader) ([]quiz.Quiz, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return []quiz.Quiz{}, nil
		}
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	for i := range f.Quizzes {
		q := &f.Quizzes[i]
		if strings.TrimSpace(q.Title) == "" {
			return nil, fmt.Errorf("fixture quiz %d: title is required", i+1)
		}
		if q.State == "" {
			q.State = lifecycle.Draft
			continue
		}
		q.State = lifecycle.ParseState(string(q.State))
		if !q.State.Valid() {
			return nil, fmt.Errorf("fixture quiz %q: unknown status %q", q.Title, q.State)
		}
	}
	if f.Quizzes == nil {
		f.Quizzes = []quiz.Quiz{}
	}
	return f.Quizzes, nil
}

// SampleQuizzes returns the built-in demo data.
func SampleQuizzes() []quiz.Quiz {
	quizzes, err := ParseFixture(bytes.NewReader(sampleFixture))
	if err != nil {
		panic(fmt.Sprintf("sqlitestore: built-in fixture is invalid: %v", err))
	}
	return quizzes
}
