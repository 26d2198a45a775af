package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aeroprep/questionbank/internal/domain/entities"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuestionRepository provides access to one static question file.
// Each file holds an independently maintained slice of the bank, so a
// repository doubles as an aggregation source.
type QuestionRepository struct {
	name      string
	questions []entities.Question
}

// NewQuestionRepository loads the question file at path.
func NewQuestionRepository(path string) (*QuestionRepository, error) {
	questions, err := readQuestionFile(path)
	if err != nil {
		return nil, err
	}

	return &QuestionRepository{
		name:      filepath.Base(path),
		questions: questions,
	}, nil
}

// Name returns the source name (the file's base name).
func (r *QuestionRepository) Name() string {
	return r.name
}

// Load returns every question in the file.
func (r *QuestionRepository) Load(_ context.Context) ([]entities.Question, error) {
	return r.questions, nil
}

// GetByID retrieves a question by its ID.
func (r *QuestionRepository) GetByID(_ context.Context, id string) (*entities.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			return &r.questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}

// Count returns the number of questions in the file.
func (r *QuestionRepository) Count() int {
	return len(r.questions)
}

func readQuestionFile(path string) ([]entities.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Questions []entities.Question `json:"questions"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}

	for i, q := range wrapper.Questions {
		if !q.Valid() {
			return nil, fmt.Errorf("question %d (%q): options or correct answer index out of range", i, q.ID)
		}
	}

	return wrapper.Questions, nil
}
