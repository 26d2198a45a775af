package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQuestionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewQuestionRepository_LoadsFile(t *testing.T) {
	path := writeQuestionFile(t, `{
		"questions": [
			{
				"id": "q1",
				"question": "How many hydraulic systems does the A320 have?",
				"options": ["Two", "Three"],
				"correctAnswer": 1,
				"aircraftType": "A320_FAMILY",
				"category": "Hydraulics",
				"difficulty": "basic",
				"isActive": true,
				"creationTime": 1700000000000
			}
		]
	}`)

	repo, err := NewQuestionRepository(path)
	require.NoError(t, err)

	assert.Equal(t, "questions.json", repo.Name())
	assert.Equal(t, 1, repo.Count())

	questions, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q1", questions[0].ID)

	q, err := repo.GetByID(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, 1, q.CorrectAnswer)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestNewQuestionRepository_RejectsInvalidQuestions(t *testing.T) {
	path := writeQuestionFile(t, `{
		"questions": [
			{
				"id": "broken",
				"question": "Index out of range",
				"options": ["Only one"],
				"correctAnswer": 3,
				"aircraftType": "GENERAL",
				"category": "General",
				"difficulty": "basic",
				"isActive": true
			}
		]
	}`)

	_, err := NewQuestionRepository(path)
	assert.Error(t, err)
}

func TestNewQuestionRepository_MissingFile(t *testing.T) {
	_, err := NewQuestionRepository(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNewQuestionRepository_MalformedJSON(t *testing.T) {
	path := writeQuestionFile(t, `{"questions": [`)
	_, err := NewQuestionRepository(path)
	assert.Error(t, err)
}
