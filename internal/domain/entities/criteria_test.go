package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionCriteria_CacheKey(t *testing.T) {
	a := SelectionCriteria{Mode: ModeTimed, Categories: []string{"electrical", "fuel"}, Aircraft: AircraftA320Family, Difficulty: DifficultyBasic, QuestionCount: 10}
	b := a
	b.QuestionCount = 20

	assert.Equal(t, a.CacheKey(), a.CacheKey())
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())
}

func TestSelectionCriteria_WantsAllCategories(t *testing.T) {
	assert.True(t, SelectionCriteria{}.WantsAllCategories())
	assert.True(t, SelectionCriteria{Categories: []string{"ALL"}}.WantsAllCategories())
	assert.True(t, SelectionCriteria{Categories: []string{"electrical", "none"}}.WantsAllCategories())
	assert.False(t, SelectionCriteria{Categories: []string{"electrical"}}.WantsAllCategories())
}

func TestQuestion_Valid(t *testing.T) {
	q := Question{Options: []string{"a", "b"}, CorrectAnswer: 1}
	assert.True(t, q.Valid())

	q.CorrectAnswer = 2
	assert.False(t, q.Valid())

	q = Question{Options: []string{"only"}, CorrectAnswer: 0}
	assert.False(t, q.Valid())
}
