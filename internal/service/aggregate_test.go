package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/questionbank/internal/domain/entities"
)

func fixedSource(name string, questions ...entities.Question) QuestionSource {
	return SourceFunc(name, func(_ context.Context) ([]entities.Question, error) {
		return questions, nil
	})
}

func failingSource(name string) QuestionSource {
	return SourceFunc(name, func(_ context.Context) ([]entities.Question, error) {
		return nil, errors.New("source unavailable")
	})
}

func TestAggregator_SkipsFailingSources(t *testing.T) {
	agg := NewAggregator(nil,
		fixedSource("core", testQuestion("a", entities.AircraftGeneral, "General", entities.DifficultyBasic)),
		failingSource("broken"),
		fixedSource("community", testQuestion("b", entities.AircraftGeneral, "General", entities.DifficultyBasic)),
	)

	pool, results := agg.LoadAll(context.Background())

	require.Len(t, pool, 2)
	assert.Equal(t, "a", pool[0].ID)
	assert.Equal(t, "b", pool[1].ID)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, results[2].Count)
}

func TestAggregator_AllSourcesFailing(t *testing.T) {
	agg := NewAggregator(nil, failingSource("x"), failingSource("y"))

	pool, results := agg.LoadAll(context.Background())

	assert.Empty(t, pool)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Error(t, res.Err)
	}
}
