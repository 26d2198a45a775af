package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/questionbank/internal/domain/entities"
)

type headFilter struct{}

func (headFilter) FilterQuestions(pool []entities.Question, criteria entities.SelectionCriteria) []entities.Question {
	if len(pool) > criteria.QuestionCount {
		return pool[:criteria.QuestionCount]
	}
	return pool
}

func fixedPool(calls *int, questions ...entities.Question) PoolFunc {
	return func(_ context.Context) ([]entities.Question, error) {
		*calls++
		return questions, nil
	}
}

func activeQuestion(id string) entities.Question {
	return entities.Question{
		ID:           id,
		Question:     "Question " + id,
		Options:      []string{"a", "b"},
		AircraftType: entities.AircraftGeneral,
		Category:     "General",
		Difficulty:   entities.DifficultyBasic,
		IsActive:     true,
	}
}

func TestLoad_ServesFromCacheUntilExpiry(t *testing.T) {
	calls := 0
	l := New(fixedPool(&calls, activeQuestion("a"), activeQuestion("b")), headFilter{}, nil, Options{CacheTTL: time.Minute})

	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }

	criteria := entities.SelectionCriteria{QuestionCount: 1}

	first, err := l.Load(context.Background(), criteria)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, calls)

	second, err := l.Load(context.Background(), criteria)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second load should hit the cache")

	// After the TTL the entry expires regardless of capacity.
	now = now.Add(2 * time.Minute)
	_, err = l.Load(context.Background(), criteria)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoad_DistinctCriteriaDistinctEntries(t *testing.T) {
	calls := 0
	l := New(fixedPool(&calls, activeQuestion("a"), activeQuestion("b")), headFilter{}, nil, Options{CacheTTL: time.Minute})

	_, err := l.Load(context.Background(), entities.SelectionCriteria{QuestionCount: 1})
	require.NoError(t, err)
	_, err = l.Load(context.Background(), entities.SelectionCriteria{QuestionCount: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestLoad_SupersededRequestIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	pool := func(_ context.Context) ([]entities.Question, error) {
		calls++
		// A newer request supersedes this one while the pool loads.
		cancel()
		return []entities.Question{activeQuestion("a")}, nil
	}
	l := New(pool, headFilter{}, nil, Options{})

	_, err := l.Load(ctx, entities.SelectionCriteria{QuestionCount: 1})
	assert.ErrorIs(t, err, context.Canceled)

	// Nothing was cached for the cancelled request.
	got, err := l.Load(context.Background(), entities.SelectionCriteria{QuestionCount: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, calls)
}

func TestLoad_PoolErrorPropagates(t *testing.T) {
	wantErr := errors.New("database gone")
	l := New(func(_ context.Context) ([]entities.Question, error) {
		return nil, wantErr
	}, headFilter{}, nil, Options{})

	_, err := l.Load(context.Background(), entities.SelectionCriteria{QuestionCount: 1})
	assert.ErrorIs(t, err, wantErr)
}

func TestInvalidate_DropsCachedEntries(t *testing.T) {
	calls := 0
	l := New(fixedPool(&calls, activeQuestion("a")), headFilter{}, nil, Options{CacheTTL: time.Minute})

	criteria := entities.SelectionCriteria{QuestionCount: 1}
	_, err := l.Load(context.Background(), criteria)
	require.NoError(t, err)

	l.Invalidate()

	_, err = l.Load(context.Background(), criteria)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
