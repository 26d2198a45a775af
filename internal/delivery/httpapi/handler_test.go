package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/questionbank/internal/domain/entities"
	"github.com/aeroprep/questionbank/internal/loader"
	"github.com/aeroprep/questionbank/internal/service"
)

func testPool() []entities.Question {
	return []entities.Question{
		{
			ID:            "a1",
			Question:      "What is the normal AC power source priority in the A320?",
			Options:       []string{"a", "b"},
			CorrectAnswer: 0,
			AircraftType:  entities.AircraftA320Family,
			Category:      "Electrical",
			Difficulty:    entities.DifficultyBasic,
			IsActive:      true,
		},
		{
			ID:            "a2",
			Question:      "what is the normal ac power source priority in the a320",
			Options:       []string{"a", "b"},
			CorrectAnswer: 0,
			AircraftType:  entities.AircraftA320Family,
			Category:      "Electrical",
			Difficulty:    entities.DifficultyBasic,
			IsActive:      true,
			Explanation:   "engine generators first",
		},
		{
			ID:            "g1",
			Question:      "What does the acronym APU stand for?",
			Options:       []string{"a", "b"},
			CorrectAnswer: 0,
			AircraftType:  entities.AircraftGeneral,
			Category:      "General",
			Difficulty:    entities.DifficultyBasic,
			IsActive:      true,
		},
	}
}

func newTestHandler() *Handler {
	agg := service.NewAggregator(nil, service.SourceFunc("test", func(_ context.Context) ([]entities.Question, error) {
		return testPool(), nil
	}))
	filter := service.NewFilterService(service.FilterOptions{Rand: rand.New(rand.NewSource(1))})
	dedup := service.NewDuplicateService(service.DedupOptions{})

	poolFn := func(ctx context.Context) ([]entities.Question, error) {
		pool, _ := agg.LoadAll(ctx)
		return pool, nil
	}
	l := loader.New(poolFn, filter, nil, loader.Options{})

	return NewHandler(l, dedup, agg, nil)
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestFilterQuestionsEndpoint(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h, http.MethodPost, "/api/quiz/questions", entities.SelectionCriteria{
		Aircraft:      entities.AircraftA320Family,
		Categories:    []string{"electrical"},
		QuestionCount: 2,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool                `json:"success"`
		Data    []entities.Question `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Len(t, envelope.Data, 2)
}

func TestFilterQuestionsEndpoint_RejectsBadCount(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h, http.MethodPost, "/api/quiz/questions", entities.SelectionCriteria{QuestionCount: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterQuestionsEndpoint_RejectsBadBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/questions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDuplicateReportEndpoint(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/questions/duplicates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data entities.DuplicateAnalysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 3, envelope.Data.TotalCount)
	assert.Equal(t, 1, envelope.Data.DuplicateCount)
}

func TestRemoveDuplicatesEndpoint(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h, http.MethodPost, "/api/questions/dedup", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data dedupResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.CleanCount)
	assert.Equal(t, 1, envelope.Data.RemovedCount)
}

func TestSourceStatusEndpoint(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/questions/sources", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []sourceStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "test", envelope.Data[0].Source)
	assert.Equal(t, 3, envelope.Data[0].Count)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
