package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aeroprep/questionbank/internal/domain/entities"
	"github.com/aeroprep/questionbank/internal/loader"
	"github.com/aeroprep/questionbank/internal/service"
)

// Handler wires the question engine to HTTP.
type Handler struct {
	loader *loader.QuestionLoader
	dedup  *service.DuplicateService
	agg    *service.Aggregator
	logger *zap.Logger
}

// NewHandler creates an HTTP handler over the loader, dedup service
// and aggregator.
func NewHandler(l *loader.QuestionLoader, dedup *service.DuplicateService, agg *service.Aggregator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{loader: l, dedup: dedup, agg: agg, logger: logger}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quiz/questions", h.filterQuestions)
		r.Get("/questions/duplicates", h.duplicateReport)
		r.Post("/questions/dedup", h.removeDuplicates)
		r.Get("/questions/sources", h.sourceStatus)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	sendSuccess(w, "ok", nil)
}

// filterQuestions selects a question set for a quiz request. An empty
// selection is a valid success response; the client falls back to its
// own minimal question set.
func (h *Handler) filterQuestions(w http.ResponseWriter, r *http.Request) {
	var criteria entities.SelectionCriteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if criteria.QuestionCount <= 0 {
		sendError(w, http.StatusBadRequest, "questionCount must be positive")
		return
	}

	questions, err := h.loader.Load(r.Context(), criteria)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away or superseded the request.
			return
		}
		h.logger.Error("load questions failed", zap.Error(err))
		sendError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	if questions == nil {
		questions = []entities.Question{}
	}
	sendSuccess(w, "", questions)
}

func (h *Handler) duplicateReport(w http.ResponseWriter, r *http.Request) {
	pool, _ := h.agg.LoadAll(r.Context())
	sendSuccess(w, "", h.dedup.Analyze(pool))
}

type dedupResponse struct {
	CleanCount   int                        `json:"cleanCount"`
	RemovedCount int                        `json:"removedCount"`
	Analysis     entities.DuplicateAnalysis `json:"analysis"`
}

// removeDuplicates runs a dedup pass over the aggregated pool and
// reports the outcome. Persisting the clean pool is an admin concern
// handled by the CLI.
func (h *Handler) removeDuplicates(w http.ResponseWriter, r *http.Request) {
	pool, _ := h.agg.LoadAll(r.Context())
	result := h.dedup.RemoveDuplicates(pool)

	sendSuccess(w, "", dedupResponse{
		CleanCount:   len(result.CleanPool),
		RemovedCount: len(result.Removed),
		Analysis:     result.Analysis,
	})
}

type sourceStatus struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) sourceStatus(w http.ResponseWriter, r *http.Request) {
	_, results := h.agg.LoadAll(r.Context())

	statuses := make([]sourceStatus, 0, len(results))
	for _, res := range results {
		s := sourceStatus{Source: res.Source, Count: res.Count}
		if res.Err != nil {
			s.Error = res.Err.Error()
		}
		statuses = append(statuses, s)
	}
	sendSuccess(w, "", statuses)
}
