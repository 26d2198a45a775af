package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aeroprep/questionbank/internal/domain/entities"
)

// QuestionSource supplies one independently maintained slice of the
// question bank (a static file, a database table, ...).
type QuestionSource interface {
	Name() string
	Load(ctx context.Context) ([]entities.Question, error)
}

// SourceFunc adapts a plain loader function to the QuestionSource
// interface.
func SourceFunc(name string, load func(ctx context.Context) ([]entities.Question, error)) QuestionSource {
	return funcSource{name: name, load: load}
}

type funcSource struct {
	name string
	load func(ctx context.Context) ([]entities.Question, error)
}

func (s funcSource) Name() string { return s.name }

func (s funcSource) Load(ctx context.Context) ([]entities.Question, error) {
	return s.load(ctx)
}

// SourceResult records the outcome of loading a single source, so
// partial failures are inspectable rather than only visible in logs.
type SourceResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Err    error  `json:"-"`
}

// Aggregator concatenates questions from several sources into one
// pool. A failing source is logged and skipped; the pool is only empty
// when every source fails or returns nothing.
type Aggregator struct {
	sources []QuestionSource
	logger  *zap.Logger
}

// NewAggregator creates an aggregator over the given sources.
func NewAggregator(logger *zap.Logger, sources ...QuestionSource) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{sources: sources, logger: logger}
}

// LoadAll loads every source in order and returns the merged pool
// together with a per-source report.
func (a *Aggregator) LoadAll(ctx context.Context) ([]entities.Question, []SourceResult) {
	var pool []entities.Question
	results := make([]SourceResult, 0, len(a.sources))

	for _, src := range a.sources {
		questions, err := src.Load(ctx)
		if err != nil {
			a.logger.Warn("question source failed, skipping",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			results = append(results, SourceResult{Source: src.Name(), Err: err})
			continue
		}

		pool = append(pool, questions...)
		results = append(results, SourceResult{Source: src.Name(), Count: len(questions)})
	}

	return pool, results
}
