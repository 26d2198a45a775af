package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aeroprep/questionbank/internal/domain/entities"
)

const defaultCacheTTL = 5 * time.Minute

// Filterer selects questions from a pool according to criteria.
type Filterer interface {
	FilterQuestions(pool []entities.Question, criteria entities.SelectionCriteria) []entities.Question
}

// PoolFunc supplies the current question pool.
type PoolFunc func(ctx context.Context) ([]entities.Question, error)

// Options tunes the loader. The zero value uses the package defaults.
type Options struct {
	CacheTTL time.Duration
}

// QuestionLoader sits between callers and the filter service, caching
// filtered sets per criteria for a fixed duration. A caller that
// supersedes an in-flight load cancels that load's context; the loader
// checks cancellation after the pool load and discards the stale
// result instead of caching it.
type QuestionLoader struct {
	pool   PoolFunc
	filter Filterer
	ttl    time.Duration
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry

	now func() time.Time
}

type cacheEntry struct {
	questions []entities.Question
	expires   time.Time
}

// New creates a question loader.
func New(pool PoolFunc, filter Filterer, logger *zap.Logger, opts Options) *QuestionLoader {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionLoader{
		pool:   pool,
		filter: filter,
		ttl:    opts.CacheTTL,
		logger: logger,
		cache:  make(map[string]cacheEntry),
		now:    time.Now,
	}
}

// Load returns the filtered question set for the criteria, serving
// from the time-based cache when a fresh entry exists.
func (l *QuestionLoader) Load(ctx context.Context, criteria entities.SelectionCriteria) ([]entities.Question, error) {
	key := criteria.CacheKey()

	l.mu.Lock()
	if e, ok := l.cache[key]; ok && l.now().Before(e.expires) {
		l.mu.Unlock()
		return e.questions, nil
	}
	l.mu.Unlock()

	pool, err := l.pool(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	// A superseded request was cancelled by its caller; drop the result.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	questions := l.filter.FilterQuestions(pool, criteria)

	l.mu.Lock()
	l.cache[key] = cacheEntry{questions: questions, expires: l.now().Add(l.ttl)}
	l.mu.Unlock()

	l.logger.Debug("filtered question set loaded",
		zap.String("criteria", key),
		zap.Int("count", len(questions)),
	)
	return questions, nil
}

// Invalidate drops every cached entry, e.g. after the underlying pool
// changed.
func (l *QuestionLoader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]cacheEntry)
}
