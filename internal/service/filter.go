package service

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aeroprep/questionbank/internal/domain/entities"
)

const (
	defaultResultCacheSize   = 25
	defaultCategoryMemoSize  = 1000
	defaultSampleStride      = 3
	defaultFallbackSampleCap = 20
)

// aircraftAliases maps a requested aircraft tag to the other tags that
// should satisfy it. GENERAL questions always match.
var aircraftAliases = map[string][]string{
	entities.AircraftA320Family: {"A320"},
	entities.AircraftB737Family: {"B737", "BOEING_737"},
}

// FilterOptions tunes the filter service. Zero values fall back to the
// package defaults above.
type FilterOptions struct {
	ResultCacheSize   int
	CategoryMemoSize  int
	SampleStride      int // every-Nth sampling used by review mode and the last-resort fallback
	FallbackSampleCap int
	Aliases           map[string][]string // category alias table; nil uses DefaultCategoryAliases
	Rand              *rand.Rand          // injectable randomness so shuffling is seedable in tests
}

// FilterService selects questions from an in-memory pool according to
// selection criteria. Each call is a pure function of the pool, the
// criteria and the injected randomness; the only shared state is the
// bounded result cache and the category memo.
type FilterService struct {
	matcher   *CategoryMatcher
	cache     *boundedCache[[]entities.Question]
	stride    int
	sampleCap int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewFilterService creates a filter service with the given options.
func NewFilterService(opts FilterOptions) *FilterService {
	if opts.ResultCacheSize <= 0 {
		opts.ResultCacheSize = defaultResultCacheSize
	}
	if opts.CategoryMemoSize <= 0 {
		opts.CategoryMemoSize = defaultCategoryMemoSize
	}
	if opts.SampleStride <= 0 {
		opts.SampleStride = defaultSampleStride
	}
	if opts.FallbackSampleCap <= 0 {
		opts.FallbackSampleCap = defaultFallbackSampleCap
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &FilterService{
		matcher:   NewCategoryMatcher(opts.Aliases, opts.CategoryMemoSize),
		cache:     newBoundedCache[[]entities.Question](opts.ResultCacheSize),
		stride:    opts.SampleStride,
		sampleCap: opts.FallbackSampleCap,
		rng:       opts.Rand,
	}
}

// FilterQuestions returns exactly criteria.QuestionCount questions
// satisfying (or best-effort approximating) the criteria. Inactive
// questions never appear. When the strict pipeline yields nothing the
// constraints are progressively relaxed against the original pool;
// when the match set is still short of the requested count it is
// padded with variant copies. An empty pool, a pool with no active
// questions or a non-positive count yields an empty result.
func (s *FilterService) FilterQuestions(pool []entities.Question, criteria entities.SelectionCriteria) []entities.Question {
	if criteria.QuestionCount <= 0 || len(pool) == 0 {
		return nil
	}

	key := criteria.CacheKey()
	if cached, ok := s.cache.get(key); ok {
		return cached
	}

	base := activeOnly(pool)
	if len(base) == 0 {
		return nil
	}

	working := s.applyMode(base, criteria.Mode)
	working = filterByAircraft(working, criteria.Aircraft)
	working = s.filterByCategories(working, criteria)
	working = filterByDifficulty(working, criteria.Difficulty)

	if len(working) == 0 {
		working = s.fallback(base, criteria)
	}
	if len(working) == 0 {
		return nil
	}

	result := s.shuffleAndPad(working, criteria.QuestionCount)
	s.cache.put(key, result)
	return result
}

// applyMode runs the mode-specific stage. Review mode samples every
// Nth question as a stand-in for previously missed material; timed
// mode shuffles up front so the review sampling order never leaks into
// timed quizzes.
func (s *FilterService) applyMode(pool []entities.Question, mode string) []entities.Question {
	switch mode {
	case entities.ModeReview:
		return sampleEveryNth(pool, s.stride)
	case entities.ModeTimed:
		out := make([]entities.Question, len(pool))
		copy(out, pool)
		s.shuffle(out)
		return out
	default:
		return pool
	}
}

// filterByAircraft keeps GENERAL questions plus exact and alias
// matches for the requested aircraft. Empty or ALL disables the stage.
func filterByAircraft(pool []entities.Question, aircraft string) []entities.Question {
	if aircraft == "" || aircraft == entities.AircraftAll {
		return pool
	}

	out := make([]entities.Question, 0, len(pool))
	for _, q := range pool {
		if matchesAircraft(q.AircraftType, aircraft) {
			out = append(out, q)
		}
	}
	return out
}

func matchesAircraft(questionAircraft, requested string) bool {
	if questionAircraft == entities.AircraftGeneral || questionAircraft == requested {
		return true
	}
	for _, alias := range aircraftAliases[requested] {
		if questionAircraft == alias {
			return true
		}
	}
	return false
}

func (s *FilterService) filterByCategories(pool []entities.Question, criteria entities.SelectionCriteria) []entities.Question {
	if criteria.WantsAllCategories() {
		return pool
	}

	out := make([]entities.Question, 0, len(pool))
	for _, q := range pool {
		for _, key := range criteria.Categories {
			if s.matcher.Matches(q.Category, key) {
				out = append(out, q)
				break
			}
		}
	}
	return out
}

func filterByDifficulty(pool []entities.Question, difficulty string) []entities.Question {
	if difficulty == "" || difficulty == entities.DifficultyAll {
		return pool
	}

	out := make([]entities.Question, 0, len(pool))
	for _, q := range pool {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}

// fallback progressively relaxes the criteria against the original
// (active) pool, stopping at the first tier that matches anything.
func (s *FilterService) fallback(base []entities.Question, criteria entities.SelectionCriteria) []entities.Question {
	// Tier 1: aircraft or GENERAL only; mode, category and difficulty dropped.
	if out := filterByAircraft(base, criteria.Aircraft); len(out) > 0 {
		return out
	}

	// Tier 2: aircraft only. Shares the tier 1 predicate; kept as its
	// own step so the escalation order stays explicit.
	if out := filterByAircraft(base, criteria.Aircraft); len(out) > 0 {
		return out
	}

	// Tier 3: loose substring match on the aircraft tag, ignoring the
	// _FAMILY suffix requirement.
	if out := looseAircraftMatch(base, criteria.Aircraft); len(out) > 0 {
		return out
	}

	// Tier 4: sample the pool regardless of any criteria, capped.
	limit := criteria.QuestionCount
	if limit > s.sampleCap {
		limit = s.sampleCap
	}
	out := sampleEveryNth(base, s.stride)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func looseAircraftMatch(pool []entities.Question, aircraft string) []entities.Question {
	root := strings.ToUpper(strings.TrimSuffix(aircraft, "_FAMILY"))
	if root == "" || root == entities.AircraftAll {
		return pool
	}

	out := make([]entities.Question, 0, len(pool))
	for _, q := range pool {
		tag := strings.ToUpper(q.AircraftType)
		if strings.Contains(tag, root) || (strings.Contains(root, "737") && strings.Contains(tag, "BOEING")) {
			out = append(out, q)
		}
	}
	return out
}

// shuffleAndPad shuffles the matched set and, when it is smaller than
// the requested count, cycles through it appending shallow variant
// copies. Each variant gets a fresh ID and a question-text suffix so
// it never collides with its original.
func (s *FilterService) shuffleAndPad(set []entities.Question, count int) []entities.Question {
	out := make([]entities.Question, len(set))
	copy(out, set)
	s.shuffle(out)

	if len(out) >= count {
		return out[:count]
	}

	originals := make([]entities.Question, len(out))
	copy(originals, out)
	for i := 0; len(out) < count; i++ {
		v := originals[i%len(originals)]
		v.ID = uuid.NewString()
		v.Question = fmt.Sprintf("%s (Variant %d)", v.Question, i+1)
		out = append(out, v)
	}
	return out
}

func (s *FilterService) shuffle(qs []entities.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}

func activeOnly(pool []entities.Question) []entities.Question {
	out := make([]entities.Question, 0, len(pool))
	for _, q := range pool {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out
}

// sampleEveryNth keeps the items at indexes 0, n, 2n, ...
func sampleEveryNth(pool []entities.Question, n int) []entities.Question {
	if n <= 1 {
		return pool
	}
	out := make([]entities.Question, 0, len(pool)/n+1)
	for i := 0; i < len(pool); i += n {
		out = append(out, pool[i])
	}
	return out
}
