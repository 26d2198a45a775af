package service

import (
	"regexp"
	"strings"

	"github.com/aeroprep/questionbank/internal/domain/entities"
)

const (
	defaultMinSimilarityLength = 20
	defaultContainmentRatio    = 0.8
)

// variantSuffixRe strips the "(Variant N)" and "#N" suffixes that
// synthetic padding appends, so a variant copy always collapses back
// onto its original.
var variantSuffixRe = regexp.MustCompile(`\(variant \d+\)|#\d+`)

// aircraftPhrases are stripped from normalized text so near-identical
// questions that only differ by the aircraft name still group.
// Longer phrases come first so "boeing 737" is removed before "boeing".
var aircraftPhrases = []string{
	"airbus a320", "boeing 737", "a320", "b737", "b 737", "boeing",
}

// interrogative stop-words in English and Spanish.
var stopWords = map[string]struct{}{
	"what": {}, "which": {}, "how": {}, "when": {}, "where": {}, "why": {},
	"does": {}, "do": {}, "is": {}, "are": {},
	"cual": {}, "cuál": {}, "cuales": {}, "cuáles": {},
	"como": {}, "cómo": {}, "que": {}, "qué": {},
	"cuando": {}, "cuándo": {}, "donde": {}, "dónde": {},
}

// DedupOptions tunes the similarity test. The thresholds are heuristic
// and intentionally configurable; the zero value uses the package
// defaults.
type DedupOptions struct {
	MinSimilarityLength int     // below this, only exact normalized matches count
	ContainmentRatio    float64 // shorter/longer length ratio required for containment matches
}

// DuplicateService detects near-duplicate questions across a merged
// pool by comparing normalized question text, and removes them keeping
// the best representative per duplicate group. All operations are
// read-only over their input and return new slices.
type DuplicateService struct {
	minLen int
	ratio  float64
}

// NewDuplicateService creates a duplicate service with the given options.
func NewDuplicateService(opts DedupOptions) *DuplicateService {
	if opts.MinSimilarityLength <= 0 {
		opts.MinSimilarityLength = defaultMinSimilarityLength
	}
	if opts.ContainmentRatio <= 0 || opts.ContainmentRatio >= 1 {
		opts.ContainmentRatio = defaultContainmentRatio
	}
	return &DuplicateService{
		minLen: opts.MinSimilarityLength,
		ratio:  opts.ContainmentRatio,
	}
}

// Analyze scans the pool and reports every duplicate group without
// modifying anything.
func (s *DuplicateService) Analyze(pool []entities.Question) entities.DuplicateAnalysis {
	groups := s.scan(pool)

	analysis := entities.DuplicateAnalysis{TotalCount: len(pool)}
	for _, g := range groups {
		dg := entities.DuplicateGroup{Representative: pool[g.rep]}
		for _, idx := range g.members {
			if idx != g.rep {
				dg.Duplicates = append(dg.Duplicates, pool[idx])
			}
		}
		analysis.Groups = append(analysis.Groups, dg)
		analysis.DuplicateCount += len(g.members) - 1
	}
	analysis.UniqueCount = analysis.TotalCount - analysis.DuplicateCount
	return analysis
}

// RemoveDuplicates replaces every duplicate group with its single best
// representative. The clean pool preserves the relative order of first
// occurrence among kept questions; every non-representative member is
// listed in Removed.
func (s *DuplicateService) RemoveDuplicates(pool []entities.Question) entities.RemovalResult {
	groups := s.scan(pool)

	// The representative is emitted at the group's first-occurrence
	// position even when a later member was chosen.
	emit := make(map[int]int, len(groups)) // first member index -> representative index
	skip := make(map[int]bool)
	dropped := make(map[int]bool)
	for _, g := range groups {
		emit[g.members[0]] = g.rep
		for _, idx := range g.members {
			if idx != g.members[0] {
				skip[idx] = true
			}
			if idx != g.rep {
				dropped[idx] = true
			}
		}
	}

	result := entities.RemovalResult{Analysis: s.Analyze(pool)}
	for i := range pool {
		if dropped[i] {
			result.Removed = append(result.Removed, pool[i])
		}
		if skip[i] {
			continue
		}
		if rep, ok := emit[i]; ok {
			result.CleanPool = append(result.CleanPool, pool[rep])
			continue
		}
		result.CleanPool = append(result.CleanPool, pool[i])
	}
	return result
}

type duplicateGroupIdx struct {
	members []int // indexes into the pool, in first-occurrence order
	rep     int
}

// scan groups similar questions with a pairwise O(n²) pass. Pools are
// static files of at most a few thousand rows, so quadratic is fine.
func (s *DuplicateService) scan(pool []entities.Question) []duplicateGroupIdx {
	norms := make([]string, len(pool))
	for i := range pool {
		norms[i] = s.normalize(pool[i].Question)
	}

	processed := make([]bool, len(pool))
	var groups []duplicateGroupIdx
	for i := range pool {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []int{i}
		for j := i + 1; j < len(pool); j++ {
			if processed[j] {
				continue
			}
			if s.similar(norms[i], norms[j]) {
				processed[j] = true
				members = append(members, j)
			}
		}
		if len(members) > 1 {
			groups = append(groups, duplicateGroupIdx{
				members: members,
				rep:     pickRepresentative(pool, members),
			})
		}
	}
	return groups
}

// similar reports whether two normalized texts describe the same
// question: exact equality, or substring containment when both exceed
// the minimum length and the length ratio clears the threshold.
func (s *DuplicateService) similar(a, b string) bool {
	if a == b {
		return a != ""
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) <= s.minLen {
		return false
	}
	if !strings.Contains(longer, shorter) {
		return false
	}
	return float64(len(shorter))/float64(len(longer)) > s.ratio
}

// normalize reduces question text to a comparable form: lowercase,
// variant suffixes removed, punctuation stripped, whitespace
// collapsed, then aircraft names and interrogative stop-words dropped.
func (s *DuplicateService) normalize(text string) string {
	t := strings.ToLower(text)
	t = variantSuffixRe.ReplaceAllString(t, " ")
	t = normalizeText(t)

	for _, phrase := range aircraftPhrases {
		t = strings.ReplaceAll(t, phrase, " ")
	}

	fields := strings.Fields(t)
	kept := fields[:0]
	for _, w := range fields {
		if _, stop := stopWords[w]; !stop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// pickRepresentative returns the index of the best member of a
// duplicate group. First-seen wins unless a later member is strictly
// better.
func pickRepresentative(pool []entities.Question, members []int) int {
	best := members[0]
	for _, idx := range members[1:] {
		if betterRepresentative(pool[idx], pool[best]) {
			best = idx
		}
	}
	return best
}

// betterRepresentative reports whether q should replace best as the
// group representative. Explanation length dominates, then presence of
// a reference, then recency.
func betterRepresentative(q, best entities.Question) bool {
	if len(q.Explanation) != len(best.Explanation) {
		return len(q.Explanation) > len(best.Explanation)
	}
	if (q.Reference != "") != (best.Reference != "") {
		return q.Reference != ""
	}
	return q.CreationTime > best.CreationTime
}
