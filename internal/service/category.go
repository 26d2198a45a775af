package service

import (
	"strings"
	"unicode"
)

// DefaultCategoryAliases maps canonical category keys to the textual
// variants seen across the question sources. The underlying data was
// authored in several languages and spellings, so adding a variant
// here is a data change, not a code change.
func DefaultCategoryAliases() map[string][]string {
	return map[string][]string{
		"electrical": {
			"Electrical", "Electrical Systems", "Electrics", "Sistema Eléctrico",
		},
		"hydraulics": {
			"Hydraulics", "Hydraulic", "Hydraulic Systems", "Sistema Hidráulico",
		},
		"pneumatics": {
			"Pneumatics", "Bleed Air", "Air Systems", "Sistema Neumático",
		},
		"flight-controls": {
			"Flight Controls", "Flight Control Systems", "Controles de Vuelo",
		},
		"engines": {
			"Engines", "Engine Systems", "Powerplant", "Motores",
		},
		"fuel": {
			"Fuel", "Fuel System", "Sistema de Combustible",
		},
		"apu": {
			"APU", "Auxiliary Power Unit",
		},
		"air-conditioning": {
			"Air Conditioning", "Pressurization", "Aire Acondicionado",
		},
		"autoflight": {
			"Autoflight", "Autopilot", "AFS",
		},
		"general": {
			"General", "General Knowledge", "Conocimientos Generales",
		},
	}
}

// domainKeywords drives the last-resort category heuristic: two texts
// that both mention one of these are treated as the same category.
var domainKeywords = []string{
	"electrical", "hydraulic", "pneumatic", "fuel", "engine",
	"aircraft", "airplane", "general",
}

// CategoryMatcher decides whether a question's free-text category
// satisfies a requested canonical key. The alias table carries the
// bulk of the matching; a normalized equality / shared-keyword
// heuristic is kept as a clearly separated last resort. Results are
// memoized per (category, key) pair since many questions share a
// category string.
type CategoryMatcher struct {
	aliases map[string][]string // canonical key -> normalized variants
	memo    *boundedCache[bool]
}

// NewCategoryMatcher builds a matcher over the given alias table.
// A nil table falls back to DefaultCategoryAliases.
func NewCategoryMatcher(aliases map[string][]string, memoSize int) *CategoryMatcher {
	if aliases == nil {
		aliases = DefaultCategoryAliases()
	}
	if memoSize <= 0 {
		memoSize = defaultCategoryMemoSize
	}

	normalized := make(map[string][]string, len(aliases))
	for key, variants := range aliases {
		vs := make([]string, 0, len(variants))
		for _, v := range variants {
			vs = append(vs, normalizeText(v))
		}
		normalized[strings.ToLower(strings.TrimSpace(key))] = vs
	}

	return &CategoryMatcher{
		aliases: normalized,
		memo:    newBoundedCache[bool](memoSize),
	}
}

// Matches reports whether the question category satisfies the
// requested key, via the alias table or the normalized heuristic.
func (m *CategoryMatcher) Matches(questionCategory, requestedKey string) bool {
	cacheKey := questionCategory + "\x00" + requestedKey
	if v, ok := m.memo.get(cacheKey); ok {
		return v
	}
	v := m.matches(questionCategory, requestedKey)
	m.memo.put(cacheKey, v)
	return v
}

func (m *CategoryMatcher) matches(questionCategory, requestedKey string) bool {
	qNorm := normalizeText(questionCategory)
	key := strings.ToLower(strings.TrimSpace(requestedKey))

	for _, variant := range m.aliases[key] {
		if qNorm == variant {
			return true
		}
	}

	// Last resort: normalized equality, then a shared domain keyword.
	kNorm := normalizeText(requestedKey)
	if qNorm == kNorm && qNorm != "" {
		return true
	}
	for _, kw := range domainKeywords {
		if strings.Contains(qNorm, kw) && strings.Contains(kNorm, kw) {
			return true
		}
	}
	return false
}

// normalizeText lowercases, replaces punctuation with spaces and
// collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
