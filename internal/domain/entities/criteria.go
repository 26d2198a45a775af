package entities

import (
	"fmt"
	"strings"
)

// SelectionCriteria describes one quiz request: which mode, aircraft,
// categories and difficulty to draw from, and exactly how many
// questions the caller wants back.
type SelectionCriteria struct {
	Mode          string   `json:"mode"`
	Categories    []string `json:"categories"`
	Aircraft      string   `json:"aircraft"`
	Difficulty    string   `json:"difficulty"`
	QuestionCount int      `json:"questionCount"`
}

// CacheKey returns a stable string identifying the full criteria
// tuple, used as the key for filter-result and loader caches.
func (c SelectionCriteria) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		c.Mode,
		strings.Join(c.Categories, ","),
		c.Aircraft,
		c.Difficulty,
		c.QuestionCount,
	)
}

// WantsAllCategories reports whether the category stage should pass
// every question through unchanged.
func (c SelectionCriteria) WantsAllCategories() bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		switch strings.ToLower(cat) {
		case "all", "none":
			return true
		}
	}
	return false
}
