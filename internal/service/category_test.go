package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryMatcher_AliasTable(t *testing.T) {
	m := NewCategoryMatcher(nil, 0)

	tests := []struct {
		category string
		key      string
		want     bool
	}{
		{"Electrical", "electrical", true},
		{"Sistema Eléctrico", "electrical", true},
		{"Electrical Systems", "electrical", true},
		{"Hydraulics", "electrical", false},
		{"Sistema Hidráulico", "hydraulics", true},
		{"Motores", "engines", true},
		{"Flight Controls", "flight-controls", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Matches(tt.category, tt.key),
			"Matches(%q, %q)", tt.category, tt.key)
	}
}

func TestCategoryMatcher_NormalizedHeuristic(t *testing.T) {
	m := NewCategoryMatcher(map[string][]string{}, 0)

	// Equality after lowercasing, punctuation stripping and whitespace
	// collapsing.
	assert.True(t, m.Matches("  Flight   Controls! ", "flight controls"))

	// Shared domain keyword on both sides.
	assert.True(t, m.Matches("Aircraft Electrical Network", "electrical systems"))
	assert.False(t, m.Matches("Fuel System", "electrical systems"))
}

func TestCategoryMatcher_MemoizesPairs(t *testing.T) {
	m := NewCategoryMatcher(nil, 10)

	m.Matches("Electrical", "electrical")
	m.Matches("Electrical", "electrical")
	m.Matches("Hydraulics", "electrical")

	assert.Equal(t, 2, m.memo.len())
}

func TestCategoryMatcher_MemoIsBounded(t *testing.T) {
	m := NewCategoryMatcher(nil, 5)

	for i := 0; i < 20; i++ {
		m.Matches(fmt.Sprintf("Category %d", i), "electrical")
	}

	assert.Equal(t, 5, m.memo.len())
}
