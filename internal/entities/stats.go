package entities

import (
	"fmt"
	"strings"
)

// StatCategory is one of the five attributes a character invests points into
type StatCategory string

const (
	StatATK        StatCategory = "atk"
	StatSpecialATK StatCategory = "sp_atk"
	StatDEF        StatCategory = "def"
	StatSpecialDEF StatCategory = "sp_def"
	StatSPE        StatCategory = "spe"
)

// StatCategories lists every category in display order
var StatCategories = []StatCategory{
	StatATK,
	StatSpecialATK,
	StatDEF,
	StatSpecialDEF,
	StatSPE,
}

var statDisplayNames = map[StatCategory]string{
	StatATK:        "ATK",
	StatSpecialATK: "Special ATK",
	StatDEF:        "DEF",
	StatSpecialDEF: "Special DEF",
	StatSPE:        "SPE",
}

// String returns the display name of the category
func (c StatCategory) String() string {
	if name, ok := statDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c belongs to the closed category set
func (c StatCategory) Valid() bool {
	_, ok := statDisplayNames[c]
	return ok
}

// ParseStatCategory accepts either the key ("sp_atk") or display name ("Special ATK")
func ParseStatCategory(s string) (StatCategory, error) {
	normalized := strings.TrimSpace(s)
	for _, c := range StatCategories {
		if strings.EqualFold(normalized, string(c)) || strings.EqualFold(normalized, c.String()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown stat category %q", s)
}

// Stats holds an integer value per category. Missing categories read as zero.
type Stats map[StatCategory]int

// NewStats returns stats with every category present and set to zero
func NewStats() Stats {
	stats := make(Stats, len(StatCategories))
	for _, c := range StatCategories {
		stats[c] = 0
	}
	return stats
}

// Get returns the value for a category
func (s Stats) Get(c StatCategory) int {
	return s[c]
}

// Clone returns a copy with every category present
func (s Stats) Clone() Stats {
	clone := NewStats()
	for c, v := range s {
		clone[c] = v
	}
	return clone
}

// Total sums all categories
func (s Stats) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Plus returns s with each modifier added, leaving s untouched
func (s Stats) Plus(modifiers map[StatCategory]int) Stats {
	out := s.Clone()
	for c, delta := range modifiers {
		out[c] += delta
	}
	return out
}
