// internal/search/similarity.go
package search

import (
	"github.com/agnivade/levenshtein"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Scorer measures similarity between a keyword and a candidate value on a
// 0-100 scale. The implementation is chosen once at startup; the matcher
// never switches scorers per call.
type Scorer interface {
	Name() string
	Score(keyword, value string) int
}

const (
	ScorerPartialRatio = "partial_ratio"
	ScorerLevenshtein  = "levenshtein"
)

// NewScorer selects a similarity implementation by name. Unknown names
// fall back to the levenshtein ratio rather than failing: fuzzy matching
// quality degrades, it never errors.
func NewScorer(name string) Scorer {
	switch name {
	case ScorerPartialRatio, "":
		return partialRatioScorer{}
	default:
		return levenshteinScorer{}
	}
}

// partialRatioScorer scores the best-matching substring window, so a
// short keyword against a long product name still rates highly.
type partialRatioScorer struct{}

func (partialRatioScorer) Name() string { return ScorerPartialRatio }

func (partialRatioScorer) Score(keyword, value string) int {
	if keyword == "" || value == "" {
		return 0
	}
	return fuzzy.PartialRatio(keyword, value)
}

// levenshteinScorer is the edit-distance-ratio fallback.
type levenshteinScorer struct{}

func (levenshteinScorer) Name() string { return ScorerLevenshtein }

func (levenshteinScorer) Score(keyword, value string) int {
	if keyword == "" || value == "" {
		return 0
	}
	distance := levenshtein.ComputeDistance(keyword, value)
	longest := len([]rune(keyword))
	if l := len([]rune(value)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return (longest - distance) * 100 / longest
}
