// Package category matches ticket summaries against the tenant's category
// names with approximate string similarity.
package category

import (
	"github.com/agnivade/levenshtein"
)

// DefaultCutoff is the minimum similarity ratio for a match.
const DefaultCutoff = 0.3

// Best returns the id of the category whose display name is most similar to
// the ticket summary, when the similarity clears the cutoff. Otherwise it
// returns the caller's fallback. Deterministic for identical inputs: ties go
// to the lexicographically smaller name. An empty category map yields the
// fallback, never a panic.
func Best(summary string, categories map[string]int, cutoff float64, fallback int) int {
	if len(categories) == 0 {
		return fallback
	}

	bestID := fallback
	bestRatio := -1.0
	bestName := ""

	for name, id := range categories {
		ratio := Similarity(summary, name)
		if ratio < cutoff {
			continue
		}
		if ratio > bestRatio || (ratio == bestRatio && name < bestName) {
			bestID = id
			bestRatio = ratio
			bestName = name
		}
	}

	return bestID
}

// Similarity is an edit-distance ratio in 0..1, where 1 means identical.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
