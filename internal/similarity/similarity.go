// Package similarity provides the string-similarity primitives the resolver
// consumes. All scores are in [0, 1].
package similarity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio is the order-sensitive indel similarity between two strings:
// 2*LCS(a,b) / (len(a)+len(b)). Unlike a Levenshtein-normalized score it
// does not charge for substitutions, so reordered segments ("Fund XII" vs
// "XII Fund") still score on their shared characters. The matcher's
// structural floor is calibrated against these semantics.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	return 2.0 * float64(lcsLength(ra, rb)) / float64(len(ra)+len(rb))
}

// TokenSortRatio is the order-independent variant of Ratio: tokens are
// sorted before comparison, so pure word reordering scores 1.0.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// LevenshteinRatio is edit-distance similarity: 1 - distance/maxLen.
// Used where whole-string identity is the question (GP names), not
// structural overlap.
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// Jaccard is set overlap: |a∩b| / |a∪b|. Two empty sets are identical.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// lcsLength computes longest-common-subsequence length with a rolling row.
func lcsLength(a, b []rune) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1] + 1
			} else if prev[i] >= curr[i-1] {
				curr[i] = prev[i]
			} else {
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
