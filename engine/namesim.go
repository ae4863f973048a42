package engine

import (
	"strings"
	"unicode"
)

// nameSimilarity returns the Levenshtein-based, case- and underscore-
// insensitive name similarity spec.md §4.2 describes for the signature
// channel: 1.0 on an exact match, otherwise normalised against the longer
// name. Adapted from the Levenshtein/heuristic machinery used for DSL query
// fuzzy-resolution elsewhere in this codebase, repurposed here to compare
// two function names directly rather than a query against candidate nodes.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	normA := strings.ReplaceAll(strings.ToLower(a), "_", "")
	normB := strings.ReplaceAll(strings.ToLower(b), "_", "")
	if normA == normB {
		return 1.0
	}
	distance := levenshteinDistance(normA, normB)
	maxLen := len(normA)
	if len(normB) > maxLen {
		maxLen = len(normB)
	}
	if maxLen == 0 {
		return 1.0
	}
	score := 1.0 - float64(distance)/float64(maxLen)
	if score < 0 {
		score = 0
	}
	return score
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			del := matrix[i-1][j] + 1
			ins := matrix[i][j-1] + 1
			sub := matrix[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			matrix[i][j] = best
		}
	}
	return matrix[len(s1)][len(s2)]
}

// extractCamelCaseAbbreviation extracts the first letter plus every
// subsequent uppercase letter of a CamelCase/camelCase identifier, used by
// the naming-hint heuristics in split/merge and rename-move detection.
func extractCamelCaseAbbreviation(s string) string {
	if len(s) == 0 {
		return ""
	}
	var result strings.Builder
	result.WriteRune(unicode.ToUpper(rune(s[0])))
	for i := 1; i < len(s); i++ {
		if unicode.IsUpper(rune(s[i])) {
			result.WriteRune(rune(s[i]))
		}
	}
	return result.String()
}

// nameContainsHint reports whether name contains any of the split/merge
// naming hints (case-insensitive substring). The check whether one of two
// names contains the other is namesRelated's; together they form the
// name-relatedness heuristic spec.md §4.4 and §4.3 both lean on.
func nameContainsHint(name string, hints []string) bool {
	lower := strings.ToLower(name)
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

func namesRelated(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return true
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
