package binarymatch

import "strings"

// nameSimilarity scores two function names by character-overlap/containment:
// an exact substring relationship (either direction) scores highly, falling
// back to a bigram Jaccard ratio for names that merely share fragments (the
// common case after a compiler mangles or a symbol gets a numeric suffix).
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return 0.97
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		shorter, longer := la, lb
		if len(longer) < len(shorter) {
			shorter, longer = longer, shorter
		}
		if len(longer) == 0 {
			return 0
		}
		return 0.75 + 0.2*float64(len(shorter))/float64(len(longer))
	}
	return bigramJaccard(la, lb)
}

// bigramJaccard computes the Jaccard index over each string's set of
// 2-character substrings, a cheap fuzzy-match signal for mangled/decorated
// symbol names that avoids a full edit-distance computation.
func bigramJaccard(a, b string) float64 {
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 && len(bb) == 0 {
		return 1.0
	}
	inter, union := 0, map[string]bool{}
	for g := range ba {
		union[g] = true
		if bb[g] {
			inter++
		}
	}
	for g := range bb {
		union[g] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}

func bigrams(s string) map[string]bool {
	if len(s) < 2 {
		return map[string]bool{s: true}
	}
	out := make(map[string]bool, len(s)-1)
	for i := 0; i+2 <= len(s); i++ {
		out[s[i:i+2]] = true
	}
	return out
}

// codeSimilarity computes a token-level Jaccard ratio between two decompiled
// function bodies: both are split on whitespace/punctuation boundaries into
// tokens and compared as sets, ignoring order and repetition.
func codeSimilarity(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	setA, setB := toSet(ta), toSet(tb)
	inter, union := 0, map[string]bool{}
	for t := range setA {
		union[t] = true
		if setB[t] {
			inter++
		}
	}
	for t := range setB {
		union[t] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return false
		default:
			return true
		}
	})
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
