// Package binarymatch implements §4.9's binary matcher: a structurally
// independent parallel path alongside engine's source-level matching,
// operating on decompiled binary functions instead of parsed ASTs. It shares
// no types with engine/treeedit — its only consumed interface is the
// BinaryFunctionInfo a binary back-end collaborator supplies (§6).
package binarymatch

// BinaryFunctionInfo is one function a binary back-end reports: its name,
// load address, and an optional decompiled body. A body is "optional" in
// the sense that a caller may choose not to fetch decompiled text for every
// function (decompilation is expensive); an empty DecompiledBody simply
// disables the code-similarity signal for that function.
type BinaryFunctionInfo struct {
	Name           string
	Address        uint64
	DecompiledBody string
}

func (f BinaryFunctionInfo) hasBody() bool { return f.DecompiledBody != "" }

// MatchType is the closed set of evidence combinations a BinaryFunctionMatch
// can be built from.
type MatchType string

const (
	// ExactNameMatch: identical function names, nothing else considered.
	ExactNameMatch MatchType = "ExactNameMatch"
	// FuzzyNameMatch: names differ but pass the character-overlap/
	// containment heuristic.
	FuzzyNameMatch MatchType = "FuzzyNameMatch"
	// CodeSimilarityMatch: decompiled bodies are token-Jaccard similar, but
	// names gave no usable signal.
	CodeSimilarityMatch MatchType = "CodeSimilarityMatch"
	// HybridMatch: both a name signal (fuzzy, not exact) and a code
	// signal agree above their thresholds.
	HybridMatch MatchType = "HybridMatch"
)

// BinaryFunctionMatch is one correspondence the matcher found between a
// source and a target binary function.
type BinaryFunctionMatch struct {
	Source         BinaryFunctionInfo
	Target         BinaryFunctionInfo
	Type           MatchType
	NameSimilarity float64
	CodeSimilarity float64
	Confidence     float64
}

// BinaryMatchStatistics summarizes one matcher run, mirroring the shape
// engine.MatchingStatistics reports for the source-level path.
type BinaryMatchStatistics struct {
	ExactNameCount      int
	FuzzyNameCount      int
	CodeSimilarityCount int
	HybridCount         int
	UnmatchedSource     int
	UnmatchedTarget     int
	MatchPercentage     float64
}

// BinaryMatchResult is the full output of one Match run.
type BinaryMatchResult struct {
	Matches         []BinaryFunctionMatch
	UnmatchedSource []BinaryFunctionInfo
	UnmatchedTarget []BinaryFunctionInfo
	Statistics      BinaryMatchStatistics
}

// BinaryMatcherConfig gates each matching phase and its confidence floor.
type BinaryMatcherConfig struct {
	// FuzzyNameThreshold is the minimum character-overlap/containment score
	// for two differently-named functions to be considered a fuzzy match.
	FuzzyNameThreshold float64
	// CodeSimilarityThreshold is the minimum token-Jaccard score over
	// decompiled bodies for a code-similarity match.
	CodeSimilarityThreshold float64
	// UseDecompiledCode enables the code-similarity phase at all; callers
	// without a decompiling binary back-end should leave this false.
	UseDecompiledCode bool
	// MinConfidence discards any candidate match below this confidence,
	// regardless of which phase produced it.
	MinConfidence float64
}

// DefaultBinaryMatcherConfig returns the matcher's default thresholds.
func DefaultBinaryMatcherConfig() BinaryMatcherConfig {
	return BinaryMatcherConfig{
		FuzzyNameThreshold:      0.7,
		CodeSimilarityThreshold: 0.6,
		UseDecompiledCode:       true,
		MinConfidence:           0.5,
	}
}
