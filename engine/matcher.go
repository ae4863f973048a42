package engine

import (
	"path/filepath"

	"github.com/oxhq/smartdiff/difftypes"
)

// FunctionEntry is one element of the ordered function collections the
// Matcher (L2) takes as input: a qualified name for cache/display purposes,
// its signature, and its AST.
type FunctionEntry struct {
	QualifiedName string
	Signature     difftypes.EnhancedFunctionSignature
	AST           *difftypes.ASTNode
}

func (e FunctionEntry) filePath() string {
	return e.Signature.FilePath
}

// Matcher implements the L2 Hungarian assignment with split/merge/complex
// many-to-many detection (§4.3).
type Matcher struct {
	config MatcherConfig
	scorer *Scorer
}

// NewMatcher returns a Matcher under config, using scorer for all pairwise
// similarity computation.
func NewMatcher(config MatcherConfig, scorer *Scorer) *Matcher {
	return &Matcher{config: config, scorer: scorer}
}

// Match computes the optimal one-to-one assignment between sources and
// targets, plus any split/merge/complex many-to-many mappings recovered from
// the leftovers.
func (m *Matcher) Match(sources, targets []FunctionEntry) difftypes.MatchResult {
	if len(sources) == 0 && len(targets) == 0 {
		return difftypes.MatchResult{Statistics: difftypes.MatchingStatistics{MatchPercentage: 100.0, AverageSimilarity: 1.0}}
	}
	if len(sources) == 0 {
		unmatched := rangeInts(len(targets))
		return difftypes.MatchResult{
			UnmatchedTarget: unmatched,
			Statistics:      difftypes.MatchingStatistics{UnmatchedTarget: len(targets), MatchPercentage: 0.0, AverageSimilarity: 0.0},
		}
	}
	if len(targets) == 0 {
		unmatched := rangeInts(len(sources))
		return difftypes.MatchResult{
			UnmatchedSource: unmatched,
			Statistics:      difftypes.MatchingStatistics{UnmatchedSource: len(sources), MatchPercentage: 0.0, AverageSimilarity: 0.0},
		}
	}

	simMatrix := make([][]float64, len(sources))
	for i, src := range sources {
		simMatrix[i] = make([]float64, len(targets))
		for j, tgt := range targets {
			score := m.scorer.Score(src.QualifiedName, src.Signature, src.AST, tgt.QualifiedName, tgt.Signature, tgt.AST)
			sim := score.Overall
			if src.filePath() != "" && tgt.filePath() != "" && src.filePath() != tgt.filePath() {
				sim *= 1 - m.config.CrossFilePenalty
			}
			simMatrix[i][j] = sim
		}
	}

	cost := make([][]float64, len(sources))
	for i := range cost {
		cost[i] = make([]float64, len(targets))
		for j := range cost[i] {
			if simMatrix[i][j] < m.config.MinSimilarityThreshold {
				cost[i][j] = hungarianBig
			} else {
				cost[i][j] = 1 - simMatrix[i][j]
			}
		}
	}

	assignment := solveRectangular(cost, len(sources), len(targets))

	matchedSrc := make(map[int]bool, len(assignment))
	matchedTgt := make(map[int]bool, len(assignment))
	var matches []difftypes.Match
	totalCost := 0.0
	totalSimilarity := 0.0
	for i, j := range assignment {
		matchedSrc[i] = true
		matchedTgt[j] = true
		score := m.scorer.Score(sources[i].QualifiedName, sources[i].Signature, sources[i].AST,
			targets[j].QualifiedName, targets[j].Signature, targets[j].AST)
		confidence := m.assignmentConfidence(score, sources[i], targets[j])
		matches = append(matches, difftypes.Match{
			SourceIndex: i,
			TargetIndex: j,
			Similarity:  score,
			Cost:        1 - simMatrix[i][j],
			Confidence:  confidence,
		})
		totalCost += 1 - simMatrix[i][j]
		totalSimilarity += score.Overall
	}

	var unmatchedSrc, unmatchedTgt []int
	for i := range sources {
		if !matchedSrc[i] {
			unmatchedSrc = append(unmatchedSrc, i)
		}
	}
	for j := range targets {
		if !matchedTgt[j] {
			unmatchedTgt = append(unmatchedTgt, j)
		}
	}

	mappings, remainingSrc, remainingTgt := m.detectManyToMany(sources, targets, simMatrix, unmatchedSrc, unmatchedTgt)

	stats := difftypes.MatchingStatistics{
		OneToOneCount:   len(matches),
		UnmatchedSource: len(remainingSrc),
		UnmatchedTarget: len(remainingTgt),
		ManyToManyCount: len(mappings),
	}
	total := len(sources)
	if len(targets) > total {
		total = len(targets)
	}
	if total > 0 {
		stats.MatchPercentage = float64(len(matches)) / float64(total) * 100.0
	}
	if len(matches) > 0 {
		stats.AverageCost = totalCost / float64(len(matches))
		stats.AverageSimilarity = totalSimilarity / float64(len(matches))
	}

	return difftypes.MatchResult{
		Assignments:     matches,
		ManyToMany:      mappings,
		UnmatchedSource: remainingSrc,
		UnmatchedTarget: remainingTgt,
		Statistics:      stats,
	}
}

func (m *Matcher) assignmentConfidence(score difftypes.ComprehensiveSimilarityScore, src, tgt FunctionEntry) float64 {
	confidence := m.scorer.Confidence(score, src.Signature, tgt.Signature)
	if src.Signature.Name == tgt.Signature.Name {
		confidence += 0.1
	}
	if pathsRelated(src.filePath(), tgt.filePath()) {
		confidence += 0.05
	}
	return clamp01(confidence)
}

func pathsRelated(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if filepath.Dir(a) == filepath.Dir(b) {
		return true
	}
	stemA := stemName(a)
	stemB := stemName(b)
	return namesRelated(stemA, stemB)
}

func stemName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

func rangeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
