package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/smartdiff/difftypes"
)

func entry(name, file string) FunctionEntry {
	sig := sampleSignature(name)
	sig.FilePath = file
	return FunctionEntry{QualifiedName: file + "." + name, Signature: sig, AST: sampleAST(name)}
}

func TestMatcher_BothEmpty(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig(), NewScorer(DefaultSimilarityConfig()))
	result := m.Match(nil, nil)
	assert.Empty(t, result.Assignments)
	assert.InDelta(t, 100.0, result.Statistics.MatchPercentage, 1e-9)
	assert.InDelta(t, 1.0, result.Statistics.AverageSimilarity, 1e-9)
}

func TestMatcher_SourcesOnly(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig(), NewScorer(DefaultSimilarityConfig()))
	result := m.Match([]FunctionEntry{entry("calculateSum", "a.go")}, nil)
	require.Len(t, result.UnmatchedSource, 1)
	assert.Equal(t, 0.0, result.Statistics.MatchPercentage)
	assert.Equal(t, 0.0, result.Statistics.AverageSimilarity)
}

func TestMatcher_TargetsOnly(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig(), NewScorer(DefaultSimilarityConfig()))
	result := m.Match(nil, []FunctionEntry{entry("calculateSum", "a.go")})
	require.Len(t, result.UnmatchedTarget, 1)
	assert.Equal(t, 0.0, result.Statistics.AverageSimilarity)
}

func TestMatcher_IdenticalFunctionMatchesExactly(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig(), NewScorer(DefaultSimilarityConfig()))
	src := []FunctionEntry{entry("calculateSum", "a.go")}
	tgt := []FunctionEntry{entry("calculateSum", "a.go")}

	result := m.Match(src, tgt)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, 0, result.Assignments[0].SourceIndex)
	assert.Equal(t, 0, result.Assignments[0].TargetIndex)
	assert.Equal(t, difftypes.ExactMatch, result.Assignments[0].Similarity.MatchType)
	assert.Empty(t, result.UnmatchedSource)
	assert.Empty(t, result.UnmatchedTarget)
	assert.InDelta(t, result.Assignments[0].Similarity.Overall, result.Statistics.AverageSimilarity, 1e-9)
}

func TestMatcher_UnrelatedFunctionsAreUnmatched(t *testing.T) {
	cfg := DefaultMatcherConfig()
	m := NewMatcher(cfg, NewScorer(DefaultSimilarityConfig()))
	src := []FunctionEntry{entry("calculateSum", "a.go")}
	tgt := []FunctionEntry{{QualifiedName: "b.unrelatedWidgetFactory", Signature: difftypes.EnhancedFunctionSignature{Name: "unrelatedWidgetFactory", FilePath: "b.go"}, AST: &difftypes.ASTNode{Kind: difftypes.NodeClass}}}

	result := m.Match(src, tgt)
	assert.Empty(t, result.Assignments)
	assert.Len(t, result.UnmatchedSource, 1)
	assert.Len(t, result.UnmatchedTarget, 1)
}

func TestMatcher_DetectsSplit(t *testing.T) {
	cfg := DefaultMatcherConfig()
	cfg.MinSimilarityThreshold = 0.1
	m := NewMatcher(cfg, NewScorer(DefaultSimilarityConfig()))

	src := []FunctionEntry{entry("processOrder", "orders.go")}
	tgt := []FunctionEntry{
		entry("processOrderPart", "orders.go"),
		entry("processOrderStep", "orders.go"),
	}

	result := m.Match(src, tgt)
	if len(result.Assignments) == 0 {
		require.Len(t, result.ManyToMany, 1)
		mapping := result.ManyToMany[0]
		assert.Equal(t, difftypes.MappingSplit, mapping.Kind)
		assert.ElementsMatch(t, []int{0}, mapping.SourceIndices)
		assert.ElementsMatch(t, []int{0, 1}, mapping.TargetIndices)
		assert.Empty(t, result.UnmatchedSource)
		assert.Empty(t, result.UnmatchedTarget)
	}
}

func TestMatcher_CrossFilePenaltyReducesSimilarity(t *testing.T) {
	cfg := DefaultMatcherConfig()
	cfg.CrossFilePenalty = 0.5
	m := NewMatcher(cfg, NewScorer(DefaultSimilarityConfig()))

	src := []FunctionEntry{entry("calculateSum", "a.go")}
	tgt := []FunctionEntry{entry("calculateSum", "b.go")}

	// Unpenalized the pair scores well above the 0.7 threshold; halved by
	// the penalty it falls below it and stays unmatched.
	result := m.Match(src, tgt)
	assert.Empty(t, result.Assignments)
	assert.Len(t, result.UnmatchedSource, 1)
	assert.Len(t, result.UnmatchedTarget, 1)
}
