package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/smartdiff/difftypes"
)

func TestPipeline_IdenticalTreesProduceNoChanges(t *testing.T) {
	p := NewPipeline(NewScorer(DefaultSimilarityConfig()))
	src := []FunctionEntry{entry("calculateSum", "a.go")}
	tgt := []FunctionEntry{entry("calculateSum", "a.go")}

	result := p.Run(src, tgt, nil, nil, nil, nil)
	assert.Empty(t, result.Changes)
	assert.Equal(t, 1, result.Statistics.OneToOneCount)
}

func TestPipeline_DetectsRenameWithinFile(t *testing.T) {
	p := NewPipeline(NewScorer(DefaultSimilarityConfig()))
	src := []FunctionEntry{entry("calculateSum", "a.go")}
	renamed := entry("calculateTotal", "a.go")
	renamed.AST = src[0].AST
	renamed.Signature.Metrics = src[0].Signature.Metrics
	tgt := []FunctionEntry{renamed}

	result := p.Run(src, tgt, nil, nil, nil, nil)
	require.NotEmpty(t, result.Changes)
	assert.Equal(t, difftypes.ChangeRename, result.Changes[0].Kind)
}

func TestPipeline_UnmatchedFunctionsProduceAddAndDelete(t *testing.T) {
	p := NewPipeline(NewScorer(DefaultSimilarityConfig()))
	src := []FunctionEntry{entry("oldHelper", "a.go")}
	tgt := []FunctionEntry{{QualifiedName: "b.brandNewFactory", Signature: difftypes.EnhancedFunctionSignature{Name: "brandNewFactory", FilePath: "b.go"}, AST: &difftypes.ASTNode{Kind: difftypes.NodeClass}}}

	result := p.Run(src, tgt, nil, nil, nil, nil)
	var hasAdd, hasDelete bool
	for _, ch := range result.Changes {
		if ch.Kind == difftypes.ChangeAdd {
			hasAdd = true
		}
		if ch.Kind == difftypes.ChangeDelete {
			hasDelete = true
		}
	}
	assert.True(t, hasAdd)
	assert.True(t, hasDelete)
}

func TestPipeline_DetectsCrossFileMove(t *testing.T) {
	p := NewPipeline(NewScorer(DefaultSimilarityConfig()))
	src := []FunctionEntry{entry("calculateSum", "a.go")}
	tgt := []FunctionEntry{entry("calculateSum", "b.go")}

	result := p.Run(src, tgt, nil, nil, nil, nil)
	var hasMove bool
	for _, ch := range result.Changes {
		if ch.Kind == difftypes.ChangeCrossFileMove {
			hasMove = true
		}
	}
	assert.True(t, hasMove)
}
