package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/smartdiff/difftypes"
)

func TestClassifier_RenameDetectedByHighBodySimilarity(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())
	score := difftypes.ComprehensiveSimilarityScore{
		Overall: 0.85, Signature: 0.7,
		Body: difftypes.ASTSimilarityScore{TreeEditSimilarity: 0.95},
	}
	kind := c.ClassifySimple(score, "calculateSum", "computeTotal", "a.go", "a.go", 10, 10)
	assert.Equal(t, difftypes.ChangeRename, kind)
}

func TestClassifier_CrossFileMoveWinsOverNameMatch(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())
	score := difftypes.ComprehensiveSimilarityScore{Overall: 0.95, Signature: 0.9, Body: difftypes.ASTSimilarityScore{TreeEditSimilarity: 0.9}}
	kind := c.ClassifySimple(score, "calculateSum", "calculateSum", "a.go", "b.go", 10, 40)
	assert.Equal(t, difftypes.ChangeCrossFileMove, kind)
}

func TestClassifier_DetailedIncludesEvidenceForNameChange(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())
	score := difftypes.ComprehensiveSimilarityScore{Overall: 0.85, Signature: 0.7, Body: difftypes.ASTSimilarityScore{TreeEditSimilarity: 0.95}}
	detailed := c.ClassifyDetailed(score, "calculateSum", "computeTotal", "a.go", "a.go", 10, 10, 0)
	assert.Equal(t, difftypes.ChangeRename, detailed.Primary)
	assert.NotEmpty(t, detailed.Analysis.Evidence)
}

// TestClassifier_SameNameSameFileDifferentLineIsMove guards the structural
// cascade: same name, same file, different start line is a Move regardless
// of how similar the bodies are.
func TestClassifier_SameNameSameFileDifferentLineIsMove(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())
	score := difftypes.ComprehensiveSimilarityScore{Overall: 0.4, Signature: 0.3, Body: difftypes.ASTSimilarityScore{TreeEditSimilarity: 0.2}}
	kind := c.ClassifySimple(score, "calculateSum", "calculateSum", "a.go", "a.go", 10, 120)
	assert.Equal(t, difftypes.ChangeMove, kind)
}

// TestClassifier_SameNameSameLineIsNotMove guards against misclassifying an
// unmoved, slightly-edited function as Move just because its similarity
// score happens to fall in the old heuristic's band.
func TestClassifier_SameNameSameLineIsNotMove(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())
	score := difftypes.ComprehensiveSimilarityScore{Overall: 0.95, Signature: 0.9, Body: difftypes.ASTSimilarityScore{TreeEditSimilarity: 0.9}}
	kind := c.ClassifySimple(score, "calculateSum", "calculateSum", "a.go", "a.go", 42, 42)
	assert.Equal(t, difftypes.ChangeModify, kind)
}
