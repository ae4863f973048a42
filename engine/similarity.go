package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oxhq/smartdiff/difftypes"
	"github.com/oxhq/smartdiff/treeedit"
)

// Scorer computes ComprehensiveSimilarityScores between function pairs (L1),
// caching the per-function feature sets it extracts so repeated pairings
// against the same function share extraction cost (§4.2 "Caching").
type Scorer struct {
	config SimilarityConfig
	ted    *treeedit.TreeEditDistance
	cache  map[string]functionFeatures
}

// NewScorer returns a Scorer under config.
func NewScorer(config SimilarityConfig) *Scorer {
	return &Scorer{
		config: config,
		ted:    treeedit.New(config.TreeEdit),
		cache:  make(map[string]functionFeatures),
	}
}

type functionFeatures struct {
	identifiers []string
	literals    []string
	operators   []string
	controlFlow []string
	variables   []string
	contextHash string
}

func (s *Scorer) features(qualifiedName string, ast *difftypes.ASTNode, sig difftypes.EnhancedFunctionSignature) functionFeatures {
	key := fmt.Sprintf("%s|%p", qualifiedName, ast)
	if f, ok := s.cache[key]; ok && qualifiedName != "" {
		return f
	}
	f := functionFeatures{
		identifiers: extractByAttr(ast, difftypes.NodeIdentifier, "identifier", "name"),
		literals:    extractByAttr(ast, difftypes.NodeLiteral, "literal"),
		operators:   extractByAttr(ast, difftypes.NodeOperator, "operator"),
		controlFlow: controlFlowPatterns(ast),
		variables:   extractAssignedVariables(ast),
	}
	callees := append([]string{}, sig.Dependencies...)
	sort.Strings(callees)
	f.contextHash = strings.Join(callees, ",")
	if qualifiedName != "" {
		s.cache[key] = f
	}
	return f
}

var controlFlowKinds = map[difftypes.NodeKind]bool{
	difftypes.NodeIf:     true,
	difftypes.NodeWhile:  true,
	difftypes.NodeFor:    true,
	difftypes.NodeSwitch: true,
	difftypes.NodeTry:    true,
}

func controlFlowPatterns(root *difftypes.ASTNode) []string {
	var patterns []string
	root.Walk(func(n *difftypes.ASTNode) {
		if !controlFlowKinds[n.Kind] {
			return
		}
		for _, c := range n.Children {
			if controlFlowKinds[c.Kind] {
				patterns = append(patterns, string(n.Kind)+"→"+string(c.Kind))
			}
		}
	})
	return patterns
}

func extractByAttr(root *difftypes.ASTNode, kind difftypes.NodeKind, attrKeys ...string) []string {
	var out []string
	root.Walk(func(n *difftypes.ASTNode) {
		if n.Kind != kind {
			return
		}
		for _, key := range attrKeys {
			if v := n.Meta.Attr(key); v != "" {
				out = append(out, v)
				return
			}
		}
	})
	return out
}

func extractAssignedVariables(root *difftypes.ASTNode) []string {
	var out []string
	root.Walk(func(n *difftypes.ASTNode) {
		if n.Kind != difftypes.NodeAssignment {
			return
		}
		if v := n.Meta.Attr("name"); v != "" {
			out = append(out, v)
		}
	})
	return out
}

// Score computes the ComprehensiveSimilarityScore between a source and
// target function, given their qualified names (for feature caching; pass
// "" to disable caching for a one-off comparison), signatures, and ASTs.
func (s *Scorer) Score(srcName string, srcSig difftypes.EnhancedFunctionSignature, srcAST *difftypes.ASTNode,
	tgtName string, tgtSig difftypes.EnhancedFunctionSignature, tgtAST *difftypes.ASTNode) difftypes.ComprehensiveSimilarityScore {

	sigSim, breakdown := s.signatureSimilarity(srcSig, tgtSig)
	bodySim, bodyOverall := s.bodySimilarity(srcAST, tgtAST)
	ctxSim, ctxOverall := s.contextSimilarity(srcName, srcSig, srcAST, tgtName, tgtSig, tgtAST)
	semantic := s.semanticMetrics(srcAST, tgtAST)

	overall := clamp01(sigSim*s.config.SignatureWeight +
		bodyOverall*s.config.BodyWeight +
		ctxOverall*s.config.ContextWeight)

	matchType := s.classifyMatchType(overall, sigSim, bodyOverall)

	return difftypes.ComprehensiveSimilarityScore{
		Overall:   overall,
		Signature: sigSim,
		Body:      bodySim,
		Context:   ctxSim,
		Semantic:  semantic,
		MatchType: matchType,
		Breakdown: breakdown,
	}
}

// Confidence derives a match confidence from an already computed score:
// Overall, plus 0.10 for an identical name and 0.05 for matching parameter
// types, minus 0.10 when tree-edit similarity is below 0.3, clamped to [0,1].
// Score itself computes no confidence; callers building a Match (which owns
// its own Confidence field) call this without recomputing the channel scores.
func (s *Scorer) Confidence(score difftypes.ComprehensiveSimilarityScore, srcSig, tgtSig difftypes.EnhancedFunctionSignature) float64 {
	confidence := score.Overall
	if srcSig.Name == tgtSig.Name {
		confidence += 0.10
	}
	if allParamTypesMatch(srcSig, tgtSig) {
		confidence += 0.05
	}
	if score.Body.TreeEditSimilarity < 0.3 {
		confidence -= 0.10
	}
	return clamp01(confidence)
}

func allParamTypesMatch(a, b difftypes.EnhancedFunctionSignature) bool {
	if len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Parameters {
		if !a.Parameters[i].Type.Equal(b.Parameters[i].Type) {
			return false
		}
	}
	return true
}

func (s *Scorer) classifyMatchType(overall, nameAndSigSim, bodySim float64) difftypes.MatchType {
	switch {
	case overall >= s.config.ExactMatchThreshold:
		return difftypes.ExactMatch
	case overall >= s.config.HighSimilarityThreshold:
		return difftypes.HighSimilarity
	case overall >= s.config.PotentialMatchThreshold:
		return difftypes.PotentialMatch
	}
	if overall >= s.config.WeakMatchThreshold {
		return difftypes.WeakMatch
	}
	if nameAndSigSim >= s.config.RefactoringNameThreshold && bodySim <= s.config.RefactoringBodyLowThreshold {
		return difftypes.PotentialRefactoring
	}
	if nameAndSigSim <= s.config.RenameNameLowThreshold && bodySim >= s.config.RenameBodyThreshold {
		return difftypes.PotentialRename
	}
	return difftypes.NoMatch
}
