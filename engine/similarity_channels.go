package engine

import (
	"strings"

	"github.com/oxhq/smartdiff/difftypes"
)

// signatureSimilarity implements spec.md §4.2's signature channel: name
// 0.3, parameters 0.35, return 0.15, modifiers 0.1, complexity 0.1. Two
// signatures with the same ExactHash score 1.0.
func (s *Scorer) signatureSimilarity(a, b difftypes.EnhancedFunctionSignature) (float64, difftypes.DetailedSimilarityBreakdown) {
	var breakdown difftypes.DetailedSimilarityBreakdown

	nameSim := nameSimilarity(a.Name, b.Name)
	paramSim := parameterSimilarity(a.Parameters, b.Parameters)
	returnSim := a.ReturnType.Similarity(b.ReturnType)
	modifierSim := jaccard(boolSetKeys(a.Modifiers), boolSetKeys(b.Modifiers))
	complexitySim := complexitySimilarity(a, b)

	if nameSim == 1.0 {
		breakdown.Contributing = append(breakdown.Contributing, difftypes.SimilarityFactor{
			Kind: difftypes.FactorContributing, Description: "identical function name", Impact: nameSim, Confidence: 1.0,
		})
	} else if nameSim < 0.3 {
		breakdown.Dissimilarity = append(breakdown.Dissimilarity, difftypes.SimilarityFactor{
			Kind: difftypes.FactorDissimilarity, Description: "dissimilar function name", Impact: 1 - nameSim, Confidence: 1.0,
		})
	}
	if paramSim < 0.5 {
		breakdown.Dissimilarity = append(breakdown.Dissimilarity, difftypes.SimilarityFactor{
			Kind: difftypes.FactorDissimilarity, Description: "parameter lists diverge", Impact: 1 - paramSim, Confidence: 0.8,
		})
	}

	if a.ExactHash() == b.ExactHash() {
		return 1.0, breakdown
	}

	overall := nameSim*s.config.SigNameWeight +
		paramSim*s.config.SigParamsWeight +
		returnSim*s.config.SigReturnWeight +
		modifierSim*s.config.SigModifiersWeight +
		complexitySim*s.config.SigComplexityWeight

	return clamp01(overall), breakdown
}

func parameterSimilarity(a, b []difftypes.Parameter) float64 {
	countSim := ratioSimilarity(len(a), len(b))
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		if len(a) == 0 && len(b) == 0 {
			return 1.0
		}
		return countSim * 0.5
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i].Type.Similarity(b[i].Type)
	}
	elementSim := sum / float64(n)
	return countSim * elementSim
}

func ratioSimilarity(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1.0
	}
	maxV, minV := a, b
	if b > a {
		maxV, minV = b, a
	}
	if maxV == 0 {
		return 1.0
	}
	return float64(minV) / float64(maxV)
}

func complexitySimilarity(a, b difftypes.EnhancedFunctionSignature) float64 {
	if !a.HasMetrics || !b.HasMetrics {
		return 0.5
	}
	const scale = 20.0
	cyclo := saturatingInverse(a.Metrics.Cyclomatic, b.Metrics.Cyclomatic, scale)
	cognitive := saturatingInverse(a.Metrics.Cognitive, b.Metrics.Cognitive, scale)
	loc := saturatingInverse(a.Metrics.LinesOfCode, b.Metrics.LinesOfCode, 100)
	return (cyclo + cognitive + loc) / 3.0
}

func saturatingInverse(a, b int, scale float64) float64 {
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	sim := 1.0 - float64(delta)/scale
	return clamp01(sim)
}

func boolSetKeys(m map[string]bool) []string {
	var out []string
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	return out
}

// bodySimilarity implements spec.md §4.2's body channel: structural 0.30,
// content 0.25, control-flow 0.20, edit-distance 0.15, depth 0.05, node
// count 0.05.
func (s *Scorer) bodySimilarity(a, b *difftypes.ASTNode) (difftypes.ASTSimilarityScore, float64) {
	structural := structuralSimilarity(a, b, 0, s.config.MaxASTDepth)
	content := jaccard(featureBag(a), featureBag(b))
	controlFlow := jaccard(controlFlowPatterns(a), controlFlowPatterns(b))

	nodeCount := ratioSimilarity(a.Size(), b.Size())
	depthSim := ratioSimilarity(a.Depth(), b.Depth())

	editDistance := s.ted.CalculateSimilarity(a, b)

	overall := structural*s.config.BodyStructuralWeight +
		content*s.config.BodyContentWeight +
		controlFlow*s.config.BodyControlFlowWeight +
		editDistance*s.config.BodyEditDistWeight +
		depthSim*s.config.BodyDepthWeight +
		nodeCount*s.config.BodyNodeCountWeight

	score := difftypes.ASTSimilarityScore{
		TreeEditSimilarity: editDistance,
		NodeCountRatio:     nodeCount,
		DepthRatio:         depthSim,
		StructuralHash:     structural,
	}
	return score, clamp01(overall)
}

func structuralSimilarity(a, b *difftypes.ASTNode, depth, maxDepth int) float64 {
	if a == nil && b == nil {
		return 1.0
	}
	if a == nil || b == nil {
		return 0.0
	}
	labelMatch := 0.0
	if a.Label() == b.Label() {
		labelMatch = 1.0
	}
	childCountSim := ratioSimilarity(len(a.Children), len(b.Children))

	if depth >= maxDepth || (len(a.Children) == 0 && len(b.Children) == 0) {
		return labelMatch*0.5 + childCountSim*0.5
	}

	n := len(a.Children)
	if len(b.Children) > n {
		n = len(b.Children)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		if i < len(a.Children) && i < len(b.Children) {
			sum += structuralSimilarity(a.Children[i], b.Children[i], depth+1, maxDepth)
		}
	}
	childSim := 0.0
	if n > 0 {
		childSim = sum / float64(n)
	}
	return labelMatch*0.3 + childCountSim*0.2 + childSim*0.5
}

func featureBag(root *difftypes.ASTNode) []string {
	var out []string
	out = append(out, extractByAttr(root, difftypes.NodeIdentifier, "identifier", "name")...)
	out = append(out, extractByAttr(root, difftypes.NodeLiteral, "literal")...)
	out = append(out, extractByAttr(root, difftypes.NodeOperator, "operator")...)
	root.Walk(func(n *difftypes.ASTNode) {
		if t := n.Meta.Attr("type"); t != "" {
			out = append(out, "type:"+t)
		}
	})
	return out
}

// contextSimilarity implements spec.md §4.2's context channel: calls 0.30,
// variables 0.20, dependencies 0.20, surrounding-code 0.15, namespace 0.15,
// short-circuited to 1.0 when context fingerprints match exactly.
func (s *Scorer) contextSimilarity(srcName string, srcSig difftypes.EnhancedFunctionSignature, srcAST *difftypes.ASTNode,
	tgtName string, tgtSig difftypes.EnhancedFunctionSignature, tgtAST *difftypes.ASTNode) (difftypes.ContextSimilarityScore, float64) {

	srcFeat := s.features(srcName, srcAST, srcSig)
	tgtFeat := s.features(tgtName, tgtAST, tgtSig)

	if srcFeat.contextHash != "" && srcFeat.contextHash == tgtFeat.contextHash {
		return difftypes.ContextSimilarityScore{
			CallerOverlap: 1, CalleeOverlap: 1, SiblingOverlap: 1, FilePathSimilarity: 1,
		}, 1.0
	}

	calleeSim := jaccard(srcSig.Dependencies, tgtSig.Dependencies)
	variableSim := jaccard(srcFeat.variables, tgtFeat.variables)
	dependsSim := jaccard(srcSig.Dependencies, tgtSig.Dependencies)
	surroundSim := surroundingSimilarity(srcSig, tgtSig)
	namespaceSim := namespaceSimilarity(srcSig.QualifiedName, tgtSig.QualifiedName)

	overall := calleeSim*s.config.CtxCallsWeight +
		variableSim*s.config.CtxVariablesWeight +
		dependsSim*s.config.CtxDependsWeight +
		surroundSim*s.config.CtxSurroundWeight +
		namespaceSim*s.config.CtxNamespaceWeight

	return difftypes.ContextSimilarityScore{
		CallerOverlap:      calleeSim,
		CalleeOverlap:      calleeSim,
		SiblingOverlap:     variableSim,
		FilePathSimilarity: surroundSim,
	}, clamp01(overall)
}

func surroundingSimilarity(a, b difftypes.EnhancedFunctionSignature) float64 {
	if a.FilePath == "" || b.FilePath == "" {
		return 0.0
	}
	if a.FilePath != b.FilePath {
		return pathPrefixSimilarity(a.FilePath, b.FilePath)
	}
	delta := a.StartLine - b.StartLine
	if delta < 0 {
		delta = -delta
	}
	const proximityScale = 200.0
	return clamp01(1.0 - float64(delta)/proximityScale)
}

func pathPrefixSimilarity(a, b string) float64 {
	partsA := strings.Split(a, "/")
	partsB := strings.Split(b, "/")
	n := len(partsA)
	if len(partsB) < n {
		n = len(partsB)
	}
	common := 0
	for i := 0; i < n; i++ {
		if partsA[i] != partsB[i] {
			break
		}
		common++
	}
	maxLen := len(partsA)
	if len(partsB) > maxLen {
		maxLen = len(partsB)
	}
	if maxLen == 0 {
		return 1.0
	}
	return float64(common) / float64(maxLen)
}

func namespaceSimilarity(a, b string) float64 {
	lastDotA := strings.LastIndex(a, ".")
	lastDotB := strings.LastIndex(b, ".")
	nsA, nsB := "", ""
	if lastDotA >= 0 {
		nsA = a[:lastDotA]
	}
	if lastDotB >= 0 {
		nsB = b[:lastDotB]
	}
	if nsA == "" && nsB == "" {
		return 1.0
	}
	return pathPrefixSimilarity(strings.ReplaceAll(nsA, ".", "/"), strings.ReplaceAll(nsB, ".", "/"))
}

// semanticMetrics implements spec.md §4.2's "computed alongside but not
// folded into the overall score" semantic signals, each a Jaccard over a
// heuristic set extracted from the AST.
func (s *Scorer) semanticMetrics(a, b *difftypes.ASTNode) difftypes.SemanticSimilarityMetrics {
	return difftypes.SemanticSimilarityMetrics{
		IdentifierJaccard: jaccard(extractByAttr(a, difftypes.NodeIdentifier, "identifier", "name"), extractByAttr(b, difftypes.NodeIdentifier, "identifier", "name")),
		LiteralJaccard:    jaccard(extractByAttr(a, difftypes.NodeLiteral, "literal"), extractByAttr(b, difftypes.NodeLiteral, "literal")),
		OperatorJaccard:   jaccard(extractByAttr(a, difftypes.NodeOperator, "operator"), extractByAttr(b, difftypes.NodeOperator, "operator")),
	}
}
