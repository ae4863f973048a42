package treeedit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/smartdiff/difftypes"
)

func leaf(kind difftypes.NodeKind, name string) *difftypes.ASTNode {
	return difftypes.NewLeaf(kind, difftypes.Metadata{Attributes: map[string]string{"name": name}})
}

func simpleFunctionTree(name string) *difftypes.ASTNode {
	return &difftypes.ASTNode{
		Kind: difftypes.NodeFunction,
		Children: []*difftypes.ASTNode{
			leaf(difftypes.NodeIdentifier, name),
			{Kind: difftypes.NodeBlock, Children: []*difftypes.ASTNode{
				{Kind: difftypes.NodeReturn, Children: []*difftypes.ASTNode{
					leaf(difftypes.NodeLiteral, "0"),
				}},
			}},
		},
	}
}

func TestCalculateDistance_IdenticalTreesAreZero(t *testing.T) {
	ted := WithDefaults()
	tree := simpleFunctionTree("calculateSum")
	assert.Equal(t, 0.0, ted.CalculateDistance(tree, tree))
}

func TestCalculateSimilarity_IdenticalTreesIsOne(t *testing.T) {
	ted := WithDefaults()
	tree := simpleFunctionTree("calculateSum")
	assert.Equal(t, 1.0, ted.CalculateSimilarity(tree, tree))
}

func TestCalculateDistance_Symmetric(t *testing.T) {
	ted := WithDefaults()
	a := simpleFunctionTree("calculateSum")
	b := simpleFunctionTree("calculateProduct")

	d1 := ted.CalculateDistance(a, b)
	d2 := ted.CalculateDistance(b, a)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestCalculateDistance_SingleNodeDifference(t *testing.T) {
	ted := WithDefaults()
	a := simpleFunctionTree("calculateSum")
	b := simpleFunctionTree("calculateProduct")

	distance := ted.CalculateDistance(a, b)
	assert.Greater(t, distance, 0.0)
	// Only the identifier leaf differs, so the edit distance should be small
	// relative to the overall tree size.
	assert.Less(t, distance, float64(a.Size()))
}

func TestCalculateDistance_StructuralDifference(t *testing.T) {
	ted := WithDefaults()
	ifTree := &difftypes.ASTNode{Kind: difftypes.NodeIf, Children: []*difftypes.ASTNode{
		leaf(difftypes.NodeOperator, "=="),
		{Kind: difftypes.NodeBlock},
	}}
	whileTree := &difftypes.ASTNode{Kind: difftypes.NodeWhile, Children: []*difftypes.ASTNode{
		leaf(difftypes.NodeOperator, "=="),
		{Kind: difftypes.NodeBlock},
	}}

	similarity := ted.CalculateSimilarity(ifTree, whileTree)
	assert.Greater(t, similarity, 0.0)
	assert.Less(t, similarity, 1.0)
}

func TestCalculateDistance_Caching(t *testing.T) {
	ted := WithDefaults()
	a := simpleFunctionTree("a")
	b := simpleFunctionTree("b")

	ted.CalculateDistance(a, b)
	sizeAfterFirst, _ := ted.GetCacheStats()
	require.Equal(t, 1, sizeAfterFirst)

	ted.CalculateDistance(a, b)
	_, hits := ted.GetCacheStats()
	assert.Equal(t, 1, hits)
}

func TestCalculateDistance_PruningApproximatesLargeTrees(t *testing.T) {
	config := DefaultConfig()
	config.EnablePruning = true
	config.MaxNodes = 3
	ted := New(config)

	big1 := simpleFunctionTree("a")
	big2 := simpleFunctionTree("b")

	distance := ted.CalculateDistance(big1, big2)
	assert.GreaterOrEqual(t, distance, 0.0)
}

func TestCalculateOperations_InsertionsOnly(t *testing.T) {
	ted := WithDefaults()
	before := &difftypes.ASTNode{Kind: difftypes.NodeFunction, Children: []*difftypes.ASTNode{
		leaf(difftypes.NodeIdentifier, "f"),
	}}
	after := &difftypes.ASTNode{Kind: difftypes.NodeFunction, Children: []*difftypes.ASTNode{
		leaf(difftypes.NodeIdentifier, "f"),
		{Kind: difftypes.NodeParameter},
		{Kind: difftypes.NodeBlock},
	}}

	ops := ted.CalculateOperations(before, after)
	require.NotEmpty(t, ops)
	var inserts, others int
	for _, op := range ops {
		switch op.Kind {
		case OpInsert:
			inserts++
		case OpMatch:
			// root and the shared identifier align exactly.
		default:
			others++
		}
	}
	assert.Equal(t, 2, inserts)
	assert.Equal(t, 0, others)
}

func TestCalculateOperations_IdenticalTreesAreAllMatches(t *testing.T) {
	ted := WithDefaults()
	tree := simpleFunctionTree("f")
	ops := ted.CalculateOperations(tree, tree)
	require.NotEmpty(t, ops)
	for _, op := range ops {
		assert.Equal(t, OpMatch, op.Kind)
		assert.Equal(t, 0.0, op.Cost)
	}
}

// TestCalculateOperations_CostMatchesDistance_ChainVsStarReshape guards the
// §8 invariant that the summed operation cost equals CalculateDistance: a
// chain reshaped into a star (every node relocated to a different structural
// level) is exactly the case a flat postorder-sequence alignment gets wrong.
func TestCalculateOperations_CostMatchesDistance_ChainVsStarReshape(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	chain := buildChain(names)
	star := buildStar(names)

	ted := WithDefaults()
	distance := ted.CalculateDistance(chain, star)

	opsTed := WithDefaults()
	ops := opsTed.CalculateOperations(chain, star)
	var total float64
	for _, op := range ops {
		total += op.Cost
	}
	assert.InDelta(t, distance, total, 1e-9)
}

func TestCalculateOperations_CostAlwaysMatchesDistance(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E"}
	cases := []struct {
		name string
		a, b *difftypes.ASTNode
	}{
		{"renamed-function", simpleFunctionTree("a"), simpleFunctionTree("b")},
		{"identical-function", simpleFunctionTree("same"), simpleFunctionTree("same")},
		{"chain-vs-star", buildChain(names), buildStar(names)},
		{"star-vs-chain", buildStar(names), buildChain(names)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ted := WithDefaults()
			distance := ted.CalculateDistance(c.a, c.b)

			opsTed := WithDefaults()
			ops := opsTed.CalculateOperations(c.a, c.b)
			var total float64
			for _, op := range ops {
				total += op.Cost
			}
			assert.InDelta(t, distance, total, 1e-9)
		})
	}
}

func TestCalculateOperations_DeleteAndInsertCarryParentAndPosition(t *testing.T) {
	ted := WithDefaults()
	before := &difftypes.ASTNode{Kind: difftypes.NodeFunction, Children: []*difftypes.ASTNode{
		leaf(difftypes.NodeIdentifier, "f"),
	}}
	after := &difftypes.ASTNode{Kind: difftypes.NodeFunction, Children: []*difftypes.ASTNode{
		leaf(difftypes.NodeIdentifier, "f"),
		{Kind: difftypes.NodeParameter},
	}}

	ops := ted.CalculateOperations(before, after)
	var insert *EditOperation
	for i := range ops {
		if ops[i].Kind == OpInsert {
			insert = &ops[i]
		}
	}
	require.NotNil(t, insert)
	require.NotNil(t, insert.Parent)
	assert.Equal(t, after, insert.Parent)
	assert.Equal(t, 1, insert.Position)

	reverse := ted.CalculateOperations(after, before)
	var del *EditOperation
	for i := range reverse {
		if reverse[i].Kind == OpDelete {
			del = &reverse[i]
		}
	}
	require.NotNil(t, del)
	require.NotNil(t, del.Parent)
	assert.Equal(t, after, del.Parent)
	assert.Equal(t, 1, del.Position)
}

// buildChain links names into a single-child chain: names[0] -> names[1] ->
// ... -> names[len-1].
func buildChain(names []string) *difftypes.ASTNode {
	var build func(i int) *difftypes.ASTNode
	build = func(i int) *difftypes.ASTNode {
		node := &difftypes.ASTNode{Kind: difftypes.NodeBlock, Meta: difftypes.Metadata{Attributes: map[string]string{"name": names[i]}}}
		if i+1 < len(names) {
			node.Children = []*difftypes.ASTNode{build(i + 1)}
		}
		return node
	}
	return build(0)
}

// buildStar makes names[0] the root with every remaining name as a direct
// leaf child.
func buildStar(names []string) *difftypes.ASTNode {
	root := &difftypes.ASTNode{Kind: difftypes.NodeBlock, Meta: difftypes.Metadata{Attributes: map[string]string{"name": names[0]}}}
	for _, n := range names[1:] {
		root.Children = append(root.Children, &difftypes.ASTNode{Kind: difftypes.NodeBlock, Meta: difftypes.Metadata{Attributes: map[string]string{"name": n}}})
	}
	return root
}

func TestCalculateDistance_NilTrees(t *testing.T) {
	ted := WithDefaults()
	assert.Equal(t, 0.0, ted.CalculateDistance(nil, nil))

	leafNode := leaf(difftypes.NodeIdentifier, "x")
	distance := ted.CalculateDistance(nil, leafNode)
	assert.True(t, math.Abs(distance-ted.config.InsertCost) < 1e-9)
}
