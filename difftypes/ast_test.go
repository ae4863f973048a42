package difftypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASTNode_SizeAndDepth(t *testing.T) {
	leaf1 := NewLeaf(NodeIdentifier, Metadata{Line: 1})
	leaf2 := NewLeaf(NodeLiteral, Metadata{Line: 2})
	inner := &ASTNode{Kind: NodeBlock, Children: []*ASTNode{leaf1, leaf2}}
	root := &ASTNode{Kind: NodeFunction, Children: []*ASTNode{inner}}

	assert.Equal(t, 4, root.Size())
	assert.Equal(t, 3, root.Depth())
	assert.Equal(t, 0, (*ASTNode)(nil).Size())
	assert.Equal(t, 0, (*ASTNode)(nil).Depth())
}

func TestASTNode_Label(t *testing.T) {
	n := NewLeaf(NodeFunction, Metadata{Attributes: map[string]string{"name": "doWork"}})
	assert.Equal(t, "Function:doWork", n.Label())

	anon := NewLeaf(NodeBlock, Metadata{})
	assert.Equal(t, "Block", anon.Label())
}

func TestASTNode_CollectByKind(t *testing.T) {
	call1 := NewLeaf(NodeCall, Metadata{Attributes: map[string]string{"name": "a"}})
	call2 := NewLeaf(NodeCall, Metadata{Attributes: map[string]string{"name": "b"}})
	root := &ASTNode{Kind: NodeFunction, Children: []*ASTNode{
		{Kind: NodeBlock, Children: []*ASTNode{call1, call2}},
	}}

	calls := root.CollectByKind(NodeCall)
	require.Len(t, calls, 2)
	assert.Equal(t, "Call:a", calls[0].Label())
	assert.Equal(t, "Call:b", calls[1].Label())
}

func TestASTNode_Walk(t *testing.T) {
	root := &ASTNode{Kind: NodeFunction, Children: []*ASTNode{
		NewLeaf(NodeIdentifier, Metadata{}),
		NewLeaf(NodeReturn, Metadata{}),
	}}
	var kinds []NodeKind
	root.Walk(func(n *ASTNode) { kinds = append(kinds, n.Kind) })
	assert.Equal(t, []NodeKind{NodeFunction, NodeIdentifier, NodeReturn}, kinds)
}
