package difftypes

import (
	"fmt"
	"sort"
)

// DependencyNodeKind is the closed set of dependency-graph node kinds.
type DependencyNodeKind string

const (
	DepNodeFunction DependencyNodeKind = "function"
	DepNodeClass    DependencyNodeKind = "class"
	DepNodeVariable DependencyNodeKind = "variable"
	DepNodeModule   DependencyNodeKind = "module"
	DepNodeFile     DependencyNodeKind = "file"
)

// DependencyEdgeKind is the closed set of relationships an edge may encode.
type DependencyEdgeKind string

const (
	EdgeCalls     DependencyEdgeKind = "Calls"
	EdgeUses      DependencyEdgeKind = "Uses"
	EdgeInherits  DependencyEdgeKind = "Inherits"
	EdgeImplements DependencyEdgeKind = "Implements"
	EdgeImports   DependencyEdgeKind = "Imports"
	EdgeContains  DependencyEdgeKind = "Contains"
)

// DependencyNode identifies one entity tracked in a dependency graph.
type DependencyNode struct {
	ID       string
	Kind     DependencyNodeKind
	FilePath string
	Line     int
}

// DependencyEdge is a directed relationship between two node ids.
type DependencyEdge struct {
	From     string
	To       string
	Kind     DependencyEdgeKind
	Strength float64
}

// DependencyGraph is a directed multigraph over DependencyNode ids.
type DependencyGraph struct {
	nodes map[string]DependencyNode
	out   map[string][]DependencyEdge
	in    map[string][]DependencyEdge
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]DependencyNode),
		out:   make(map[string][]DependencyEdge),
		in:    make(map[string][]DependencyEdge),
	}
}

// AddNode registers a node, overwriting any existing node with the same id.
func (g *DependencyGraph) AddNode(n DependencyNode) {
	g.nodes[n.ID] = n
}

// AddEdge appends a directed edge. Both endpoints must already be registered
// via AddNode; AddEdge is a no-op if either is missing.
func (g *DependencyGraph) AddEdge(e DependencyEdge) {
	if _, ok := g.nodes[e.From]; !ok {
		return
	}
	if _, ok := g.nodes[e.To]; !ok {
		return
	}
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
}

// Node returns the node registered under id.
func (g *DependencyGraph) Node(id string) (DependencyNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every registered node id.
func (g *DependencyGraph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	return ids
}

// Successors returns the ids reachable from id via a single outgoing edge.
func (g *DependencyGraph) Successors(id string) []string {
	var out []string
	for _, e := range g.out[id] {
		out = append(out, e.To)
	}
	return out
}

// Predecessors returns the ids with an outgoing edge into id.
func (g *DependencyGraph) Predecessors(id string) []string {
	var out []string
	for _, e := range g.in[id] {
		out = append(out, e.From)
	}
	return out
}

// HasCycle reports whether the graph contains a directed cycle, via an
// explicit DFS with a three-colour mark (white/gray/black).
func (g *DependencyGraph) HasCycle() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, next := range g.Successors(id) {
			switch color[next] {
			case gray:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for id := range g.nodes {
		if color[id] == white {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// TopologicalLayers partitions nodes into dependency layers: layer 0 has no
// incoming edges from any other unplaced node, layer 1 depends only on layer
// 0, and so on; each layer lists its nodes in id order. Nodes participating
// in a cycle are placed, in id order, in a final layer appended after the
// acyclic layers so the function never fails even on cyclic input.
func (g *DependencyGraph) TopologicalLayers() [][]string {
	indegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		indegree[id] = 0
	}
	for _, edges := range g.out {
		for _, e := range edges {
			indegree[e.To]++
		}
	}

	var layers [][]string
	placed := make(map[string]bool, len(g.nodes))
	remaining := len(g.nodes)

	ids := g.Nodes()
	sort.Strings(ids)
	for remaining > 0 {
		var layer []string
		for _, id := range ids {
			if !placed[id] && indegree[id] == 0 {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			// Remaining nodes form one or more cycles; dump them as a final
			// layer in deterministic id order rather than looping forever.
			var rest []string
			for _, id := range ids {
				if !placed[id] {
					rest = append(rest, id)
				}
			}
			layers = append(layers, rest)
			break
		}
		for _, id := range layer {
			placed[id] = true
			remaining--
			for _, e := range g.out[id] {
				indegree[e.To]--
			}
		}
		layers = append(layers, layer)
	}
	return layers
}

func (e DependencyEdge) String() string {
	return fmt.Sprintf("%s --%s(%.2f)--> %s", e.From, e.Kind, e.Strength, e.To)
}
