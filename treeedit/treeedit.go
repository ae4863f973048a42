// Package treeedit implements the Zhang-Shasha tree edit distance algorithm
// (L0): the lowest layer of the matching pipeline, turning a pair of AST
// subtrees into a single edit distance / similarity number plus an
// illustrative edit script.
package treeedit

import (
	"sort"

	"github.com/oxhq/smartdiff/difftypes"
)

// ZhangShashaConfig tunes the algorithm's edit costs and the pruning/caching
// behaviour used to bound its cost on large trees.
type ZhangShashaConfig struct {
	InsertCost          float64
	DeleteCost          float64
	UpdateCost          float64
	EnableCaching       bool
	EnablePruning       bool
	MaxDepth            int
	MaxNodes            int
	SimilarityThreshold float64
	EnableParallel      bool
}

// DefaultConfig returns the balanced cost configuration used throughout the
// engine unless a caller overrides it.
func DefaultConfig() ZhangShashaConfig {
	return ZhangShashaConfig{
		InsertCost:          1.0,
		DeleteCost:          1.0,
		UpdateCost:          1.0,
		EnableCaching:       true,
		EnablePruning:       true,
		MaxDepth:            50,
		MaxNodes:            5000,
		SimilarityThreshold: 0.0,
		EnableParallel:      false,
	}
}

// EditOpKind is the closed set of edit-script operation kinds: Insert(parent,
// position, label), Delete(node), Update(node, new-label), and Match(a, b).
type EditOpKind string

const (
	OpInsert EditOpKind = "Insert"
	OpDelete EditOpKind = "Delete"
	OpUpdate EditOpKind = "Update"
	OpMatch  EditOpKind = "Match"
)

// EditOperation is one node-level correspondence in the mapping
// CalculateOperations recovers between a and b. SourceNode/TargetNode serve
// as the node identities §8 calls node-id: Delete and Update always carry
// SourceNode, Insert and Update always carry TargetNode, Match carries both.
// Parent/Position locate an Insert's new node within b, or a Delete/Update's
// node within a, by sibling index — enough to check that replaying every op
// against its own tree reconstructs the other.
type EditOperation struct {
	Kind       EditOpKind
	SourceNode *difftypes.ASTNode
	TargetNode *difftypes.ASTNode
	Parent     *difftypes.ASTNode
	Position   int
	Cost       float64
}

// TreeEditDistance computes Zhang-Shasha distance/similarity between AST
// subtrees under a fixed cost configuration, memoizing results across calls.
type TreeEditDistance struct {
	config    ZhangShashaConfig
	cache     map[string]float64
	cacheHits int
}

// New returns a TreeEditDistance configured by config.
func New(config ZhangShashaConfig) *TreeEditDistance {
	return &TreeEditDistance{config: config, cache: make(map[string]float64)}
}

// WithDefaults returns a TreeEditDistance using DefaultConfig.
func WithDefaults() *TreeEditDistance {
	return New(DefaultConfig())
}

// GetConfig returns the active configuration.
func (t *TreeEditDistance) GetConfig() ZhangShashaConfig {
	return t.config
}

// GetCacheStats returns the number of cached results and the number of cache
// hits served since construction.
func (t *TreeEditDistance) GetCacheStats() (int, int) {
	return len(t.cache), t.cacheHits
}

// treeIndex is a postorder-numbered view of an AST subtree, the structure
// the Zhang-Shasha recurrence is defined over. parent/position let the
// operations decoder locate any node's slot in its original tree, for Insert
// and Delete ops that name a parent and sibling index rather than just a
// node-id.
type treeIndex struct {
	nodes    []*difftypes.ASTNode
	leftmost []int
	keyroots []int
	parent   []int
	position []int
}

func buildIndex(root *difftypes.ASTNode) *treeIndex {
	idx := &treeIndex{}
	if root == nil {
		return idx
	}

	var post func(n *difftypes.ASTNode, parentIdx, pos int) int
	post = func(n *difftypes.ASTNode, parentIdx, pos int) int {
		firstChildLeftmost := -1
		childIdxs := make([]int, len(n.Children))
		for i, c := range n.Children {
			ci := post(c, -1, i)
			childIdxs[i] = ci
			if i == 0 {
				firstChildLeftmost = idx.leftmost[ci]
			}
		}
		self := len(idx.nodes)
		idx.nodes = append(idx.nodes, n)
		idx.parent = append(idx.parent, parentIdx)
		idx.position = append(idx.position, pos)
		for _, ci := range childIdxs {
			idx.parent[ci] = self
		}
		if len(n.Children) == 0 {
			idx.leftmost = append(idx.leftmost, self)
		} else {
			idx.leftmost = append(idx.leftmost, firstChildLeftmost)
		}
		return self
	}
	post(root, -1, 0)

	lastByLeftmost := make(map[int]int, len(idx.nodes))
	for i, l := range idx.leftmost {
		lastByLeftmost[l] = i
	}
	idx.keyroots = make([]int, 0, len(lastByLeftmost))
	for _, i := range lastByLeftmost {
		idx.keyroots = append(idx.keyroots, i)
	}
	sort.Ints(idx.keyroots)
	return idx
}

// fdAction records which branch of the forest-distance recurrence produced
// the minimum at one cell, so CalculateOperations can later replay the exact
// same choices treeDistanceTable made instead of re-deriving them from a
// different, possibly inconsistent recurrence.
type fdAction int

const (
	fdDelete fdAction = iota
	fdInsert
	fdMatch
	fdJump
)

// forestTable is the backtrace grid for one keyroot pair's forest-distance
// computation: back[r][c] records how fd[r][c] (not itself retained) was
// derived, in the (r,c) coordinates local to that keyroot pair's li/lj frame.
type forestTable struct {
	rows, cols int
	li, lj     int
	back       [][]fdAction
}

// computeTreeDistance runs the classic Zhang-Shasha recurrence once, filling
// the full permanent distance table td (td[i][j] is the tree edit distance
// between the subtree rooted at t1.nodes[i] and t2.nodes[j]) and, for every
// keyroot pair, the backtrace grid needed to recover a cost-consistent
// mapping. CalculateDistance and CalculateOperations both derive from this
// single computation so the two can never disagree on total cost.
func computeTreeDistance(t1, t2 *treeIndex, cost ZhangShashaConfig) (td [][]float64, tables map[[2]int]*forestTable) {
	n1, n2 := len(t1.nodes), len(t2.nodes)
	td = make([][]float64, n1)
	for i := range td {
		td[i] = make([]float64, n2)
	}
	tables = make(map[[2]int]*forestTable, len(t1.keyroots)*len(t2.keyroots))
	if n1 == 0 || n2 == 0 {
		return td, tables
	}

	for _, i := range t1.keyroots {
		for _, j := range t2.keyroots {
			li := t1.leftmost[i]
			lj := t2.leftmost[j]
			rows := i - li + 2
			cols := j - lj + 2

			fd := make([][]float64, rows)
			back := make([][]fdAction, rows)
			for r := range fd {
				fd[r] = make([]float64, cols)
				back[r] = make([]fdAction, cols)
			}
			for r := 1; r < rows; r++ {
				fd[r][0] = fd[r-1][0] + cost.DeleteCost
				back[r][0] = fdDelete
			}
			for c := 1; c < cols; c++ {
				fd[0][c] = fd[0][c-1] + cost.InsertCost
				back[0][c] = fdInsert
			}

			for r := 1; r < rows; r++ {
				i1 := li - 1 + r
				for c := 1; c < cols; c++ {
					j1 := lj - 1 + c

					del := fd[r-1][c] + cost.DeleteCost
					ins := fd[r][c-1] + cost.InsertCost

					if t1.leftmost[i1] == li && t2.leftmost[j1] == lj {
						update := 0.0
						if t1.nodes[i1].Label() != t2.nodes[j1].Label() {
							update = cost.UpdateCost
						}
						match := fd[r-1][c-1] + update
						best, action := del, fdDelete
						if ins < best {
							best, action = ins, fdInsert
						}
						if match < best {
							best, action = match, fdMatch
						}
						fd[r][c] = best
						back[r][c] = action
						td[i1][j1] = best
					} else {
						ro := t1.leftmost[i1] - li
						co := t2.leftmost[j1] - lj
						jump := fd[ro][co] + td[i1][j1]
						best, action := del, fdDelete
						if ins < best {
							best, action = ins, fdInsert
						}
						if jump < best {
							best, action = jump, fdJump
						}
						fd[r][c] = best
						back[r][c] = action
					}
				}
			}

			tables[[2]int{i, j}] = &forestTable{rows: rows, cols: cols, li: li, lj: lj, back: back}
		}
	}
	return td, tables
}

// treeDistanceTable returns just the permanent distance table, for callers
// (CalculateDistance) that only need the final number.
func treeDistanceTable(t1, t2 *treeIndex, cost ZhangShashaConfig) [][]float64 {
	td, _ := computeTreeDistance(t1, t2, cost)
	return td
}

func treeHash(n *difftypes.ASTNode) string {
	if n == nil {
		return "<nil>"
	}
	var sb []byte
	n.Walk(func(node *difftypes.ASTNode) {
		sb = append(sb, node.Label()...)
		sb = append(sb, ';')
	})
	return string(sb)
}

func (t *TreeEditDistance) cacheKey(a, b *difftypes.ASTNode) string {
	return treeHash(a) + "|" + treeHash(b)
}

// approximateDistance is the cheap fallback used once a tree exceeds the
// configured size/depth limits with pruning enabled: the size delta plus a
// root-label mismatch penalty, instead of running the full O(n^2 log n)
// recurrence.
func approximateDistance(a, b *difftypes.ASTNode, cost ZhangShashaConfig) float64 {
	sizeA, sizeB := a.Size(), b.Size()
	delta := sizeA - sizeB
	if delta < 0 {
		delta = -delta
	}
	approx := float64(delta) * cost.DeleteCost
	if a.Label() != b.Label() {
		approx += cost.UpdateCost
	}
	return approx
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// CalculateDistance returns the Zhang-Shasha tree edit distance between a and
// b, memoized when caching is enabled and approximated when either tree
// exceeds the configured size/depth limits with pruning enabled.
func (t *TreeEditDistance) CalculateDistance(a, b *difftypes.ASTNode) float64 {
	if a == nil && b == nil {
		return 0
	}

	var key string
	if t.config.EnableCaching {
		key = t.cacheKey(a, b)
		if v, ok := t.cache[key]; ok {
			t.cacheHits++
			return v
		}
	}

	var result float64
	if t.config.EnablePruning && (a.Size() > t.config.MaxNodes || b.Size() > t.config.MaxNodes ||
		maxInt(a.Depth(), b.Depth()) > t.config.MaxDepth) {
		result = approximateDistance(a, b, t.config)
	} else {
		t1 := buildIndex(a)
		t2 := buildIndex(b)
		if len(t1.nodes) == 0 {
			result = float64(len(t2.nodes)) * t.config.InsertCost
		} else if len(t2.nodes) == 0 {
			result = float64(len(t1.nodes)) * t.config.DeleteCost
		} else {
			td := treeDistanceTable(t1, t2, t.config)
			result = td[len(t1.nodes)-1][len(t2.nodes)-1]
		}
	}

	if t.config.EnableCaching {
		t.cache[key] = result
	}
	return result
}

// CalculateSimilarity normalizes CalculateDistance into [0,1], where 1 means
// identical trees and 0 means maximally different under the active cost
// configuration.
func (t *TreeEditDistance) CalculateSimilarity(a, b *difftypes.ASTNode) float64 {
	distance := t.CalculateDistance(a, b)
	maxCost := t.config.DeleteCost
	if t.config.InsertCost > maxCost {
		maxCost = t.config.InsertCost
	}
	if t.config.UpdateCost > maxCost {
		maxCost = t.config.UpdateCost
	}
	denom := float64(a.Size()+b.Size()) * maxCost
	if denom == 0 {
		return 1.0
	}
	sim := 1.0 - distance/denom
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim
}

// CalculateOperations returns the node-level mapping between a and b implied
// by the same forest-distance backtrace computeTreeDistance/CalculateDistance
// use, so the summed Cost of the returned ops always equals
// CalculateDistance(a, b) (§8's cost-equivalence invariant). The result is an
// unordered correspondence, not a sequential patch script: every node of a is
// covered by exactly one Delete, Update, or Match, and every node of b by
// exactly one Insert, Update, or Match.
func (t *TreeEditDistance) CalculateOperations(a, b *difftypes.ASTNode) []EditOperation {
	if a == nil && b == nil {
		return nil
	}
	if t.config.EnablePruning && (a.Size() > t.config.MaxNodes || b.Size() > t.config.MaxNodes ||
		maxInt(a.Depth(), b.Depth()) > t.config.MaxDepth) {
		return approximateOperations(a, b, t.config)
	}

	t1 := buildIndex(a)
	t2 := buildIndex(b)
	n1, n2 := len(t1.nodes), len(t2.nodes)
	if n1 == 0 {
		return insertAllOps(t2, t.config)
	}
	if n2 == 0 {
		return deleteAllOps(t1, t.config)
	}

	_, tables := computeTreeDistance(t1, t2, t.config)
	d := &opDecoder{t1: t1, t2: t2, tables: tables, cost: t.config}
	return d.decode(n1-1, n2-1)
}

// opDecoder replays the backtrace forestTable computeTreeDistance built,
// turning cell-by-cell choices back into EditOperations.
type opDecoder struct {
	t1, t2 *treeIndex
	tables map[[2]int]*forestTable
	cost   ZhangShashaConfig
}

// decode recovers the mapping for the subtree-pair rooted at t1.nodes[i] and
// t2.nodes[j], which must themselves be a keyroot pair (true for the overall
// tree roots, and true by construction for every pair decode recurses into
// via an fdJump cell).
func (d *opDecoder) decode(i, j int) []EditOperation {
	table := d.tables[[2]int{i, j}]
	return d.decodeCell(table, table.rows-1, table.cols-1)
}

func (d *opDecoder) decodeCell(table *forestTable, r, c int) []EditOperation {
	var ops []EditOperation
	for r > 0 || c > 0 {
		switch {
		case r > 0 && (c == 0 || table.back[r][c] == fdDelete):
			ops = append(ops, d.deleteOp(table.li-1+r))
			r--
		case c > 0 && (r == 0 || table.back[r][c] == fdInsert):
			ops = append(ops, d.insertOp(table.lj-1+c))
			c--
		case table.back[r][c] == fdMatch:
			ops = append(ops, d.matchOrUpdateOp(table.li-1+r, table.lj-1+c))
			r--
			c--
		default: // fdJump
			i1, j1 := table.li-1+r, table.lj-1+c
			ro := d.t1.leftmost[i1] - table.li
			co := d.t2.leftmost[j1] - table.lj
			ops = append(ops, d.decode(i1, j1)...)
			r, c = ro, co
		}
	}
	return ops
}

func (d *opDecoder) deleteOp(i1 int) EditOperation {
	node := d.t1.nodes[i1]
	return EditOperation{
		Kind:       OpDelete,
		SourceNode: node,
		Parent:     d.t1.parentNode(i1),
		Position:   d.t1.position[i1],
		Cost:       d.cost.DeleteCost,
	}
}

func (d *opDecoder) insertOp(j1 int) EditOperation {
	node := d.t2.nodes[j1]
	return EditOperation{
		Kind:       OpInsert,
		TargetNode: node,
		Parent:     d.t2.parentNode(j1),
		Position:   d.t2.position[j1],
		Cost:       d.cost.InsertCost,
	}
}

func (d *opDecoder) matchOrUpdateOp(i1, j1 int) EditOperation {
	src, tgt := d.t1.nodes[i1], d.t2.nodes[j1]
	if src.Label() == tgt.Label() {
		return EditOperation{Kind: OpMatch, SourceNode: src, TargetNode: tgt}
	}
	return EditOperation{
		Kind:       OpUpdate,
		SourceNode: src,
		TargetNode: tgt,
		Parent:     d.t1.parentNode(i1),
		Position:   d.t1.position[i1],
		Cost:       d.cost.UpdateCost,
	}
}

// parentNode resolves idx.parent[i] to the actual node, or nil at the root.
func (idx *treeIndex) parentNode(i int) *difftypes.ASTNode {
	if p := idx.parent[i]; p >= 0 {
		return idx.nodes[p]
	}
	return nil
}

// insertAllOps/deleteAllOps handle the one-side-empty edge cases directly,
// matching the float64(len(nodes))*cost totals CalculateDistance returns for
// the same inputs.
func insertAllOps(t2 *treeIndex, cost ZhangShashaConfig) []EditOperation {
	ops := make([]EditOperation, 0, len(t2.nodes))
	for j := range t2.nodes {
		ops = append(ops, EditOperation{
			Kind:       OpInsert,
			TargetNode: t2.nodes[j],
			Parent:     t2.parentNode(j),
			Position:   t2.position[j],
			Cost:       cost.InsertCost,
		})
	}
	return ops
}

func deleteAllOps(t1 *treeIndex, cost ZhangShashaConfig) []EditOperation {
	ops := make([]EditOperation, 0, len(t1.nodes))
	for i := range t1.nodes {
		ops = append(ops, EditOperation{
			Kind:       OpDelete,
			SourceNode: t1.nodes[i],
			Parent:     t1.parentNode(i),
			Position:   t1.position[i],
			Cost:       cost.DeleteCost,
		})
	}
	return ops
}

// approximateOperations mirrors approximateDistance's cost exactly (same
// size-delta-times-DeleteCost plus root-label-mismatch term) for the pruned,
// oversized-tree path, so the cost-equivalence invariant holds there too even
// though no node-level mapping is attempted.
func approximateOperations(a, b *difftypes.ASTNode, cost ZhangShashaConfig) []EditOperation {
	sizeA, sizeB := a.Size(), b.Size()
	delta := sizeA - sizeB
	if delta < 0 {
		delta = -delta
	}
	var ops []EditOperation
	if delta > 0 {
		if sizeA > sizeB {
			ops = append(ops, EditOperation{Kind: OpDelete, SourceNode: a, Cost: float64(delta) * cost.DeleteCost})
		} else {
			ops = append(ops, EditOperation{Kind: OpInsert, TargetNode: b, Cost: float64(delta) * cost.DeleteCost})
		}
	}
	if a.Label() != b.Label() {
		ops = append(ops, EditOperation{Kind: OpUpdate, SourceNode: a, TargetNode: b, Cost: cost.UpdateCost})
	}
	return ops
}
