package engine

import "github.com/oxhq/smartdiff/difftypes"

// detectManyToMany recovers split (1 source -> k targets), merge (k sources
// -> 1 target), and complex (j sources -> k targets) mappings from the
// indices one-to-one matching left unassigned (§4.3 step 5). It consumes
// indices greedily in input order; whatever is left over after all three
// passes is returned as the remaining unmatched sets.
func (m *Matcher) detectManyToMany(sources, targets []FunctionEntry, sim [][]float64, unmatchedSrc, unmatchedTgt []int) ([]difftypes.ManyToManyMapping, []int, []int) {
	remSrc := cloneInts(unmatchedSrc)
	remTgt := cloneInts(unmatchedTgt)
	var mappings []difftypes.ManyToManyMapping

	maxGroup := m.config.MaxGroupSize
	if maxGroup < 2 {
		maxGroup = 2
	}

	// Pass 1: splits — one source maps onto a group of targets.
	for _, srcIdx := range append([]int{}, remSrc...) {
		if !containsInt(remSrc, srcIdx) {
			continue
		}
		best, bestScore, ok := bestGroup(remTgt, maxGroup, func(group []int) float64 {
			sum := 0.0
			for _, t := range group {
				sum += sim[srcIdx][t]
			}
			return sum / float64(len(group))
		})
		if ok && bestScore >= m.config.MinSimilarityThreshold {
			mappings = append(mappings, difftypes.ManyToManyMapping{
				SourceIndices:      []int{srcIdx},
				TargetIndices:      best,
				Kind:               difftypes.MappingSplit,
				CombinedSimilarity: bestScore,
				Confidence:         splitMergeConfidence(bestScore, sources[srcIdx], targets, best),
			})
			remSrc = removeInt(remSrc, srcIdx)
			remTgt = removeInts(remTgt, best)
		}
	}

	// Pass 2: merges — a group of sources maps onto one target.
	for _, tgtIdx := range append([]int{}, remTgt...) {
		if !containsInt(remTgt, tgtIdx) {
			continue
		}
		best, bestScore, ok := bestGroup(remSrc, maxGroup, func(group []int) float64 {
			sum := 0.0
			for _, s := range group {
				sum += sim[s][tgtIdx]
			}
			return sum / float64(len(group))
		})
		if ok && bestScore >= m.config.MinSimilarityThreshold {
			mappings = append(mappings, difftypes.ManyToManyMapping{
				SourceIndices:      best,
				TargetIndices:      []int{tgtIdx},
				Kind:               difftypes.MappingMerge,
				CombinedSimilarity: bestScore,
				Confidence:         splitMergeConfidenceSources(bestScore, sources, best, targets[tgtIdx]),
			})
			remTgt = removeInt(remTgt, tgtIdx)
			remSrc = removeInts(remSrc, best)
		}
	}

	// Pass 3: complex — small groups on both sides whose cartesian mean
	// similarity clears the threshold, for leftovers that are neither a
	// clean split nor a clean merge.
	for len(remSrc) > 0 && len(remTgt) > 0 {
		srcGroup, tgtGroup, score, ok := bestComplexGroup(remSrc, remTgt, maxGroup, sim, m.config.MinSimilarityThreshold)
		if !ok {
			break
		}
		mappings = append(mappings, difftypes.ManyToManyMapping{
			SourceIndices:      srcGroup,
			TargetIndices:      tgtGroup,
			Kind:               difftypes.MappingComplex,
			CombinedSimilarity: score,
			Confidence:         clamp01(score * 0.8),
		})
		remSrc = removeInts(remSrc, srcGroup)
		remTgt = removeInts(remTgt, tgtGroup)
	}

	return mappings, remSrc, remTgt
}

// bestGroup tries every combination of pool's members with size 2..max,
// scoring each with score, and returns the best-scoring group.
func bestGroup(pool []int, max int, score func([]int) float64) ([]int, float64, bool) {
	if len(pool) < 2 {
		return nil, 0, false
	}
	upper := max
	if upper > len(pool) {
		upper = len(pool)
	}
	var bestGroup []int
	bestScore := -1.0
	for k := 2; k <= upper; k++ {
		for _, combo := range combinations(pool, k) {
			s := score(combo)
			if s > bestScore {
				bestScore = s
				bestGroup = combo
			}
		}
	}
	if bestGroup == nil {
		return nil, 0, false
	}
	return bestGroup, bestScore, true
}

func bestComplexGroup(srcPool, tgtPool []int, max int, sim [][]float64, threshold float64) ([]int, []int, float64, bool) {
	srcUpper := max
	if srcUpper > len(srcPool) {
		srcUpper = len(srcPool)
	}
	tgtUpper := max
	if tgtUpper > len(tgtPool) {
		tgtUpper = len(tgtPool)
	}
	bestScore := -1.0
	var bestSrc, bestTgt []int
	for sk := 1; sk <= srcUpper; sk++ {
		for _, sGroup := range combinations(srcPool, sk) {
			for tk := 1; tk <= tgtUpper; tk++ {
				if sk == 1 && tk == 1 {
					continue
				}
				for _, tGroup := range combinations(tgtPool, tk) {
					sum := 0.0
					for _, s := range sGroup {
						for _, t := range tGroup {
							sum += sim[s][t]
						}
					}
					avg := sum / float64(len(sGroup)*len(tGroup))
					if avg > bestScore {
						bestScore = avg
						bestSrc = sGroup
						bestTgt = tGroup
					}
				}
			}
		}
	}
	if bestSrc == nil || bestScore < threshold {
		return nil, nil, 0, false
	}
	return bestSrc, bestTgt, bestScore, true
}

func splitMergeConfidence(score float64, src FunctionEntry, targets []FunctionEntry, group []int) float64 {
	confidence := score * 0.6
	for _, t := range group {
		if nameContainsHint(targets[t].Signature.Name, splitMergeHints) || namesRelated(src.Signature.Name, targets[t].Signature.Name) {
			confidence += 0.2 / float64(len(group))
		}
		if pathsRelated(src.filePath(), targets[t].filePath()) {
			confidence += 0.1 / float64(len(group))
		}
	}
	return clamp01(confidence)
}

func splitMergeConfidenceSources(score float64, sources []FunctionEntry, group []int, tgt FunctionEntry) float64 {
	confidence := score * 0.6
	for _, s := range group {
		if nameContainsHint(sources[s].Signature.Name, splitMergeHints) || namesRelated(sources[s].Signature.Name, tgt.Signature.Name) {
			confidence += 0.2 / float64(len(group))
		}
		if pathsRelated(sources[s].filePath(), tgt.filePath()) {
			confidence += 0.1 / float64(len(group))
		}
	}
	return clamp01(confidence)
}

func combinations(pool []int, k int) [][]int {
	var out [][]int
	n := len(pool)
	if k > n {
		return out
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]int, k)
		for i, x := range idx {
			combo[i] = pool[x]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

func cloneInts(a []int) []int {
	return append([]int{}, a...)
}

func containsInt(a []int, v int) bool {
	for _, x := range a {
		if x == v {
			return true
		}
	}
	return false
}

func removeInt(a []int, v int) []int {
	out := a[:0:0]
	for _, x := range a {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func removeInts(a []int, vs []int) []int {
	out := a
	for _, v := range vs {
		out = removeInt(out, v)
	}
	return out
}
