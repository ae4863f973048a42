package binarymatch

import (
	"runtime"
	"sync"
)

// BinaryFunctionMatcher implements §4.9: exact-name matching first, then
// fuzzy-name and (optionally) code-similarity matching over whatever is
// left, each phase only considering pairs the previous phase didn't claim.
type BinaryFunctionMatcher struct {
	config BinaryMatcherConfig
}

// NewBinaryFunctionMatcher returns a matcher under config.
func NewBinaryFunctionMatcher(config BinaryMatcherConfig) *BinaryFunctionMatcher {
	return &BinaryFunctionMatcher{config: config}
}

// Match compares sources against targets, returning every match the two
// phases recover plus whatever neither phase could place.
func (m *BinaryFunctionMatcher) Match(sources, targets []BinaryFunctionInfo) BinaryMatchResult {
	matchedSrc := make(map[int]bool, len(sources))
	matchedTgt := make(map[int]bool, len(targets))
	var matches []BinaryFunctionMatch

	exact := m.matchExactNames(sources, targets, matchedSrc, matchedTgt)
	matches = append(matches, exact...)

	remaining := m.candidateRows(sources, targets, matchedSrc, matchedTgt)
	fuzzyAndCode := m.matchRemaining(sources, targets, remaining, matchedSrc, matchedTgt)
	matches = append(matches, fuzzyAndCode...)

	var unmatchedSrc, unmatchedTgt []BinaryFunctionInfo
	for i, s := range sources {
		if !matchedSrc[i] {
			unmatchedSrc = append(unmatchedSrc, s)
		}
	}
	for j, t := range targets {
		if !matchedTgt[j] {
			unmatchedTgt = append(unmatchedTgt, t)
		}
	}

	stats := m.statistics(matches, len(sources), len(targets), len(unmatchedSrc), len(unmatchedTgt))

	return BinaryMatchResult{
		Matches:         matches,
		UnmatchedSource: unmatchedSrc,
		UnmatchedTarget: unmatchedTgt,
		Statistics:      stats,
	}
}

// matchExactNames pairs every source/target sharing an identical name,
// greedily and in input order — an exact name collision is unambiguous
// enough that no scoring is needed.
func (m *BinaryFunctionMatcher) matchExactNames(
	sources, targets []BinaryFunctionInfo,
	matchedSrc, matchedTgt map[int]bool,
) []BinaryFunctionMatch {
	byName := make(map[string][]int, len(targets))
	for j, t := range targets {
		byName[t.Name] = append(byName[t.Name], j)
	}

	var out []BinaryFunctionMatch
	for i, s := range sources {
		candidates := byName[s.Name]
		for k, j := range candidates {
			if matchedTgt[j] {
				continue
			}
			matchedSrc[i] = true
			matchedTgt[j] = true
			out = append(out, BinaryFunctionMatch{
				Source:         s,
				Target:         targets[j],
				Type:           ExactNameMatch,
				NameSimilarity: 1.0,
				Confidence:     1.0,
			})
			byName[s.Name] = append(candidates[:k], candidates[k+1:]...)
			break
		}
	}
	return out
}

// candidateRow is one still-unmatched source paired with the index of every
// still-unmatched target, a unit of work for the parallel fuzzy/code scan.
type candidateRow struct {
	srcIdx  int
	tgtIdxs []int
}

func (m *BinaryFunctionMatcher) candidateRows(
	sources, targets []BinaryFunctionInfo,
	matchedSrc, matchedTgt map[int]bool,
) []candidateRow {
	var remainingTgt []int
	for j := range targets {
		if !matchedTgt[j] {
			remainingTgt = append(remainingTgt, j)
		}
	}
	var rows []candidateRow
	for i := range sources {
		if matchedSrc[i] {
			continue
		}
		rows = append(rows, candidateRow{srcIdx: i, tgtIdxs: remainingTgt})
	}
	return rows
}

// rowBest is the best fuzzy/code candidate found for one source row.
type rowBest struct {
	srcIdx  int
	tgtIdx  int
	matched bool
	match   BinaryFunctionMatch
}

// matchRemaining scores every still-unmatched source against every
// still-unmatched target in parallel (rows are independent and commutative,
// mirroring the "bounded task pool around similarity-row computation" the
// source-level matcher is permitted under §5), then greedily accepts rows
// best-first so no target is claimed by two sources.
func (m *BinaryFunctionMatcher) matchRemaining(
	sources, targets []BinaryFunctionInfo,
	rows []candidateRow,
	matchedSrc, matchedTgt map[int]bool,
) []BinaryFunctionMatch {
	if len(rows) == 0 {
		return nil
	}

	workers := runtime.NumCPU() * 2
	if workers > len(rows) {
		workers = len(rows)
	}

	jobs := make(chan int, len(rows))
	results := make([]rowBest, len(rows))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = m.bestCandidate(sources, targets, rows[idx])
			}
		}()
	}
	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Accept rows highest-confidence first so one target can't be taken by
	// a weaker match before a stronger one is considered.
	order := make([]int, 0, len(results))
	for i, r := range results {
		if r.matched {
			order = append(order, i)
		}
	}
	sortByConfidenceDesc(order, results)

	var out []BinaryFunctionMatch
	for _, idx := range order {
		r := results[idx]
		if matchedSrc[r.srcIdx] || matchedTgt[r.tgtIdx] {
			continue
		}
		matchedSrc[r.srcIdx] = true
		matchedTgt[r.tgtIdx] = true
		out = append(out, r.match)
	}
	return out
}

func (m *BinaryFunctionMatcher) bestCandidate(sources, targets []BinaryFunctionInfo, row candidateRow) rowBest {
	src := sources[row.srcIdx]
	best := rowBest{srcIdx: row.srcIdx}
	bestConfidence := -1.0

	for _, j := range row.tgtIdxs {
		tgt := targets[j]
		nameSim := nameSimilarity(src.Name, tgt.Name)

		var codeSim float64
		haveCode := m.config.UseDecompiledCode && src.hasBody() && tgt.hasBody()
		if haveCode {
			codeSim = codeSimilarity(src.DecompiledBody, tgt.DecompiledBody)
		}

		fuzzyOK := nameSim >= m.config.FuzzyNameThreshold
		codeOK := haveCode && codeSim >= m.config.CodeSimilarityThreshold

		var kind MatchType
		var confidence float64
		switch {
		case fuzzyOK && codeOK:
			kind = HybridMatch
			confidence = 0.5*nameSim + 0.5*codeSim
		case codeOK:
			kind = CodeSimilarityMatch
			confidence = codeSim
		case fuzzyOK:
			kind = FuzzyNameMatch
			confidence = nameSim
		default:
			continue
		}

		if confidence < m.config.MinConfidence {
			continue
		}
		if confidence > bestConfidence {
			bestConfidence = confidence
			best.tgtIdx = j
			best.matched = true
			best.match = BinaryFunctionMatch{
				Source:         src,
				Target:         tgt,
				Type:           kind,
				NameSimilarity: nameSim,
				CodeSimilarity: codeSim,
				Confidence:     confidence,
			}
		}
	}

	return best
}

// sortByConfidenceDesc orders idx (indices into results) by descending
// match confidence, ties broken by source index for determinism.
func sortByConfidenceDesc(idx []int, results []rowBest) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0; j-- {
			a, b := results[idx[j-1]], results[idx[j]]
			if a.match.Confidence < b.match.Confidence ||
				(a.match.Confidence == b.match.Confidence && a.srcIdx > b.srcIdx) {
				idx[j-1], idx[j] = idx[j], idx[j-1]
				continue
			}
			break
		}
	}
}

func (m *BinaryFunctionMatcher) statistics(
	matches []BinaryFunctionMatch,
	sourceCount, targetCount, unmatchedSrc, unmatchedTgt int,
) BinaryMatchStatistics {
	stats := BinaryMatchStatistics{
		UnmatchedSource: unmatchedSrc,
		UnmatchedTarget: unmatchedTgt,
	}
	for _, mm := range matches {
		switch mm.Type {
		case ExactNameMatch:
			stats.ExactNameCount++
		case FuzzyNameMatch:
			stats.FuzzyNameCount++
		case CodeSimilarityMatch:
			stats.CodeSimilarityCount++
		case HybridMatch:
			stats.HybridCount++
		}
	}
	total := sourceCount
	if targetCount > total {
		total = targetCount
	}
	if total > 0 {
		stats.MatchPercentage = float64(len(matches)) / float64(total) * 100.0
	}
	return stats
}
