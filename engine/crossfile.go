package engine

import (
	"sort"

	"github.com/oxhq/smartdiff/difftypes"
)

// CrossFileTracker implements §4.4: it first lets functions match within
// their own file (ordinary L2 matching, penalty-free), then takes whatever
// is left unmatched on both sides and re-matches it across file boundaries
// to recover moves, renamed moves, and cross-file splits/merges.
type CrossFileTracker struct {
	config  CrossFileConfig
	matcher *Matcher
}

// NewCrossFileTracker returns a tracker under config, reusing matcher's
// Scorer for all comparisons.
func NewCrossFileTracker(config CrossFileConfig, matcher *Matcher) *CrossFileTracker {
	return &CrossFileTracker{config: config, matcher: matcher}
}

// Track matches sources against targets, attributing every function that
// moved file (with or without modification, with or without rename) to a
// Change, and rolling up per-file and overall statistics.
func (c *CrossFileTracker) Track(sources, targets []FunctionEntry) difftypes.CrossFileResult {
	bySrcFile := groupByFile(sources)
	byTgtFile := groupByFile(targets)

	matchedSrc := make(map[int]bool)
	matchedTgt := make(map[int]bool)

	for _, file := range unionFileKeys(bySrcFile, byTgtFile) {
		srcIdx := bySrcFile[file]
		tgtIdx := byTgtFile[file]
		if len(srcIdx) == 0 || len(tgtIdx) == 0 {
			continue
		}
		result := c.matcher.Match(pickEntries(sources, srcIdx), pickEntries(targets, tgtIdx))
		for _, a := range result.Assignments {
			matchedSrc[srcIdx[a.SourceIndex]] = true
			matchedTgt[tgtIdx[a.TargetIndex]] = true
		}
		for _, mm := range result.ManyToMany {
			for _, si := range mm.SourceIndices {
				matchedSrc[srcIdx[si]] = true
			}
			for _, ti := range mm.TargetIndices {
				matchedTgt[tgtIdx[ti]] = true
			}
		}
	}

	var remSrcIdx, remTgtIdx []int
	for i := range sources {
		if !matchedSrc[i] {
			remSrcIdx = append(remSrcIdx, i)
		}
	}
	for j := range targets {
		if !matchedTgt[j] {
			remTgtIdx = append(remTgtIdx, j)
		}
	}

	remSrc := pickEntries(sources, remSrcIdx)
	remTgt := pickEntries(targets, remTgtIdx)

	crossCfg := c.matcher.config
	crossCfg.CrossFilePenalty = 0
	crossCfg.MinSimilarityThreshold = c.config.SplitMergeThreshold
	crossMatcher := NewMatcher(crossCfg, c.matcher.scorer)
	crossResult := crossMatcher.Match(remSrc, remTgt)

	fileStats := make(map[string]*difftypes.FileStatistics)
	var changes []difftypes.Change
	overallMoved, overallRenamed := 0, 0

	for _, a := range crossResult.Assignments {
		if a.Similarity.Overall < c.config.MinCrossFileSimilarity {
			continue
		}
		srcEntry := remSrc[a.SourceIndex]
		tgtEntry := remTgt[a.TargetIndex]
		if srcEntry.filePath() == tgtEntry.filePath() {
			continue
		}
		detail := c.classifyMoveDetail(a.Similarity.Overall, srcEntry.Signature.Name == tgtEntry.Signature.Name)
		changes = append(changes, difftypes.Change{
			Kind:       difftypes.ChangeCrossFileMove,
			Source:     toCodeElement(srcEntry),
			Target:     toCodeElement(tgtEntry),
			Detail:     detail,
			Confidence: a.Confidence,
		})
		overallMoved++
		if srcEntry.Signature.Name != tgtEntry.Signature.Name {
			overallRenamed++
		}
		statFor(fileStats, srcEntry.filePath()).MovedOut++
		statFor(fileStats, tgtEntry.filePath()).MovedIn++
		if srcEntry.Signature.Name != tgtEntry.Signature.Name {
			statFor(fileStats, tgtEntry.filePath()).Renamed++
		}
	}

	for _, mm := range crossResult.ManyToMany {
		if mm.CombinedSimilarity < c.config.SplitMergeThreshold {
			continue
		}
		kind := difftypes.ChangeSplit
		if mm.Kind == difftypes.MappingMerge {
			kind = difftypes.ChangeMerge
		}
		var src, tgt *difftypes.CodeElement
		if len(mm.SourceIndices) > 0 {
			src = toCodeElement(remSrc[mm.SourceIndices[0]])
		}
		if len(mm.TargetIndices) > 0 {
			tgt = toCodeElement(remTgt[mm.TargetIndices[0]])
		}
		changes = append(changes, difftypes.Change{
			Kind:       kind,
			Source:     src,
			Target:     tgt,
			Detail:     crossFileGroupDetail(remSrc, remTgt, mm),
			Confidence: mm.Confidence,
		})
		overallMoved++
	}

	var perFile []difftypes.FileStatistics
	for _, file := range sortedFileKeys(fileStats) {
		stat := fileStats[file]
		stat.FilePath = file
		if stat.MovedIn+stat.MovedOut > 0 {
			stat.AverageConfidence = clamp01(stat.AverageConfidence)
		}
		perFile = append(perFile, *stat)
	}

	return difftypes.CrossFileResult{
		Changes:        changes,
		PerFile:        perFile,
		OverallMoved:   overallMoved,
		OverallRenamed: overallRenamed,
	}
}

func (c *CrossFileTracker) classifyMoveDetail(similarity float64, sameName bool) string {
	switch {
	case similarity >= c.config.SimpleMoveThreshold && sameName:
		return "moved without modification"
	case similarity >= c.config.ModificationThreshold:
		return "moved and modified"
	case !sameName && similarity >= c.config.RenameBodyThreshold:
		return "renamed and moved"
	case similarity >= c.config.RefactoringThreshold:
		return "moved with refactoring"
	default:
		return "moved (low confidence)"
	}
}

func crossFileGroupDetail(src, tgt []FunctionEntry, mm difftypes.ManyToManyMapping) string {
	if mm.Kind == difftypes.MappingMerge {
		names := make([]string, 0, len(mm.SourceIndices))
		for _, i := range mm.SourceIndices {
			names = append(names, src[i].Signature.Name)
		}
		return "merged from " + joinNames(names)
	}
	names := make([]string, 0, len(mm.TargetIndices))
	for _, j := range mm.TargetIndices {
		names = append(names, tgt[j].Signature.Name)
	}
	return "split into " + joinNames(names)
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func toCodeElement(e FunctionEntry) *difftypes.CodeElement {
	return &difftypes.CodeElement{
		Name:        e.Signature.Name,
		FilePath:    e.filePath(),
		StartLine:   e.Signature.StartLine,
		EndLine:     e.Signature.EndLine,
		ElementType: "function",
	}
}

func statFor(m map[string]*difftypes.FileStatistics, file string) *difftypes.FileStatistics {
	if s, ok := m[file]; ok {
		return s
	}
	s := &difftypes.FileStatistics{FilePath: file}
	m[file] = s
	return s
}

func groupByFile(entries []FunctionEntry) map[string][]int {
	out := make(map[string][]int)
	for i, e := range entries {
		out[e.filePath()] = append(out[e.filePath()], i)
	}
	return out
}

func unionFileKeys(a, b map[string][]int) []string {
	seen := make(map[string]bool)
	var out []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func sortedFileKeys(m map[string]*difftypes.FileStatistics) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func pickEntries(entries []FunctionEntry, idx []int) []FunctionEntry {
	out := make([]FunctionEntry, len(idx))
	for i, x := range idx {
		out[i] = entries[x]
	}
	return out
}
