package engine

import "github.com/oxhq/smartdiff/difftypes"

// DiffResult is the full output of comparing one source tree against one
// target tree: every layer's contribution rolled into a single record, the
// shape a driver (CLI, persisted store) actually wants to hand to a caller.
type DiffResult struct {
	Changes          []difftypes.Change
	Classifications  []difftypes.DetailedChangeClassification
	ManyToMany       []difftypes.ManyToManyMapping
	Patterns         []difftypes.RefactoringPattern
	HierarchyChanges []difftypes.HierarchyChange
	FileRefactorings []difftypes.FileRefactoring
	CrossFile        difftypes.CrossFileResult
	Statistics       difftypes.MatchingStatistics
}

// Pipeline wires every layer (L1 Scorer through L4 PatternDetector, plus the
// auxiliary hierarchy and file-refactoring trackers) into one entry point.
type Pipeline struct {
	matcher      *Matcher
	crossFile    *CrossFileTracker
	classifier   *Classifier
	patterns     *PatternDetector
	hierarchy    *HierarchyTracker
	fileRefactor *FileRefactorDetector
}

// NewPipeline returns a Pipeline under its default configuration, scoring
// every pair with scorer.
func NewPipeline(scorer *Scorer) *Pipeline {
	matcher := NewMatcher(DefaultMatcherConfig(), scorer)
	return &Pipeline{
		matcher:      matcher,
		crossFile:    NewCrossFileTracker(DefaultCrossFileConfig(), matcher),
		classifier:   NewClassifier(DefaultClassifierConfig()),
		patterns:     NewPatternDetector(DefaultPatternConfig()),
		hierarchy:    NewHierarchyTracker(DefaultHierarchyConfig()),
		fileRefactor: NewFileRefactorDetector(DefaultFileRefactorConfig()),
	}
}

// Run compares sources against targets, optionally also diffing file-level
// layout (sourceFiles/targetFiles) and class hierarchies (before/after); both
// may be nil/empty when the caller only cares about function-level changes.
func (p *Pipeline) Run(
	sources, targets []FunctionEntry,
	sourceFiles, targetFiles []FileInfo,
	before, after *difftypes.ClassHierarchy,
) DiffResult {
	bySrcFile := groupByFile(sources)
	byTgtFile := groupByFile(targets)

	matchedSrc := make(map[int]bool)
	matchedTgt := make(map[int]bool)

	var changes []difftypes.Change
	var classifications []difftypes.DetailedChangeClassification
	var mappings []difftypes.ManyToManyMapping
	stats := difftypes.MatchingStatistics{}

	for _, file := range unionFileKeys(bySrcFile, byTgtFile) {
		srcIdx := bySrcFile[file]
		tgtIdx := byTgtFile[file]
		if len(srcIdx) == 0 || len(tgtIdx) == 0 {
			continue
		}
		srcEntries := pickEntries(sources, srcIdx)
		tgtEntries := pickEntries(targets, tgtIdx)
		result := p.matcher.Match(srcEntries, tgtEntries)

		for _, a := range result.Assignments {
			matchedSrc[srcIdx[a.SourceIndex]] = true
			matchedTgt[tgtIdx[a.TargetIndex]] = true

			srcEntry := srcEntries[a.SourceIndex]
			tgtEntry := tgtEntries[a.TargetIndex]
			kind := p.classifier.ClassifySimple(
				a.Similarity, srcEntry.Signature.Name, tgtEntry.Signature.Name,
				srcEntry.filePath(), tgtEntry.filePath(),
				srcEntry.Signature.StartLine, tgtEntry.Signature.StartLine,
			)
			if kind == difftypes.ChangeModify && a.Similarity.Overall >= 0.999 {
				continue // unchanged, not reported as a Change
			}
			changes = append(changes, difftypes.Change{
				Kind:       kind,
				Source:     toCodeElement(srcEntry),
				Target:     toCodeElement(tgtEntry),
				Detail:     string(kind),
				Confidence: a.Confidence,
			})
			sizeDelta := tgtEntry.Signature.Metrics.LinesOfCode - srcEntry.Signature.Metrics.LinesOfCode
			classifications = append(classifications, p.classifier.ClassifyDetailed(
				a.Similarity, srcEntry.Signature.Name, tgtEntry.Signature.Name,
				srcEntry.filePath(), tgtEntry.filePath(),
				srcEntry.Signature.StartLine, tgtEntry.Signature.StartLine, sizeDelta,
			))
		}
		for _, mm := range result.ManyToMany {
			for _, si := range mm.SourceIndices {
				matchedSrc[srcIdx[si]] = true
			}
			for _, ti := range mm.TargetIndices {
				matchedTgt[tgtIdx[ti]] = true
			}
			mappings = append(mappings, rebaseMapping(mm, srcIdx, tgtIdx))
			changes = append(changes, withinFileGroupChange(srcEntries, tgtEntries, mm))
		}

		stats.OneToOneCount += len(result.Assignments)
		stats.ManyToManyCount += len(result.ManyToMany)
	}

	crossResult := p.crossFile.Track(sources, targets)
	changes = append(changes, crossResult.Changes...)
	for _, ch := range crossResult.Changes {
		if ch.Kind == difftypes.ChangeSplit || ch.Kind == difftypes.ChangeMerge {
			continue
		}
		if ch.Source != nil {
			if idx := indexByElement(sources, ch.Source); idx >= 0 {
				matchedSrc[idx] = true
			}
		}
		if ch.Target != nil {
			if idx := indexByElement(targets, ch.Target); idx >= 0 {
				matchedTgt[idx] = true
			}
		}
	}

	for i, e := range sources {
		if !matchedSrc[i] {
			changes = append(changes, difftypes.Change{Kind: difftypes.ChangeDelete, Source: toCodeElement(e), Confidence: 1})
		}
	}
	for j, e := range targets {
		if !matchedTgt[j] {
			changes = append(changes, difftypes.Change{Kind: difftypes.ChangeAdd, Target: toCodeElement(e), Confidence: 1})
		}
	}

	stats.UnmatchedSource = countUnmatched(sources, matchedSrc)
	stats.UnmatchedTarget = countUnmatched(targets, matchedTgt)
	denom := len(sources)
	if len(targets) > denom {
		denom = len(targets)
	}
	if denom > 0 {
		stats.MatchPercentage = float64(stats.OneToOneCount) / float64(denom) * 100
	}

	var patterns []difftypes.RefactoringPattern
	patterns = append(patterns, p.patterns.FromChanges(changes)...)
	patterns = append(patterns, p.patterns.FromManyToMany(mappings, sources, targets)...)

	var hierarchyChanges []difftypes.HierarchyChange
	if before != nil && after != nil {
		hierarchyChanges = p.hierarchy.Compare(before, after)
		patterns = append(patterns, p.patterns.FromHierarchy(hierarchyChanges)...)
	}

	var fileRefactorings []difftypes.FileRefactoring
	if len(sourceFiles) > 0 || len(targetFiles) > 0 {
		fileRefactorings = p.fileRefactor.Detect(sourceFiles, targetFiles)
	}

	return DiffResult{
		Changes:          changes,
		Classifications:  classifications,
		ManyToMany:       mappings,
		Patterns:         patterns,
		HierarchyChanges: hierarchyChanges,
		FileRefactorings: fileRefactorings,
		CrossFile:        crossResult,
		Statistics:       stats,
	}
}

func rebaseMapping(mm difftypes.ManyToManyMapping, srcIdx, tgtIdx []int) difftypes.ManyToManyMapping {
	out := mm
	out.SourceIndices = make([]int, len(mm.SourceIndices))
	for i, si := range mm.SourceIndices {
		out.SourceIndices[i] = srcIdx[si]
	}
	out.TargetIndices = make([]int, len(mm.TargetIndices))
	for i, ti := range mm.TargetIndices {
		out.TargetIndices[i] = tgtIdx[ti]
	}
	return out
}

func withinFileGroupChange(src, tgt []FunctionEntry, mm difftypes.ManyToManyMapping) difftypes.Change {
	kind := difftypes.ChangeSplit
	if mm.Kind == difftypes.MappingMerge {
		kind = difftypes.ChangeMerge
	}
	var s, t *difftypes.CodeElement
	if len(mm.SourceIndices) > 0 {
		s = toCodeElement(src[mm.SourceIndices[0]])
	}
	if len(mm.TargetIndices) > 0 {
		t = toCodeElement(tgt[mm.TargetIndices[0]])
	}
	return difftypes.Change{
		Kind:       kind,
		Source:     s,
		Target:     t,
		Detail:     crossFileGroupDetail(src, tgt, mm),
		Confidence: mm.Confidence,
	}
}

func indexByElement(entries []FunctionEntry, el *difftypes.CodeElement) int {
	for i, e := range entries {
		if e.Signature.Name == el.Name && e.filePath() == el.FilePath && e.Signature.StartLine == el.StartLine {
			return i
		}
	}
	return -1
}

func countUnmatched(entries []FunctionEntry, matched map[int]bool) int {
	n := 0
	for i := range entries {
		if !matched[i] {
			n++
		}
	}
	return n
}
