package engine

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/smartdiff/difftypes"
)

// FileInfo is one file the file-refactoring detector (§4.5) compares: its
// path, raw text content, and the symbol (function) names it declares.
type FileInfo struct {
	Path    string
	Content string
	Symbols []string
}

// FileRefactorDetector implements §4.5: whole-file rename/move/split/merge
// detection driven by content, path, and symbol-migration similarity.
type FileRefactorDetector struct {
	config FileRefactorConfig
}

// NewFileRefactorDetector returns a detector under config.
func NewFileRefactorDetector(config FileRefactorConfig) *FileRefactorDetector {
	return &FileRefactorDetector{config: config}
}

// Detect compares sources against targets, returning the renames/moves it
// can pin down one-to-one and the splits/merges it recovers from the
// leftovers' symbol overlap.
func (d *FileRefactorDetector) Detect(sources, targets []FileInfo) []difftypes.FileRefactoring {
	matchedSrc := make(map[int]bool)
	matchedTgt := make(map[int]bool)

	for i, s := range sources {
		for j, t := range targets {
			if s.Path == t.Path {
				matchedSrc[i] = true
				matchedTgt[j] = true
			}
		}
	}

	var results []difftypes.FileRefactoring

	type scored struct {
		i, j  int
		score float64
	}
	var candidates []scored
	for i, s := range sources {
		if matchedSrc[i] {
			continue
		}
		for j, t := range targets {
			if matchedTgt[j] {
				continue
			}
			candidates = append(candidates, scored{i, j, d.renameScore(s, t)})
		}
	}
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].score > candidates[b].score })

	const renameThreshold = 0.5
	for _, c := range candidates {
		if matchedSrc[c.i] || matchedTgt[c.j] {
			continue
		}
		if c.score < renameThreshold {
			continue
		}
		src, tgt := sources[c.i], targets[c.j]
		matchedSrc[c.i] = true
		matchedTgt[c.j] = true

		kind := difftypes.FileRename
		if filepath.Base(src.Path) == filepath.Base(tgt.Path) {
			kind = difftypes.FileMove
		}
		results = append(results, difftypes.FileRefactoring{
			Kind:           kind,
			SourceFiles:    []string{src.Path},
			TargetFiles:    []string{tgt.Path},
			Confidence:     clamp01(c.score),
			SharedElements: sharedSymbols(src.Symbols, tgt.Symbols),
		})
	}

	var remSrc, remTgt []int
	for i := range sources {
		if !matchedSrc[i] {
			remSrc = append(remSrc, i)
		}
	}
	for j := range targets {
		if !matchedTgt[j] {
			remTgt = append(remTgt, j)
		}
	}

	// Splits: one leftover source file's symbols spread across >=2 leftover
	// target files.
	for _, si := range remSrc {
		if matchedSrc[si] {
			continue
		}
		var hitTgt []int
		for _, tj := range remTgt {
			if matchedTgt[tj] {
				continue
			}
			if jaccard(sources[si].Symbols, targets[tj].Symbols) > 0 {
				hitTgt = append(hitTgt, tj)
			}
		}
		if len(hitTgt) < 2 {
			continue
		}
		coverage := symbolCoverage(sources[si].Symbols, hitTgt, targets)
		if coverage < d.config.MinSplitSimilarity {
			continue
		}
		var targetPaths []string
		for _, tj := range hitTgt {
			targetPaths = append(targetPaths, targets[tj].Path)
			matchedTgt[tj] = true
		}
		matchedSrc[si] = true
		results = append(results, difftypes.FileRefactoring{
			Kind:           difftypes.FileSplit,
			SourceFiles:    []string{sources[si].Path},
			TargetFiles:    targetPaths,
			Confidence:     clamp01(coverage),
			SharedElements: sources[si].Symbols,
		})
	}

	// Merges: >=2 leftover source files' symbols converge into one leftover
	// target file.
	for _, tj := range remTgt {
		if matchedTgt[tj] {
			continue
		}
		var hitSrc []int
		for _, si := range remSrc {
			if matchedSrc[si] {
				continue
			}
			if jaccard(sources[si].Symbols, targets[tj].Symbols) > 0 {
				hitSrc = append(hitSrc, si)
			}
		}
		if len(hitSrc) < 2 {
			continue
		}
		coverage := symbolCoverageReverse(targets[tj].Symbols, hitSrc, sources)
		if coverage < d.config.MinSplitSimilarity {
			continue
		}
		var sourcePaths []string
		for _, si := range hitSrc {
			sourcePaths = append(sourcePaths, sources[si].Path)
			matchedSrc[si] = true
		}
		matchedTgt[tj] = true
		results = append(results, difftypes.FileRefactoring{
			Kind:           difftypes.FileMerge,
			SourceFiles:    sourcePaths,
			TargetFiles:    []string{targets[tj].Path},
			Confidence:     clamp01(coverage),
			SharedElements: targets[tj].Symbols,
		})
	}

	return results
}

// renameScore implements §4.5's rename score: content 0.6, path 0.2, symbol
// migration 0.2.
func (d *FileRefactorDetector) renameScore(src, tgt FileInfo) float64 {
	content := contentSimilarity(src.Content, tgt.Content)
	path := (pathPrefixSimilarity(filepath.Dir(src.Path), filepath.Dir(tgt.Path)) +
		nameSimilarity(stemName(src.Path), stemName(tgt.Path))) / 2
	symbols := jaccard(src.Symbols, tgt.Symbols)
	return content*0.6 + path*0.2 + symbols*0.2
}

func contentSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	matcher := difflib.NewMatcher(splitNormalizedLines(a), splitNormalizedLines(b))
	return matcher.Ratio()
}

func splitNormalizedLines(s string) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

func sharedSymbols(a, b []string) []string {
	bSet := toSet(b)
	var out []string
	for _, x := range a {
		if bSet[x] {
			out = append(out, x)
		}
	}
	return out
}

func symbolCoverage(srcSymbols []string, tgtFiles []int, targets []FileInfo) float64 {
	if len(srcSymbols) == 0 {
		return 0
	}
	covered := make(map[string]bool)
	for _, tj := range tgtFiles {
		for _, sym := range targets[tj].Symbols {
			covered[sym] = true
		}
	}
	hit := 0
	for _, s := range srcSymbols {
		if covered[s] {
			hit++
		}
	}
	return float64(hit) / float64(len(srcSymbols))
}

func symbolCoverageReverse(tgtSymbols []string, srcFiles []int, sources []FileInfo) float64 {
	if len(tgtSymbols) == 0 {
		return 0
	}
	covered := make(map[string]bool)
	for _, si := range srcFiles {
		for _, sym := range sources[si].Symbols {
			covered[sym] = true
		}
	}
	hit := 0
	for _, s := range tgtSymbols {
		if covered[s] {
			hit++
		}
	}
	return float64(hit) / float64(len(tgtSymbols))
}
