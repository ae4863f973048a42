package engine

import (
	"path/filepath"

	"github.com/oxhq/smartdiff/difftypes"
)

// PatternDetector implements §4.8: it synthesises named, higher-level
// refactorings from the lower-level Change/ManyToManyMapping/HierarchyChange
// records the other engine layers already produced.
type PatternDetector struct {
	config PatternConfig
}

// NewPatternDetector returns a detector under config.
func NewPatternDetector(config PatternConfig) *PatternDetector {
	return &PatternDetector{config: config}
}

// FromChanges turns each Rename change into a RenameMethod pattern and each
// Move/CrossFileMove change into a MoveMethod (or MovedToSibling) pattern.
// Other change kinds, signature-only modifications included, yield no
// pattern.
func (p *PatternDetector) FromChanges(changes []difftypes.Change) []difftypes.RefactoringPattern {
	var patterns []difftypes.RefactoringPattern
	for _, ch := range changes {
		switch ch.Kind {
		case difftypes.ChangeRename:
			patterns = append(patterns, p.renamePattern(ch))
		case difftypes.ChangeMove, difftypes.ChangeCrossFileMove:
			patterns = append(patterns, p.movePattern(ch))
		}
	}
	return patterns
}

func (p *PatternDetector) renamePattern(ch difftypes.Change) difftypes.RefactoringPattern {
	elements := elementsOf(ch)
	return difftypes.RefactoringPattern{
		Name:             difftypes.PatternRenameMethod,
		Confidence:       clamp01(ch.Confidence),
		Description:      ch.Source.Name + " renamed to " + ch.Target.Name,
		AffectedElements: elements,
		Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactMedium, ImplementationEffort: difftypes.EffortLow, AffectedComponents: []string{"call sites"}},
		Quality:          difftypes.QualityMetrics{ReadabilityDelta: 0.2, QualityImprovement: 0.1},
		Complexity:       difftypes.PatternComplexity{Level: difftypes.ComplexitySimple, ElementsInvolved: 1, FilesAffected: 1, EstimatedEffort: difftypes.EffortLow},
	}
}

func (p *PatternDetector) movePattern(ch difftypes.Change) difftypes.RefactoringPattern {
	name := difftypes.PatternMoveMethod
	if ch.Source != nil && ch.Target != nil && filepath.Dir(ch.Source.FilePath) == filepath.Dir(ch.Target.FilePath) && ch.Source.FilePath != ch.Target.FilePath {
		name = difftypes.PatternMovedToSibling
	}
	return difftypes.RefactoringPattern{
		Name:             name,
		Confidence:       clamp01(ch.Confidence),
		Description:      ch.Detail,
		AffectedElements: elementsOf(ch),
		Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactMedium, ImplementationEffort: difftypes.EffortLow, AffectedComponents: []string{"imports"}},
		Quality:          difftypes.QualityMetrics{MaintainabilityDelta: 0.1},
		Complexity:       difftypes.PatternComplexity{Level: difftypes.ComplexitySimple, ElementsInvolved: 1, FilesAffected: 2, EstimatedEffort: difftypes.EffortLow},
	}
}

// FromManyToMany turns Split mappings into ExtractMethod and Merge mappings
// into InlineMethod, gated on MinConfidence.
func (p *PatternDetector) FromManyToMany(mappings []difftypes.ManyToManyMapping, sources, targets []FunctionEntry) []difftypes.RefactoringPattern {
	var patterns []difftypes.RefactoringPattern
	for _, mm := range mappings {
		confidence := mm.Confidence
		if confidence < p.config.MinConfidence {
			continue
		}
		switch mm.Kind {
		case difftypes.MappingSplit:
			patterns = append(patterns, p.extractMethodPattern(mm, sources, targets))
		case difftypes.MappingMerge:
			patterns = append(patterns, p.inlineMethodPattern(mm, sources, targets))
		}
	}
	return patterns
}

func (p *PatternDetector) extractMethodPattern(mm difftypes.ManyToManyMapping, sources, targets []FunctionEntry) difftypes.RefactoringPattern {
	var elements []difftypes.CodeElement
	for _, ti := range mm.TargetIndices {
		elements = append(elements, *toCodeElement(targets[ti]))
	}
	srcName := ""
	if len(mm.SourceIndices) > 0 {
		srcName = sources[mm.SourceIndices[0]].Signature.Name
	}
	return difftypes.RefactoringPattern{
		Name:             difftypes.PatternExtractMethod,
		Confidence:       clamp01(mm.Confidence),
		Description:      srcName + " split into " + joinNames(namesOf(targets, mm.TargetIndices)),
		AffectedElements: elements,
		Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactLow, ImplementationEffort: difftypes.EffortMedium},
		Quality:          difftypes.QualityMetrics{MaintainabilityDelta: 0.25, ReadabilityDelta: 0.2, TestabilityDelta: 0.15, QualityImprovement: 0.2},
		Complexity:       difftypes.PatternComplexity{Level: complexityForGroupSize(len(mm.TargetIndices)), ElementsInvolved: len(mm.TargetIndices), FilesAffected: 1, EstimatedEffort: difftypes.EffortMedium},
	}
}

func (p *PatternDetector) inlineMethodPattern(mm difftypes.ManyToManyMapping, sources, targets []FunctionEntry) difftypes.RefactoringPattern {
	var elements []difftypes.CodeElement
	for _, si := range mm.SourceIndices {
		elements = append(elements, *toCodeElement(sources[si]))
	}
	tgtName := ""
	if len(mm.TargetIndices) > 0 {
		tgtName = targets[mm.TargetIndices[0]].Signature.Name
	}
	return difftypes.RefactoringPattern{
		Name:             difftypes.PatternInlineMethod,
		Confidence:       clamp01(mm.Confidence),
		Description:      joinNames(namesOf(sources, mm.SourceIndices)) + " merged into " + tgtName,
		AffectedElements: elements,
		Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactLow, ImplementationEffort: difftypes.EffortMedium},
		Quality:          difftypes.QualityMetrics{MaintainabilityDelta: -0.1, ReadabilityDelta: -0.05},
		Complexity:       difftypes.PatternComplexity{Level: complexityForGroupSize(len(mm.SourceIndices)), ElementsInvolved: len(mm.SourceIndices), FilesAffected: 1, EstimatedEffort: difftypes.EffortMedium},
	}
}

// FromHierarchy maps the class-hierarchy tracker's output onto
// PullUp/PushDown/ExtractClass patterns.
func (p *PatternDetector) FromHierarchy(changes []difftypes.HierarchyChange) []difftypes.RefactoringPattern {
	var patterns []difftypes.RefactoringPattern
	for _, hc := range changes {
		switch hc.Kind {
		case difftypes.HierarchyPullUpMethod, difftypes.HierarchyPullUpField:
			patterns = append(patterns, difftypes.RefactoringPattern{
				Name: difftypes.PatternPullUp, Confidence: clamp01(hc.Confidence), Description: hc.Description,
				AffectedElements: []difftypes.CodeElement{{Name: hc.MemberName, ElementType: "member"}},
				Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactMedium, ImplementationEffort: difftypes.EffortMedium},
				Quality:          difftypes.QualityMetrics{MaintainabilityDelta: 0.15, QualityImprovement: 0.1},
				Complexity:       difftypes.PatternComplexity{Level: difftypes.ComplexityModerate, ElementsInvolved: 1, FilesAffected: 2, EstimatedEffort: difftypes.EffortMedium},
			})
		case difftypes.HierarchyPushDownMethod, difftypes.HierarchyPushDownField:
			patterns = append(patterns, difftypes.RefactoringPattern{
				Name: difftypes.PatternPushDown, Confidence: clamp01(hc.Confidence), Description: hc.Description,
				AffectedElements: []difftypes.CodeElement{{Name: hc.MemberName, ElementType: "member"}},
				Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactMedium, ImplementationEffort: difftypes.EffortMedium},
				Quality:          difftypes.QualityMetrics{MaintainabilityDelta: 0.1},
				Complexity:       difftypes.PatternComplexity{Level: difftypes.ComplexityModerate, ElementsInvolved: 1, FilesAffected: 2, EstimatedEffort: difftypes.EffortMedium},
			})
		case difftypes.HierarchyExtractSuper, difftypes.HierarchyExtractInterface:
			patterns = append(patterns, difftypes.RefactoringPattern{
				Name: difftypes.PatternExtractClass, Confidence: clamp01(hc.Confidence), Description: hc.Description,
				AffectedElements: []difftypes.CodeElement{{Name: hc.ClassName, ElementType: "class"}},
				Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactHigh, ImplementationEffort: difftypes.EffortHigh},
				Quality:          difftypes.QualityMetrics{MaintainabilityDelta: 0.2, TestabilityDelta: 0.1, QualityImprovement: 0.15},
				Complexity:       difftypes.PatternComplexity{Level: difftypes.ComplexityComplex, ElementsInvolved: 1, FilesAffected: 2, EstimatedEffort: difftypes.EffortHigh},
			})
		case difftypes.HierarchyFlatten:
			patterns = append(patterns, difftypes.RefactoringPattern{
				Name: difftypes.PatternInlineClass, Confidence: clamp01(hc.Confidence), Description: hc.Description,
				AffectedElements: []difftypes.CodeElement{{Name: hc.ClassName, ElementType: "class"}},
				Impact:           difftypes.ChangeImpact{Level: difftypes.ImpactHigh, ImplementationEffort: difftypes.EffortHigh},
				Quality:          difftypes.QualityMetrics{MaintainabilityDelta: -0.1},
				Complexity:       difftypes.PatternComplexity{Level: difftypes.ComplexityComplex, ElementsInvolved: 1, FilesAffected: 1, EstimatedEffort: difftypes.EffortHigh},
			})
		}
	}
	return patterns
}

func complexityForGroupSize(n int) difftypes.ComplexityLevel {
	switch {
	case n <= 2:
		return difftypes.ComplexitySimple
	case n <= 4:
		return difftypes.ComplexityModerate
	default:
		return difftypes.ComplexityComplex
	}
}

func elementsOf(ch difftypes.Change) []difftypes.CodeElement {
	var out []difftypes.CodeElement
	if ch.Source != nil {
		out = append(out, *ch.Source)
	}
	if ch.Target != nil {
		out = append(out, *ch.Target)
	}
	return out
}

func namesOf(entries []FunctionEntry, idx []int) []string {
	out := make([]string, len(idx))
	for i, x := range idx {
		out[i] = entries[x].Signature.Name
	}
	return out
}
