package engine

import "github.com/oxhq/smartdiff/difftypes"

// Classifier implements §4.7: given a scored matched pair, it assigns a
// ChangeKind and, for the detailed form, a full explanation with evidence and
// impact estimate. Every method takes a similarity score; unmatched
// functions (Add/Delete) are not classified here.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier returns a Classifier under config.
func NewClassifier(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// ClassifySimple returns just the ChangeKind for one matched pair. A Move is
// a purely structural call: same name, same file, different start line — it
// does not consult the similarity score at all.
func (c *Classifier) ClassifySimple(score difftypes.ComprehensiveSimilarityScore, srcName, tgtName, srcFile, tgtFile string, srcStartLine, tgtStartLine int) difftypes.ChangeKind {
	if srcFile != "" && tgtFile != "" && srcFile != tgtFile {
		return difftypes.ChangeCrossFileMove
	}
	nameChanged := srcName != tgtName
	if nameChanged && score.Body.TreeEditSimilarity >= c.config.RenameThreshold {
		return difftypes.ChangeRename
	}
	if !nameChanged && srcFile != "" && srcFile == tgtFile && srcStartLine != tgtStartLine {
		return difftypes.ChangeMove
	}
	return difftypes.ChangeModify
}

// ClassifyDetailed produces the full explanation block for one matched pair:
// primary/secondary kinds, natural-language-adjacent analysis, and an
// estimated impact.
func (c *Classifier) ClassifyDetailed(score difftypes.ComprehensiveSimilarityScore, srcName, tgtName, srcFile, tgtFile string, srcStartLine, tgtStartLine, sizeDelta int) difftypes.DetailedChangeClassification {
	primary := c.ClassifySimple(score, srcName, tgtName, srcFile, tgtFile, srcStartLine, tgtStartLine)

	var characteristics []string
	var evidence []difftypes.EvidenceItem
	var alternatives []difftypes.AlternativeClassification

	nameChanged := srcName != tgtName
	fileChanged := srcFile != "" && tgtFile != "" && srcFile != tgtFile

	if nameChanged {
		characteristics = append(characteristics, "name changed")
		evidence = append(evidence, difftypes.EvidenceItem{Kind: "name", Description: "identifier changed from " + srcName + " to " + tgtName, Strength: 1 - nameSimilarity(srcName, tgtName)})
	}
	if fileChanged {
		characteristics = append(characteristics, "file changed")
		evidence = append(evidence, difftypes.EvidenceItem{Kind: "location", Description: "moved from " + srcFile + " to " + tgtFile, Strength: 1.0})
	}
	if score.Body.TreeEditSimilarity < 0.5 {
		characteristics = append(characteristics, "body substantially rewritten")
		evidence = append(evidence, difftypes.EvidenceItem{Kind: "body", Description: "low tree-edit similarity", Strength: 1 - score.Body.TreeEditSimilarity})
	}
	if score.Signature < 0.8 {
		characteristics = append(characteristics, "signature changed")
		evidence = append(evidence, difftypes.EvidenceItem{Kind: "signature", Description: "signature channel below 0.8", Strength: 1 - score.Signature})
	}

	if !nameChanged && fileChanged && score.Overall >= c.config.MoveThreshold {
		alternatives = append(alternatives, difftypes.AlternativeClassification{Kind: difftypes.ChangeMove, Confidence: score.Overall, Reason: "same name, different file"})
	}
	if nameChanged && !fileChanged && score.Overall >= c.config.RenameThreshold {
		alternatives = append(alternatives, difftypes.AlternativeClassification{Kind: difftypes.ChangeRename, Confidence: score.Overall, Reason: "high similarity despite name change"})
	}

	impact := c.estimateImpact(score, sizeDelta, fileChanged, nameChanged)

	complexity := 1 - score.Overall
	if complexity < 0 {
		complexity = 0
	}

	return difftypes.DetailedChangeClassification{
		Primary:    primary,
		Confidence: clamp01(score.Overall),
		Analysis: difftypes.ChangeAnalysis{
			Description:     describeChange(primary, srcName, tgtName, srcFile, tgtFile),
			Characteristics: characteristics,
			Evidence:        evidence,
			Alternatives:    alternatives,
			ComplexityScore: clamp01(complexity),
		},
		Impact:        impact,
		HasSimilarity: true,
		Similarity:    score,
	}
}

func (c *Classifier) estimateImpact(score difftypes.ComprehensiveSimilarityScore, sizeDelta int, fileChanged, nameChanged bool) difftypes.ChangeImpact {
	level := difftypes.ImpactLow
	effort := difftypes.EffortTrivial
	breaking := false

	switch {
	case score.Signature < 0.5:
		level = difftypes.ImpactCritical
		effort = difftypes.EffortHigh
		breaking = true
	case score.Signature < 0.8 || nameChanged:
		level = difftypes.ImpactHigh
		effort = difftypes.EffortMedium
		breaking = nameChanged
	case score.Body.TreeEditSimilarity < 0.5:
		level = difftypes.ImpactMedium
		effort = difftypes.EffortMedium
	case fileChanged:
		level = difftypes.ImpactMedium
		effort = difftypes.EffortLow
	}

	if sizeDelta > 50 || sizeDelta < -50 {
		if level == difftypes.ImpactLow || level == difftypes.ImpactMedium {
			level = difftypes.ImpactMedium
		}
		effort = difftypes.EffortHigh
	}

	var components []string
	if nameChanged {
		components = append(components, "call sites")
	}
	if fileChanged {
		components = append(components, "imports")
	}

	return difftypes.ChangeImpact{
		Level:                level,
		AffectedComponents:   components,
		ImplementationEffort: effort,
		Risk:                 riskDescription(level),
		IsBreakingChange:     breaking,
	}
}

func riskDescription(level difftypes.ImpactLevel) string {
	switch level {
	case difftypes.ImpactCritical:
		return "likely to break dependent code"
	case difftypes.ImpactHigh:
		return "may require caller updates"
	case difftypes.ImpactMedium:
		return "worth a second look"
	default:
		return "low risk"
	}
}

func describeChange(kind difftypes.ChangeKind, srcName, tgtName, srcFile, tgtFile string) string {
	switch kind {
	case difftypes.ChangeRename:
		return srcName + " renamed to " + tgtName
	case difftypes.ChangeCrossFileMove:
		return srcName + " moved from " + srcFile + " to " + tgtFile
	case difftypes.ChangeMove:
		return srcName + " relocated within " + srcFile
	default:
		return srcName + " modified"
	}
}
