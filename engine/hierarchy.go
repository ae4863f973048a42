package engine

import (
	"sort"

	"github.com/oxhq/smartdiff/difftypes"
)

// HierarchyTracker implements §4.6: it diffs two ClassHierarchy snapshots,
// reporting member migrations along the inheritance chain (pull-up/push-
// down), superclass flattening, and superclass/interface extraction.
type HierarchyTracker struct {
	config HierarchyConfig
}

// NewHierarchyTracker returns a tracker under config.
func NewHierarchyTracker(config HierarchyConfig) *HierarchyTracker {
	return &HierarchyTracker{config: config}
}

// Compare returns every hierarchy restructuring detected between before and
// after.
func (h *HierarchyTracker) Compare(before, after *difftypes.ClassHierarchy) []difftypes.HierarchyChange {
	var changes []difftypes.HierarchyChange

	for _, name := range sortedClassNames(before) {
		srcNode := before.Classes[name]
		tgtNode, stillExists := after.Classes[name]
		if !stillExists {
			continue
		}
		if len(before.Ancestors(name)) > h.config.MaxHierarchyDepth || len(after.Ancestors(name)) > h.config.MaxHierarchyDepth {
			continue
		}

		changes = append(changes, h.memberMigrations(before, after, name, srcNode, tgtNode)...)
		changes = append(changes, h.flattenChanges(before, after, name, srcNode, tgtNode)...)
	}

	changes = append(changes, h.extractionChanges(before, after)...)

	return changes
}

func (h *HierarchyTracker) memberMigrations(before, after *difftypes.ClassHierarchy, name string, srcNode, tgtNode difftypes.ClassNode) []difftypes.HierarchyChange {
	var changes []difftypes.HierarchyChange

	srcAncestors := before.Ancestors(name)
	tgtAncestors := after.Ancestors(name)

	// Pull-up: a method/field present on this class before, absent here
	// after, but now present on one of its (still valid) ancestors.
	for _, member := range srcNode.Methods {
		if containsStr(tgtNode.Methods, member) {
			continue
		}
		for _, anc := range tgtAncestors {
			if containsStr(after.Classes[anc].Methods, member) {
				changes = append(changes, difftypes.HierarchyChange{
					Kind: difftypes.HierarchyPullUpMethod, ClassName: anc, MemberName: member,
					FromClass: name, ToClass: anc, Confidence: 0.8,
					Description: member + " pulled up from " + name + " to " + anc,
				})
				break
			}
		}
	}
	for _, member := range srcNode.Fields {
		if containsStr(tgtNode.Fields, member) {
			continue
		}
		for _, anc := range tgtAncestors {
			if containsStr(after.Classes[anc].Fields, member) {
				changes = append(changes, difftypes.HierarchyChange{
					Kind: difftypes.HierarchyPullUpField, ClassName: anc, MemberName: member,
					FromClass: name, ToClass: anc, Confidence: 0.8,
					Description: member + " pulled up from " + name + " to " + anc,
				})
				break
			}
		}
	}

	// Push-down: a method/field present on an ancestor before, absent there
	// after, but now present directly on this class.
	for _, anc := range srcAncestors {
		ancNode := before.Classes[anc]
		for _, member := range ancNode.Methods {
			if !containsStr(srcNode.Methods, member) && containsStr(tgtNode.Methods, member) {
				if tgtAfterAnc, ok := after.Classes[anc]; !ok || !containsStr(tgtAfterAnc.Methods, member) {
					changes = append(changes, difftypes.HierarchyChange{
						Kind: difftypes.HierarchyPushDownMethod, ClassName: name, MemberName: member,
						FromClass: anc, ToClass: name, Confidence: 0.75,
						Description: member + " pushed down from " + anc + " to " + name,
					})
				}
			}
		}
		for _, member := range ancNode.Fields {
			if !containsStr(srcNode.Fields, member) && containsStr(tgtNode.Fields, member) {
				if tgtAfterAnc, ok := after.Classes[anc]; !ok || !containsStr(tgtAfterAnc.Fields, member) {
					changes = append(changes, difftypes.HierarchyChange{
						Kind: difftypes.HierarchyPushDownField, ClassName: name, MemberName: member,
						FromClass: anc, ToClass: name, Confidence: 0.75,
						Description: member + " pushed down from " + anc + " to " + name,
					})
				}
			}
		}
	}

	return changes
}

func (h *HierarchyTracker) flattenChanges(before, after *difftypes.ClassHierarchy, name string, srcNode, tgtNode difftypes.ClassNode) []difftypes.HierarchyChange {
	if srcNode.Superclass == "" || containsStr(after.Ancestors(name), srcNode.Superclass) {
		return nil
	}
	if _, stillPresent := after.Classes[srcNode.Superclass]; stillPresent {
		return nil
	}
	oldSuper := before.Classes[srcNode.Superclass]
	absorbedMethods := 0
	for _, m := range oldSuper.Methods {
		if containsStr(tgtNode.Methods, m) {
			absorbedMethods++
		}
	}
	if len(oldSuper.Methods) == 0 || float64(absorbedMethods)/float64(len(oldSuper.Methods)) < 0.5 {
		return nil
	}
	return []difftypes.HierarchyChange{{
		Kind: difftypes.HierarchyFlatten, ClassName: name, FromClass: srcNode.Superclass, ToClass: name,
		Confidence:  clamp01(float64(absorbedMethods) / float64(len(oldSuper.Methods))),
		Description: name + " flattened with its superclass " + srcNode.Superclass,
	}}
}

func (h *HierarchyTracker) extractionChanges(before, after *difftypes.ClassHierarchy) []difftypes.HierarchyChange {
	var changes []difftypes.HierarchyChange
	for _, name := range sortedClassNames(after) {
		if _, existedBefore := before.Classes[name]; existedBefore {
			continue
		}
		newNode := after.Classes[name]
		for _, childName := range sortedClassNames(after) {
			child := after.Classes[childName]
			if child.Superclass != name && !containsStr(child.Interfaces, name) {
				continue
			}
			oldChild, existed := before.Classes[childName]
			if !existed {
				continue
			}
			shared := sharedSymbols(oldChild.Methods, newNode.Methods)
			if len(shared) == 0 {
				continue
			}
			kind := difftypes.HierarchyExtractSuper
			if child.Superclass != name {
				kind = difftypes.HierarchyExtractInterface
			}
			changes = append(changes, difftypes.HierarchyChange{
				Kind: kind, ClassName: name, FromClass: childName, ToClass: name,
				Confidence:  clamp01(float64(len(shared)) / float64(len(oldChild.Methods)+1)),
				Description: name + " extracted from " + childName,
			})
		}
	}
	return changes
}

func sortedClassNames(h *difftypes.ClassHierarchy) []string {
	names := make([]string, 0, len(h.Classes))
	for n := range h.Classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func containsStr(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
