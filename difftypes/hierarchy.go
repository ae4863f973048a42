package difftypes

// HierarchyChangeKind is the closed set of class-hierarchy restructurings the
// hierarchy tracker (L-aux) can report (§4.6).
type HierarchyChangeKind string

const (
	HierarchyPullUpMethod   HierarchyChangeKind = "PullUpMethod"
	HierarchyPushDownMethod HierarchyChangeKind = "PushDownMethod"
	HierarchyPullUpField    HierarchyChangeKind = "PullUpField"
	HierarchyPushDownField  HierarchyChangeKind = "PushDownField"
	HierarchyFlatten        HierarchyChangeKind = "Flatten"
	HierarchyExtractSuper   HierarchyChangeKind = "ExtractSuperclass"
	HierarchyExtractInterface HierarchyChangeKind = "ExtractInterface"
)

// ClassNode is one class/interface/struct vertex in a class hierarchy, before
// or after a comparison.
type ClassNode struct {
	Name       string
	FilePath   string
	Superclass string
	Interfaces []string
	Methods    []string
	Fields     []string
	Depth      int
}

// ClassHierarchy is the full inheritance forest on one side of a comparison.
// MaxDepth records the largest Depth registered; the hierarchy itself enforces
// no depth bound (the max_hierarchy_depth limit of §4.6/§9 is applied by the
// engine's hierarchy tracker when it compares two hierarchies).
type ClassHierarchy struct {
	Classes  map[string]ClassNode
	MaxDepth int
}

// NewClassHierarchy returns an empty hierarchy.
func NewClassHierarchy() *ClassHierarchy {
	return &ClassHierarchy{Classes: make(map[string]ClassNode)}
}

// AddClass registers a class node, updating MaxDepth if the node's depth
// exceeds the current maximum.
func (h *ClassHierarchy) AddClass(c ClassNode) {
	h.Classes[c.Name] = c
	if c.Depth > h.MaxDepth {
		h.MaxDepth = c.Depth
	}
}

// Ancestors returns the chain of superclass names from name up to the root,
// stopping if a cycle is encountered rather than looping forever.
func (h *ClassHierarchy) Ancestors(name string) []string {
	seen := map[string]bool{name: true}
	var chain []string
	cur := name
	for {
		node, ok := h.Classes[cur]
		if !ok || node.Superclass == "" {
			return chain
		}
		if seen[node.Superclass] {
			return chain
		}
		chain = append(chain, node.Superclass)
		seen[node.Superclass] = true
		cur = node.Superclass
	}
}

// HierarchyChange is one detected restructuring of the class hierarchy
// between the source and target comparison sides.
type HierarchyChange struct {
	Kind        HierarchyChangeKind
	ClassName   string
	MemberName  string
	FromClass   string
	ToClass     string
	Confidence  float64
	Description string
}

// FileRefactoringKind is the closed set of whole-file-level restructurings
// the file-refactoring detector (L-aux) reports.
type FileRefactoringKind string

const (
	FileSplit   FileRefactoringKind = "FileSplit"
	FileMerge   FileRefactoringKind = "FileMerge"
	FileRename  FileRefactoringKind = "FileRename"
	FileMove    FileRefactoringKind = "FileMove"
)

// FileRefactoring is one detected file-level restructuring, evidenced by the
// identifier-set overlap (and, internally, the textual-proximity signal) of
// the files involved.
type FileRefactoring struct {
	Kind           FileRefactoringKind
	SourceFiles    []string
	TargetFiles    []string
	Confidence     float64
	SharedElements []string
}
