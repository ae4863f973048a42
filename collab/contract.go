// Package collab holds the collaborator contracts (§6): the boundary
// between the pure, I/O-free engine (difftypes/treeedit/engine) and the
// language-specific parsing that feeds it. A Parser collaborator owns every
// concern the engine itself refuses to: reading a grammar, walking a
// concrete syntax tree, and normalizing what it finds onto the shared
// difftypes vocabulary.
package collab

import "github.com/oxhq/smartdiff/difftypes"

// ParsedFunction is one function a Parser extracted from a source file: its
// normalized signature and the AST subtree rooted at it.
type ParsedFunction struct {
	Signature difftypes.EnhancedFunctionSignature
	AST       *difftypes.ASTNode
}

// ParsedClass is one class/struct/interface a Parser extracted, normalized
// onto difftypes.ClassNode for the hierarchy tracker.
type ParsedClass struct {
	Node difftypes.ClassNode
}

// ParseResult is everything one Parser run over one file produces.
type ParseResult struct {
	Functions []ParsedFunction
	Classes   []ParsedClass
}

// Parser is the collaborator contract every supported source language must
// satisfy.
type Parser interface {
	Language() string
	Extensions() []string
	Parse(filePath, source string) (ParseResult, error)
}

// Registry resolves a Parser by language identifier or file extension.
type Registry struct {
	byLanguage map[string]Parser
	byExt      map[string]Parser
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byLanguage: make(map[string]Parser), byExt: make(map[string]Parser)}
}

// Register adds parser, indexing it by language and every extension it
// claims.
func (r *Registry) Register(parser Parser) {
	r.byLanguage[parser.Language()] = parser
	for _, ext := range parser.Extensions() {
		r.byExt[ext] = parser
	}
}

// Get resolves a Parser by language identifier.
func (r *Registry) Get(language string) (Parser, bool) {
	p, ok := r.byLanguage[language]
	return p, ok
}

// ForExtension resolves a Parser by file extension (e.g. ".go").
func (r *Registry) ForExtension(ext string) (Parser, bool) {
	p, ok := r.byExt[ext]
	return p, ok
}

// Languages lists every registered language identifier.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		out = append(out, lang)
	}
	return out
}
