package collab

import (
	"context"
	"os"
)

// ParsedTree is one source root's parse output: every function/class found,
// plus the same results indexed by file path — the "file_path →
// [(signature, AST)]" shape spec.md §3/§4.4 expects as driver input.
type ParsedTree struct {
	Functions []ParsedFunction
	Classes   []ParsedClass
	ByFile    map[string]ParseResult
	Errors    map[string]error
}

// LoadTree walks scope, reads every matched file, and parses it through
// registry, aggregating everything into one ParsedTree. A file that fails to
// read or parse is recorded in Errors rather than aborting the whole walk —
// one unreadable or unparseable file shouldn't block comparing the rest of
// the tree.
func LoadTree(ctx context.Context, walker *Walker, registry *Registry, scope FileScope) (ParsedTree, error) {
	discovered, err := walker.Walk(ctx, scope)
	if err != nil {
		return ParsedTree{}, err
	}

	tree := ParsedTree{
		ByFile: make(map[string]ParseResult),
		Errors: make(map[string]error),
	}

	var files []SourceFile
	for result := range discovered {
		if result.Error != nil {
			tree.Errors[result.Path] = result.Error
			continue
		}
		content, err := os.ReadFile(result.Path)
		if err != nil {
			tree.Errors[result.Path] = err
			continue
		}
		files = append(files, SourceFile{Path: result.Path, Content: string(content)})
	}

	for _, parsed := range ParseFilesParallel(registry, files) {
		if parsed.Err != nil {
			tree.Errors[parsed.Path] = parsed.Err
			continue
		}
		tree.ByFile[parsed.Path] = parsed.Result
		tree.Functions = append(tree.Functions, parsed.Result.Functions...)
		tree.Classes = append(tree.Classes, parsed.Result.Classes...)
	}

	return tree, nil
}
