package collab

import (
	"path/filepath"
	"runtime"
	"sync"
)

// SourceFile is one file handed to ParseFilesParallel: its path (used to
// resolve a Parser by extension and recorded into every signature produced)
// and its content.
type SourceFile struct {
	Path    string
	Content string
}

// FileParseResult pairs a SourceFile with the ParseResult (or error) a
// Registry produced for it.
type FileParseResult struct {
	Path   string
	Result ParseResult
	Err    error
}

// ParseFilesParallel fans a directory's worth of files out across a worker
// pool sized like the teacher's transform pipeline (oversubscribed for I/O),
// resolving each file's Parser by extension and parsing it independently —
// parsing one file never blocks on another.
func ParseFilesParallel(registry *Registry, files []SourceFile) []FileParseResult {
	if len(files) == 0 {
		return nil
	}
	workers := runtime.NumCPU() * 2
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan int, len(files))
	results := make([]FileParseResult, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				f := files[idx]
				ext := filepath.Ext(f.Path)
				parser, ok := registry.ForExtension(ext)
				if !ok {
					results[idx] = FileParseResult{Path: f.Path, Err: errUnsupportedExtension(ext)}
					continue
				}
				result, err := parser.Parse(f.Path, f.Content)
				results[idx] = FileParseResult{Path: f.Path, Result: result, Err: err}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
