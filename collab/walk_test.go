package collab

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func drainPaths(t *testing.T, results <-chan WalkResult) []string {
	t.Helper()
	var paths []string
	for r := range results {
		require.NoError(t, r.Error)
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)
	return paths
}

func TestWalker_WalkMatchesIncludePatternsRecursively(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.go"), "package a")
	mustWriteFile(t, filepath.Join(root, "sub", "b.go"), "package a")
	mustWriteFile(t, filepath.Join(root, "README.md"), "not go")

	w := NewWalker()
	results, err := w.Walk(context.Background(), FileScope{Path: root, Include: []string{"**/*.go"}})
	require.NoError(t, err)

	paths := drainPaths(t, results)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, ".go", filepath.Ext(p))
	}
}

func TestWalker_ExcludePatternPrunesMatches(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.go"), "package a")
	mustWriteFile(t, filepath.Join(root, "a_test.go"), "package a")

	w := NewWalker()
	results, err := w.Walk(context.Background(), FileScope{
		Path:    root,
		Include: []string{"**/*.go"},
		Exclude: []string{"**/*_test.go"},
	})
	require.NoError(t, err)

	paths := drainPaths(t, results)
	require.Len(t, paths, 1)
	assert.Equal(t, "a.go", filepath.Base(paths[0]))
}

func TestWalker_MaxFilesBoundsDiscovery(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		mustWriteFile(t, filepath.Join(root, "f"+string(rune('a'+i))+".go"), "package a")
	}

	w := NewWalker()
	results, err := w.Walk(context.Background(), FileScope{Path: root, Include: []string{"**/*.go"}, MaxFiles: 2})
	require.NoError(t, err)

	paths := drainPaths(t, results)
	assert.LessOrEqual(t, len(paths), 2)
}

func TestWalker_RejectsMissingPath(t *testing.T) {
	w := NewWalker()
	_, err := w.Walk(context.Background(), FileScope{Path: filepath.Join(t.TempDir(), "does-not-exist")})
	assert.Error(t, err)
}

func TestWalker_RejectsEmptyPath(t *testing.T) {
	w := NewWalker()
	_, err := w.Walk(context.Background(), FileScope{})
	assert.Error(t, err)
}

func TestWalker_FastScanReturnsPlainPathSlice(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.go"), "package a")

	w := NewWalker()
	files, err := w.FastScan(context.Background(), FileScope{Path: root, Include: []string{"**/*.go"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.go", filepath.Base(files[0]))
}
