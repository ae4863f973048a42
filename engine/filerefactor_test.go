package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/smartdiff/difftypes"
)

func TestFileRefactorDetector_DetectsRename(t *testing.T) {
	d := NewFileRefactorDetector(DefaultFileRefactorConfig())
	src := []FileInfo{{Path: "pkg/orders.go", Content: "func ProcessOrder() {}\n", Symbols: []string{"ProcessOrder"}}}
	tgt := []FileInfo{{Path: "pkg/order_processing.go", Content: "func ProcessOrder() {}\n", Symbols: []string{"ProcessOrder"}}}

	results := d.Detect(src, tgt)
	require.Len(t, results, 1)
	assert.Equal(t, difftypes.FileRename, results[0].Kind)
	assert.Equal(t, []string{"pkg/orders.go"}, results[0].SourceFiles)
	assert.Equal(t, []string{"pkg/order_processing.go"}, results[0].TargetFiles)
}

func TestFileRefactorDetector_UnchangedFilesProduceNoResult(t *testing.T) {
	d := NewFileRefactorDetector(DefaultFileRefactorConfig())
	src := []FileInfo{{Path: "pkg/orders.go", Content: "func A() {}\n", Symbols: []string{"A"}}}
	tgt := []FileInfo{{Path: "pkg/orders.go", Content: "func A() {}\n", Symbols: []string{"A"}}}

	results := d.Detect(src, tgt)
	assert.Empty(t, results)
}

func TestFileRefactorDetector_DetectsSplit(t *testing.T) {
	d := NewFileRefactorDetector(DefaultFileRefactorConfig())
	src := []FileInfo{{Path: "pkg/big.go", Content: "func A(){}\nfunc B(){}\n", Symbols: []string{"A", "B"}}}
	tgt := []FileInfo{
		{Path: "pkg/a.go", Content: "func A(){}\n", Symbols: []string{"A"}},
		{Path: "pkg/b.go", Content: "func B(){}\n", Symbols: []string{"B"}},
	}

	results := d.Detect(src, tgt)
	require.Len(t, results, 1)
	assert.Equal(t, difftypes.FileSplit, results[0].Kind)
	assert.ElementsMatch(t, []string{"pkg/a.go", "pkg/b.go"}, results[0].TargetFiles)
}
