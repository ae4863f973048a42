package collab

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/smartdiff/difftypes"
)

func TestParseFilesParallel_ParsesEveryFileIndependently(t *testing.T) {
	registry := NewRegistry()
	registry.Register(stubCountingParser{lang: "go", exts: []string{".go"}})

	files := make([]SourceFile, 0, 20)
	for i := 0; i < 20; i++ {
		files = append(files, SourceFile{Path: fmt.Sprintf("file%d.go", i), Content: "package a"})
	}

	results := ParseFilesParallel(registry, files)

	require.Len(t, results, 20)
	for i, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, files[i].Path, r.Path)
	}
}

func TestParseFilesParallel_UnknownExtensionRecordsErrorNotPanic(t *testing.T) {
	registry := NewRegistry()
	registry.Register(stubCountingParser{lang: "go", exts: []string{".go"}})

	files := []SourceFile{{Path: "unknown.rs", Content: "fn main() {}"}}
	results := ParseFilesParallel(registry, files)

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestParseFilesParallel_EmptyInputReturnsNil(t *testing.T) {
	assert.Nil(t, ParseFilesParallel(NewRegistry(), nil))
}

type stubCountingParser struct {
	lang string
	exts []string
}

func (p stubCountingParser) Language() string     { return p.lang }
func (p stubCountingParser) Extensions() []string { return p.exts }
func (p stubCountingParser) Parse(filePath, source string) (ParseResult, error) {
	return ParseResult{Functions: []ParsedFunction{{Signature: difftypes.EnhancedFunctionSignature{Name: filePath}}}}, nil
}
