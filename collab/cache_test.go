package collab

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCache_GetOrParseCachesByContentHash(t *testing.T) {
	cache := NewParseCache(time.Minute)
	calls := 0
	parse := func() (ParseResult, error) {
		calls++
		return ParseResult{Functions: []ParsedFunction{{}}}, nil
	}

	_, err := cache.GetOrParse("func foo() {}", parse)
	require.NoError(t, err)
	_, err = cache.GetOrParse("func foo() {}", parse)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	hits, misses, _ := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestParseCache_DifferentContentMissesIndependently(t *testing.T) {
	cache := NewParseCache(time.Minute)
	calls := 0
	parse := func() (ParseResult, error) {
		calls++
		return ParseResult{}, nil
	}

	_, _ = cache.GetOrParse("a", parse)
	_, _ = cache.GetOrParse("b", parse)

	assert.Equal(t, 2, calls)
	_, misses, _ := cache.Stats()
	assert.Equal(t, int64(2), misses)
}

func TestParseCache_ExpiredEntryIsReparsed(t *testing.T) {
	cache := NewParseCache(time.Millisecond)
	calls := 0
	parse := func() (ParseResult, error) {
		calls++
		return ParseResult{}, nil
	}

	_, _ = cache.GetOrParse("x", parse)
	time.Sleep(5 * time.Millisecond)
	_, _ = cache.GetOrParse("x", parse)

	assert.Equal(t, 2, calls)
}

func TestCachingRegistry_ParseUsesCacheAcrossCalls(t *testing.T) {
	registry := NewRegistry()
	p := &countingParser{lang: "go", exts: []string{".go"}}
	registry.Register(p)
	caching := NewCachingRegistry(registry, time.Minute)

	_, err := caching.Parse("a.go", "package a", ".go")
	require.NoError(t, err)
	_, err = caching.Parse("a.go", "package a", ".go")
	require.NoError(t, err)

	assert.Equal(t, 1, p.calls)
}

func TestCachingRegistry_UnknownExtensionErrors(t *testing.T) {
	caching := NewCachingRegistry(NewRegistry(), time.Minute)
	_, err := caching.Parse("a.rs", "fn main() {}", ".rs")
	assert.Error(t, err)
}

type countingParser struct {
	lang  string
	exts  []string
	calls int
}

func (p *countingParser) Language() string     { return p.lang }
func (p *countingParser) Extensions() []string { return p.exts }
func (p *countingParser) Parse(filePath, source string) (ParseResult, error) {
	p.calls++
	return ParseResult{}, nil
}
