package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/smartdiff/difflog"
	"github.com/oxhq/smartdiff/difftypes"
	"github.com/oxhq/smartdiff/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db"), RetentionRuns: 2}
	s, err := Open(cfg, difflog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() engine.DiffResult {
	return engine.DiffResult{
		Changes: []difftypes.Change{
			{Kind: difftypes.ChangeRename, Confidence: 0.9},
		},
		Statistics: difftypes.MatchingStatistics{OneToOneCount: 1, MatchPercentage: 100},
	}
}

func TestStore_SaveAndGetComparison(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveComparison(sampleResult(), "/src", "/tgt", "go")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	loaded, err := s.GetComparison(id)
	require.NoError(t, err)
	assert.Equal(t, "/src", loaded.SourceRoot)
	assert.Equal(t, "/tgt", loaded.TargetRoot)
	assert.Equal(t, 1, loaded.OneToOneCount)
}

func TestStore_ListComparisonsOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SaveComparison(sampleResult(), "/a", "/b", "go")
	require.NoError(t, err)
	second, err := s.SaveComparison(sampleResult(), "/c", "/d", "go")
	require.NoError(t, err)

	list, err := s.ListComparisons(0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
}

func TestStore_RetentionPrunesOldestRuns(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := s.SaveComparison(sampleResult(), "/src", "/tgt", "go")
		require.NoError(t, err)
	}

	list, err := s.ListComparisons(0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(list), 2)
}
