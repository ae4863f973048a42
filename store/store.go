// Package store is the optional, append-only persistence layer for past
// comparison runs (§6 "Persisted state"). Nothing in engine/difftypes/
// treeedit depends on it; it is an affordance for external tools that want a
// history of DiffResults, not a requirement of the core pipeline.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxhq/smartdiff/difflog"
	"github.com/oxhq/smartdiff/engine"
)

// Store persists engine.DiffResults keyed by a generated comparison id.
type Store struct {
	db     *gorm.DB
	log    *zap.Logger
	config *Config
}

// Open connects to the database cfg describes and returns a ready Store.
func Open(cfg *Config, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = difflog.Nop()
	}
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, log: log, config: cfg}, nil
}

// SaveComparison persists one pipeline run, returning its generated id.
func (s *Store) SaveComparison(result engine.DiffResult, sourceRoot, targetRoot, language string) (string, error) {
	changesJSON, err := json.Marshal(result.Changes)
	if err != nil {
		return "", fmt.Errorf("store: failed to marshal changes: %w", err)
	}
	patternsJSON, err := json.Marshal(result.Patterns)
	if err != nil {
		return "", fmt.Errorf("store: failed to marshal patterns: %w", err)
	}
	hierarchyJSON, err := json.Marshal(result.HierarchyChanges)
	if err != nil {
		return "", fmt.Errorf("store: failed to marshal hierarchy changes: %w", err)
	}
	fileRefactorJSON, err := json.Marshal(result.FileRefactorings)
	if err != nil {
		return "", fmt.Errorf("store: failed to marshal file refactorings: %w", err)
	}

	comparison := Comparison{
		ID:                   uuid.NewString(),
		SourceRoot:           sourceRoot,
		TargetRoot:           targetRoot,
		Language:             language,
		OneToOneCount:        result.Statistics.OneToOneCount,
		UnmatchedSource:      result.Statistics.UnmatchedSource,
		UnmatchedTarget:      result.Statistics.UnmatchedTarget,
		ManyToManyCount:      result.Statistics.ManyToManyCount,
		MatchPercentage:      result.Statistics.MatchPercentage,
		ChangesJSON:          changesJSON,
		PatternsJSON:         patternsJSON,
		HierarchyChangesJSON: hierarchyJSON,
		FileRefactoringsJSON: fileRefactorJSON,
	}

	if err := s.db.Create(&comparison).Error; err != nil {
		return "", fmt.Errorf("store: failed to save comparison: %w", err)
	}
	s.log.Info("saved comparison", difflog.String("id", comparison.ID), difflog.Int("changes", len(result.Changes)))

	s.pruneOldComparisons()
	return comparison.ID, nil
}

// GetComparison loads one comparison by id.
func (s *Store) GetComparison(id string) (*Comparison, error) {
	var comparison Comparison
	if err := s.db.First(&comparison, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("store: failed to load comparison %s: %w", id, err)
	}
	return &comparison, nil
}

// ListComparisons returns the most recent comparisons, newest first, bounded
// by limit (0 means no bound).
func (s *Store) ListComparisons(limit int) ([]Comparison, error) {
	var comparisons []Comparison
	q := s.db.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&comparisons).Error; err != nil {
		return nil, fmt.Errorf("store: failed to list comparisons: %w", err)
	}
	return comparisons, nil
}

// pruneOldComparisons trims the table to config.RetentionRuns most recent
// rows. Failures are logged, not returned — retention is best-effort
// housekeeping, not a correctness requirement of SaveComparison.
func (s *Store) pruneOldComparisons() {
	if s.config.RetentionRuns <= 0 {
		return
	}
	var ids []string
	err := s.db.Model(&Comparison{}).
		Order("created_at desc").
		Offset(s.config.RetentionRuns).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return
	}
	if err := s.db.Delete(&Comparison{}, "id IN ?", ids).Error; err != nil {
		s.log.Warn("failed to prune old comparisons", difflog.Err(err))
	}
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
