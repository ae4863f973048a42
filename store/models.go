package store

import (
	"time"

	"gorm.io/datatypes"
)

// Comparison is one persisted run of the engine pipeline: the roots it
// compared, its headline statistics, and the full DiffResult payload as
// JSON. Grounded on the teacher's Stage/Apply shape (digest + JSON blob +
// status fields), repurposed from transformation stages to comparison runs.
type Comparison struct {
	ID string `gorm:"primaryKey;type:varchar(40)"`

	SourceRoot string `gorm:"type:text;not null"`
	TargetRoot string `gorm:"type:text;not null"`
	Language   string `gorm:"type:varchar(50)"`

	OneToOneCount   int     `gorm:"default:0"`
	UnmatchedSource int     `gorm:"default:0"`
	UnmatchedTarget int     `gorm:"default:0"`
	ManyToManyCount int     `gorm:"default:0"`
	MatchPercentage float64 `gorm:"type:decimal(5,2)"`

	ChangesJSON          datatypes.JSON `gorm:"type:jsonb"`
	PatternsJSON         datatypes.JSON `gorm:"type:jsonb"`
	HierarchyChangesJSON datatypes.JSON `gorm:"type:jsonb"`
	FileRefactoringsJSON datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName customizes the table name, matching the teacher's convention.
func (Comparison) TableName() string { return "comparisons" }
