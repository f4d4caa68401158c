package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run records one invocation of the checker
type Run struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	RunID      string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	StartedAt  time.Time `gorm:"autoCreateTime"`
	FinishedAt *time.Time

	// Statistics
	Files      int   `gorm:"default:0"`
	Checked    int   `gorm:"default:0"`
	Violations int   `gorm:"default:0"`
	CacheHits  int   `gorm:"default:0"`
	Failures   int   `gorm:"default:0"`
	DurationMS int64 `gorm:"default:0"`
}

// FileResult caches the findings for one version of a file. A row is only
// valid for the exact content digest and engine version it was computed
// with.
type FileResult struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Path          string `gorm:"type:varchar(1024);not null;uniqueIndex:idx_file_results_key"`
	Digest        string `gorm:"type:varchar(64);not null;uniqueIndex:idx_file_results_key"` // SHA256 of content
	EngineVersion string `gorm:"type:varchar(32);not null;uniqueIndex:idx_file_results_key"`

	Violations datatypes.JSON `gorm:"type:json"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
}

// TableName customizations for cleaner names
func (Run) TableName() string        { return "runs" }
func (FileResult) TableName() string { return "file_results" }
