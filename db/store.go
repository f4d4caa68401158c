package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/termfx/balancedwrap/core"
	"github.com/termfx/balancedwrap/models"
)

// Store is the result cache. It implements core.ResultStore and
// core.RunRecorder.
type Store struct {
	db *gorm.DB
}

var (
	_ core.ResultStore = (*Store)(nil)
	_ core.RunRecorder = (*Store)(nil)
)

// NewStore wraps an already migrated connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn and returns a store over it.
func Open(dsn string, debug bool) (*Store, error) {
	db, err := Connect(dsn, debug)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup returns the cached diagnostics for key and marks the entry as
// recently used.
func (s *Store) Lookup(ctx context.Context, key core.CacheKey) ([]core.Diagnostic, bool, error) {
	var row models.FileResult
	err := s.db.WithContext(ctx).
		Where("path = ? AND digest = ? AND engine_version = ?", key.Path, key.Digest, key.EngineVersion).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up %s: %w", key.Path, err)
	}

	diagnostics := []core.Diagnostic{}
	if len(row.Violations) > 0 {
		if err := json.Unmarshal(row.Violations, &diagnostics); err != nil {
			return nil, false, fmt.Errorf("corrupt cache entry for %s: %w", key.Path, err)
		}
	}

	// Keep entries that are still in use from being pruned. The hit stays
	// valid even when the touch fails.
	_ = s.db.WithContext(ctx).Model(&row).UpdateColumn("updated_at", time.Now()).Error
	return diagnostics, true, nil
}

// Save stores diagnostics under key and drops entries for older contents of
// the same path.
func (s *Store) Save(ctx context.Context, key core.CacheKey, diagnostics []core.Diagnostic) error {
	if diagnostics == nil {
		diagnostics = []core.Diagnostic{}
	}
	payload, err := json.Marshal(diagnostics)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	row := models.FileResult{
		Path:          key.Path,
		Digest:        key.Digest,
		EngineVersion: key.EngineVersion,
		Violations:    payload,
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("path = ? AND (digest <> ? OR engine_version <> ?)", key.Path, key.Digest, key.EngineVersion).
			Delete(&models.FileResult{}).Error; err != nil {
			return fmt.Errorf("failed to drop stale entries for %s: %w", key.Path, err)
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}, {Name: "digest"}, {Name: "engine_version"}},
			DoUpdates: clause.AssignmentColumns([]string{"violations", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", key.Path, err)
		}
		return nil
	})
}

// BeginRun records the start of a run and returns its ID.
func (s *Store) BeginRun(ctx context.Context) (string, error) {
	run := models.Run{RunID: uuid.NewString()}
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return run.RunID, nil
}

// FinishRun stores the statistics of a finished run.
func (s *Store) FinishRun(ctx context.Context, runID string, summary *core.Summary) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Run{}).Where("run_id = ?", runID).Updates(map[string]any{
		"finished_at": now,
		"files":       len(summary.Files),
		"checked":     summary.Checked,
		"violations":  summary.Violations,
		"cache_hits":  summary.CacheHits,
		"failures":    summary.Failures,
		"duration_ms": summary.Duration.Milliseconds(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to finish run %s: %w", runID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Runs returns recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]models.Run, error) {
	var runs []models.Run
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// PruneStats reports what Prune removed.
type PruneStats struct {
	Runs    int64
	Results int64
}

// Prune keeps the newest keep runs and deletes the rest, together with
// cached results that were neither written nor read since the oldest kept
// run started. With keep at zero the store is emptied.
func (s *Store) Prune(ctx context.Context, keep int) (PruneStats, error) {
	if keep < 0 {
		return PruneStats{}, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	var stats PruneStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if keep == 0 {
			res := tx.Where("1 = 1").Delete(&models.Run{})
			if res.Error != nil {
				return res.Error
			}
			stats.Runs = res.RowsAffected
			res = tx.Where("1 = 1").Delete(&models.FileResult{})
			if res.Error != nil {
				return res.Error
			}
			stats.Results = res.RowsAffected
			return nil
		}

		var kept []models.Run
		if err := tx.Order("id DESC").Limit(keep).Find(&kept).Error; err != nil {
			return err
		}
		if len(kept) < keep {
			return nil
		}
		oldest := kept[len(kept)-1]

		res := tx.Where("id < ?", oldest.ID).Delete(&models.Run{})
		if res.Error != nil {
			return res.Error
		}
		stats.Runs = res.RowsAffected

		res = tx.Where("updated_at < ?", oldest.StartedAt).Delete(&models.FileResult{})
		if res.Error != nil {
			return res.Error
		}
		stats.Results = res.RowsAffected
		return nil
	})
	if err != nil {
		return PruneStats{}, fmt.Errorf("failed to prune cache: %w", err)
	}
	return stats, nil
}
