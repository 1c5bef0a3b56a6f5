package services

import (
	"context"
	"time"

	"github.com/sharein/backend/internal/models"
	"github.com/sharein/backend/internal/storage"
	"github.com/sharein/backend/pkg/logger"
	"gorm.io/gorm"
)

// Sweeper removes files whose scheduled deletion date has passed. It runs a
// single pass to completion: per-record failures are logged and skipped so
// the rest of the sweep continues, and a record whose binary could not be
// removed is kept for the next scheduled run.
type Sweeper struct {
	DB      *gorm.DB
	Storage storage.ObjectStore
}

func NewSweeper(db *gorm.DB, storageClient storage.ObjectStore) *Sweeper {
	return &Sweeper{DB: db, Storage: storageClient}
}

type SweepResult struct {
	Scanned int
	Deleted int
	Failed  int
}

func (s *Sweeper) Run(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	var due []models.File
	err := s.DB.WithContext(ctx).
		Where("scheduled_delete_at IS NOT NULL AND scheduled_delete_at <= ?", time.Now()).
		Find(&due).Error
	if err != nil {
		return result, err
	}

	result.Scanned = len(due)
	logger.Info("sweep_started", map[string]interface{}{
		"due_files": len(due),
	})

	for i := range due {
		file := &due[i]
		if err := s.deleteFile(ctx, file); err != nil {
			result.Failed++
			logger.Error("sweep_file_failed", err, map[string]interface{}{
				"file_id": file.ID.String(),
			})
			continue
		}
		result.Deleted++
	}

	logger.Info("sweep_finished", map[string]interface{}{
		"scanned": result.Scanned,
		"deleted": result.Deleted,
		"failed":  result.Failed,
	})
	return result, nil
}

func (s *Sweeper) deleteFile(ctx context.Context, file *models.File) error {
	if err := s.Storage.Delete(ctx, file.StoragePath); err != nil {
		return err
	}

	if file.PreviewPath != nil {
		if err := s.Storage.Delete(ctx, *file.PreviewPath); err != nil {
			return err
		}
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.Grant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.File{}, "id = ?", file.ID).Error
	})
}
