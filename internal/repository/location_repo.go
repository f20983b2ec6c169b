package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"geoimport/internal/domain"
)

const defaultInsertBatchSize = 500

// LocationRepository stores locations through gorm. InsertBatch runs in one
// transaction, so a failure in any chunk rolls back the whole batch.
type LocationRepository struct {
	db        *gorm.DB
	batchSize int
}

func NewLocationRepository(db *gorm.DB, batchSize int) *LocationRepository {
	if batchSize <= 0 {
		batchSize = defaultInsertBatchSize
	}
	return &LocationRepository{db: db, batchSize: batchSize}
}

func (r *LocationRepository) InsertBatch(ctx context.Context, locations []domain.Location) (int64, error) {
	if len(locations) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.CreateInBatches(locations, r.batchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert locations: %w", err)
	}
	return inserted, nil
}

func (r *LocationRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Location{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *LocationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&locations).Error
	return locations, err
}
