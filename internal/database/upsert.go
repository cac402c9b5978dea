package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evdeger/server/internal/models"
)

// UpsertListings writes a batch of listings inside the given transaction.
// Rows carrying an ID overwrite their stored version; rows without one are
// inserted fresh. Used by the ingest batch processor.
func UpsertListings(tx *gorm.DB, batch []*models.Listing) error {
	if len(batch) == 0 {
		return nil
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(batch).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d listings: %w", len(batch), err)
	}
	return nil
}
