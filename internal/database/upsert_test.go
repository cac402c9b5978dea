package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"evdeger/server/internal/models"
)

func openTestGorm(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Listing{}))
	return db
}

func TestUpsertListings_InsertAndUpdate(t *testing.T) {
	db := openTestGorm(t)

	batch := []*models.Listing{
		{ID: 1, District: "Kadıköy", Neighborhood: "Moda", PropertyType: "Daire", NetSqm: 100, Price: 5000000},
		{ID: 2, District: "Beşiktaş", Neighborhood: "Etiler", PropertyType: "Daire", NetSqm: 120, Price: 9000000},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, batch)
	})
	assert.NoError(t, err)

	var count int64
	assert.NoError(t, db.Model(&models.Listing{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Re-ingesting an existing listing overwrites it instead of duplicating.
	updated := []*models.Listing{
		{ID: 1, District: "Kadıköy", Neighborhood: "Moda", PropertyType: "Daire", NetSqm: 100, Price: 5500000},
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, updated)
	})
	assert.NoError(t, err)

	assert.NoError(t, db.Model(&models.Listing{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var stored models.Listing
	assert.NoError(t, db.First(&stored, 1).Error)
	assert.Equal(t, 5500000.0, stored.Price)
}

func TestUpsertListings_EmptyBatch(t *testing.T) {
	db := openTestGorm(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return UpsertListings(tx, nil)
	})
	assert.NoError(t, err)
}
