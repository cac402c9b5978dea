package processor

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"evdeger/server/config"
	"evdeger/server/internal/models"
	"evdeger/server/internal/queue"
)

func setupProcessor(t *testing.T) (*BatchProcessor, *queue.ListingQueue, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)
	// A pooled second connection to ":memory:" would open a separate empty
	// database; keep the whole test on one connection.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	assert.NoError(t, db.AutoMigrate(&models.Listing{}))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.Ingest.ProcessorCount = 1
	cfg.Ingest.MaxRetries = 1
	cfg.Ingest.RetryDelay = 0

	ingestQueue := queue.NewListingQueue(10, logger)
	processor := NewBatchProcessor(db, ingestQueue, cfg, logger)
	return processor, ingestQueue, db
}

func TestBatchProcessor_PersistsQueuedBatches(t *testing.T) {
	processor, ingestQueue, db := setupProcessor(t)

	processor.Start()
	ingestQueue.Start()
	defer func() {
		ingestQueue.Close()
		processor.Stop()
	}()

	batch := []*models.Listing{
		{ID: 1, District: "Kadıköy", Neighborhood: "Moda", NetSqm: 100, Price: 5000000},
		{ID: 2, District: "Kadıköy", Neighborhood: "Moda", NetSqm: 90, Price: 4500000},
	}
	assert.NoError(t, ingestQueue.Push(batch))

	assert.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&models.Listing{}).Count(&count).Error; err != nil {
			return false
		}
		return count == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProcessBatch_UpsertsDirectly(t *testing.T) {
	processor, _, db := setupProcessor(t)

	batch := []*models.Listing{
		{ID: 1, District: "Beşiktaş", Neighborhood: "Etiler", NetSqm: 120, Price: 9000000},
	}
	assert.NoError(t, processor.processBatch(batch))

	// Same ID again: overwritten, not duplicated.
	batch[0].Price = 9500000
	assert.NoError(t, processor.processBatch(batch))

	var count int64
	assert.NoError(t, db.Model(&models.Listing{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Listing
	assert.NoError(t, db.First(&stored, 1).Error)
	assert.Equal(t, 9500000.0, stored.Price)
}
