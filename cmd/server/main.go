package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appconfig "evdeger/server/config"
	"evdeger/server/internal/ai"
	"evdeger/server/internal/api"
	"evdeger/server/internal/database"
	"evdeger/server/internal/processor"
	"evdeger/server/internal/queue"
	"evdeger/server/internal/valuation"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := appconfig.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)

	// Read path: raw sql queries for the valuation pipeline.
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Write path: gorm handles the transactional batch upserts.
	gormDB, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open gorm connection")
	}

	ingestQueue := queue.NewListingQueue(cfg.Ingest.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(gormDB, ingestQueue, cfg, logger)
	batchProcessor.Start()
	ingestQueue.Start()
	defer batchProcessor.Stop()

	estimator := ai.NewEstimator(
		cfg.AI.APIKey,
		cfg.AI.ModelNames,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
		logger,
	)

	engine := valuation.NewEngine(db, estimator, nil, logger)
	handler := api.NewHandler(db, engine, ingestQueue, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
