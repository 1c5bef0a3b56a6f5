// Command sweeper deletes files whose scheduled deletion date has passed.
// It is meant to run to completion from a cron job, not as a service.
package main

import (
	"context"
	"log"
	"os"

	"github.com/sharein/backend/internal/config"
	"github.com/sharein/backend/internal/database"
	"github.com/sharein/backend/internal/services"
	"github.com/sharein/backend/internal/storage"
	"github.com/sharein/backend/pkg/logger"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed loading configuration: %v", err)
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("object store initialization failed: %v", err)
	}

	sweeper := services.NewSweeper(db, storageClient)
	result, err := sweeper.Run(context.Background())
	if err != nil {
		log.Printf("sweep failed: %v", err)
		os.Exit(1)
	}

	log.Printf("sweep complete: scanned=%d deleted=%d failed=%d",
		result.Scanned, result.Deleted, result.Failed)
}
