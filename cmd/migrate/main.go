package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zerr0-C00L/Katch/internal/config"
	"github.com/Zerr0-C00L/Katch/internal/database"
	"github.com/Zerr0-C00L/Katch/internal/logging"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down]")
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Options{Debug: cfg.Debug})
	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}

	if strings.HasPrefix(cfg.DatabaseURL, "sqlite://") || strings.HasPrefix(cfg.DatabaseURL, "file:") {
		logger.Info("embedded store migrates itself on startup, nothing to do")
		return
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch command {
	case "up":
		if err := database.Migrate(ctx, db); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migration completed successfully")
	case "down":
		if err := database.Drop(ctx, db); err != nil {
			logger.Error("migration rollback failed", "error", err)
			os.Exit(1)
		}
		logger.Info("migration rolled back successfully")
	default:
		logger.Error("unknown command, use 'up' or 'down'", "command", command)
		os.Exit(1)
	}
}
