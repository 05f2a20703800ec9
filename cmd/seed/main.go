package main

import (
	"context"
	"log"
	"os"

	"ballotbox/internal/config"
	"ballotbox/internal/db"
	"ballotbox/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()
	source := os.Getenv("SEED_FILE")
	if source == "" {
		source = defaultSeedFile
	}

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Loading users from: %s", source)
	records, err := loadSeedRecords(source)
	if err != nil {
		log.Fatalf("Failed to load seed users: %v", err)
	}
	log.Printf("Loaded %d user records", len(records))

	userRepo := repository.NewUserRepository(gormDB)
	result, err := seedUsers(context.Background(), userRepo, records)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", result.Created)
	log.Printf("  - Existing users kept: %d", result.Existing)
	log.Printf("  - Invalid records skipped: %d", result.Skipped)
}
