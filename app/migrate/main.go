package main

import (
	"context"
	"flag"
	"log"

	psqlRepo "pokePortMarket/internal/repository/postgres"
	"pokePortMarket/pkg/config"
	"pokePortMarket/pkg/database"
	"pokePortMarket/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "migration command: up, down or status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	ctx := context.Background()

	switch *command {
	case "up":
		err = psqlRepo.RunMigrations(ctx, db)
	case "down":
		err = psqlRepo.RollbackMigration(ctx, db)
	case "status":
		err = psqlRepo.MigrationStatus(ctx, db)
	default:
		logger.Fatal("Unknown migration command", "command", *command)
	}

	if err != nil {
		logger.Fatal("Migration failed", "command", *command, "error", err)
	}

	logger.Info("Migration finished", "command", *command)
}
