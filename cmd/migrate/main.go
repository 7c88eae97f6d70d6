package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"smartats/internal/config"
	"smartats/internal/database/migration"
	dbpostgres "smartats/internal/database/postgres"
	"smartats/internal/pkg/logger"
	"smartats/migrations"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, lg.Named("postgres"))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	runner := migration.Runner{FS: migrations.FS, Logger: lg.Named("migration")}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	lg.Info("migrations up to date")
	return nil
}
