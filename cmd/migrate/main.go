package main

import (
	"context"
	"fmt"
	"log"
	"time"

	postgresMigration "slotboard/internal/migrations/postgres"
	"slotboard/pkg/config"
)

const JobName = "postgres-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()
	cfg := config.Load(JobName)
	cfg.SetPostgres()
	cfg.Log.Info("Starting Postgres migration job")
	defer cfg.GracefulShutdown()
	migratePostgres(ctx, cfg)
	fmt.Println("Migration completed successfully.")
}

func migratePostgres(ctx context.Context, cfg *config.Config) {
	if err := postgresMigration.RunMigration(ctx, cfg.Client.Postgres); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
