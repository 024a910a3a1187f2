package main

// Create and seed the catalog tables:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"brew-backend/internal/catalog"
	"brew-backend/internal/shared/config"
	"brew-backend/internal/shared/storage/db"
	"brew-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.LogFormat)
	defer telemetry.Sync()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}

	snapshot, err := catalog.Load(ctx, &catalog.PGRepo{DB: sqlDB})
	if err != nil {
		telemetry.Error("migrate.catalog_check_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	beans, _ := snapshot.ListBeans(ctx)
	machines, _ := snapshot.ListMachines(ctx)
	telemetry.Info("migrate.complete", map[string]any{
		"beans":    len(beans),
		"machines": len(machines),
	})
}
