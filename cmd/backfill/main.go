package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	appinventory "github.com/mjpos/backend/internal/application/inventory"
	"github.com/mjpos/backend/internal/infrastructure/config"
	"github.com/mjpos/backend/internal/infrastructure/logger"
	"github.com/mjpos/backend/internal/infrastructure/persistence"
)

func main() {
	var (
		configPath string
		batchSize  int
		offset     int
		dryRun     bool
	)
	flag.StringVar(&configPath, "config", "", "directory containing config.toml")
	flag.IntVar(&batchSize, "batch-size", 100, "restock lines per transaction")
	flag.IntVar(&offset, "offset", 0, "restock line offset to resume from")
	flag.BoolVar(&dryRun, "dry-run", false, "report what would be created without writing")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabaseWithCustomLogger(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	scope := persistence.NewGormTransactionScope(db.DB)
	backfill := appinventory.NewBackfillService(scope, log)

	log.Info("Unit backfill starting",
		zap.Int("batch_size", batchSize),
		zap.Int("offset", offset),
		zap.Bool("dry_run", dryRun))

	result, err := backfill.Run(context.Background(), appinventory.BackfillRequest{
		BatchSize: batchSize,
		Offset:    offset,
		DryRun:    dryRun,
	})
	if err != nil {
		log.Fatal("Backfill failed", zap.Error(err))
	}

	log.Info("Unit backfill finished",
		zap.Int("lines_scanned", result.LinesScanned),
		zap.Int("lines_skipped", result.LinesSkipped),
		zap.Int("units_created", result.UnitsCreated),
		zap.Bool("dry_run", result.DryRun))
}
