// journal-migrate copies the melt-log workbook into PostgreSQL. Reruns are
// safe: rows keep their workbook id and duplicates are skipped.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fedotrick/Import-SMS/internal/config"
	"github.com/fedotrick/Import-SMS/internal/database"
	"github.com/fedotrick/Import-SMS/internal/journal"
	"github.com/fedotrick/Import-SMS/internal/logger"
	"github.com/fedotrick/Import-SMS/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "journal-migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	store := journal.New(cfg.Store.XLSXPath, cfg.Store.LockTimeout, log)
	rows, err := store.ReadAll(ctx)
	if err != nil {
		log.Fatal("Failed to read melt-log workbook", zap.String("path", cfg.Store.XLSXPath), zap.Error(err))
	}
	log.Info("Read melt-log workbook", zap.String("path", cfg.Store.XLSXPath), zap.Int("rows", len(rows)))

	db, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	repo := repository.NewPlavkaRepository(db, log)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to prepare archive table", zap.Error(err))
	}

	inserted, skipped := 0, 0
	for i, row := range rows {
		ok, err := repo.InsertRow(ctx, row)
		if err != nil {
			log.Fatal("Failed to insert row", zap.Int("row", i+2), zap.Error(err))
		}
		if ok {
			inserted++
		} else {
			skipped++
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Warn("Failed to count archived rows", zap.Error(err))
	}

	log.Info("Migration finished",
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped),
		zap.Int("total_in_db", total),
	)
}
