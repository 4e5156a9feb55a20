package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nexaway/internal/config"
	agencyservice "nexaway/internal/domain/service/agency"
	"nexaway/internal/infrastructure/persistence"
	"nexaway/internal/infrastructure/registry"
	"nexaway/pkg/application/connectors"
	"nexaway/pkg/contextx"
	"nexaway/pkg/logx"
)

// go run cmd/recalcScores/main.go
//
// One-shot rescore of every stored agency. Useful after changing the
// scoring rules or importing agencies in bulk.

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.NewLogger(os.Stdout, slog.LevelDebug)
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, log); err != nil {
		log.Error("recalculation failed", "error", err)
		os.Exit(1)
	}

	log.Info("recalculation finished")
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.PingContext: %w", err)
	}

	agencyRepo := persistence.NewAgencyRepository(db)
	reviewRepo := persistence.NewReviewRepository(db)

	registryClient := registry.NewClient(cfg.Registry.BaseURL, cfg.Registry.Timeout, logx.NewSensitiveDataMasker())

	svc := agencyservice.NewAgencyService(agencyRepo, reviewRepo, registryClient, nil)

	updated, err := svc.RecalculateAll(ctx)
	if err != nil {
		return fmt.Errorf("svc.RecalculateAll: %w", err)
	}

	log.Info("scores recalculated", "updated", updated)

	return nil
}
