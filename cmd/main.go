package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nexaway/internal/application"
	"nexaway/pkg/contextx"
	"nexaway/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.NewLogger(os.Stdout, slog.LevelInfo)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx); err != nil {
		log.Error("application failed", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped")
}
