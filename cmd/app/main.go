package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/humanbelnik/columns/core/internal/app"
	"github.com/humanbelnik/columns/core/internal/config"
)

func main() {
	cfg := config.Load()
	logger := app.NewLogger(cfg.Logging, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Go(ctx, cfg, logger); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
