package main

import (
	"time"

	"caja/internal/cli"
	"caja/internal/ledger"
	"caja/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("caja-rollover")
	logger.Info("Starting caja-rollover")

	cfg := cli.LoadAndValidateConfig(logger)

	store, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	repo := ledger.NewRepository(store)
	processor := services.NewRolloverProcessor(repo, services.WeeklyStrategy{})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Rollover processor configured", "interval", cfg.RolloverInterval)

	ticker := time.NewTicker(cfg.RolloverInterval)
	defer ticker.Stop()

	// Check once on startup so a restart right after the week boundary
	// still rolls over.
	if rolled, err := processor.ProcessRollover(ctx, time.Now()); err != nil {
		logger.Error("Initial rollover check failed", "error", err)
	} else if rolled {
		logger.Info("Initial rollover performed")
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rolled, err := processor.ProcessRollover(ctx, now)
				if err != nil {
					logger.Error("Rollover check failed", "error", err)
					continue
				}
				if rolled {
					logger.Info("Week rollover performed")
				}
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Rollover worker stopped gracefully")
}
