package main

import (
	"context"
	"os"
	"time"

	"caja/internal/amqp"
	"caja/internal/cli"
	"caja/internal/ledger"
	"caja/internal/sheets"
	gsheet "caja/internal/sheets/google"
	"caja/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("caja-worker")
	logger.Info("Starting caja-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	var mirror sheets.WeekMirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	repo := ledger.NewRepository(store)
	mirrorWorker := worker.NewMirrorWorker(repo, mirror, cfg.BackupDir)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Recover from events missed while the worker was down.
	if err := mirrorWorker.StartupExport(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
	}

	logger.Info("Consuming document changes", "queue", cfg.AMQPQueue, "backup_dir", cfg.BackupDir)
	if err := amqpClient.ConsumeDocumentChanges(ctx, func(msg *amqp.DocumentChangedMessage) error {
		return mirrorWorker.HandleChange(ctx, msg)
	}); err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
