package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"caja/internal/amqp"
	"caja/internal/cache"
	"caja/internal/cli"
	"caja/internal/core"
	apphttp "caja/internal/http"
	"caja/internal/ledger"
	"caja/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("caja")
	logger.Info("Starting caja server")

	cfg := cli.LoadAndValidateConfig(logger)

	store, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - change events will not be published")
	}

	totalsCache := cache.NewLRUCache[core.WeekTotals](8, cfg.TotalsCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(totalsCache)
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	repo := ledger.NewRepository(store)
	weeks := services.NewWeekService(repo, amqpClient, totalsCache)
	deliveries := services.NewDeliveryService(repo, cfg.DeliveryRosters, cfg.LookbackDays)

	srv := apphttp.NewServer(":"+cfg.Port, weeks, deliveries)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting HTTP server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
