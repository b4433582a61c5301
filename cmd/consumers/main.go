package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liberia/cmd/consumers/handlers"
	"liberia/cmd/consumers/jobs"
	"liberia/internal/config"
	"liberia/internal/consumers"
	"liberia/internal/logger"
	"liberia/internal/models"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting consumers service...")

	// Override NATS client ID for consumers
	cfg.NATS.ClientID = "liberia-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	if consumerService.NATS().Enabled() && consumerService.WooCommerce().Configured() {
		retry := handlers.NewPushBackRetryHandler(consumerService.WooCommerce(), consumerService.Repos().Reservas, consumerService.Repos().Viajes, cfg.WooCommerce.Timeout)
		if _, err := consumerService.NATS().SubscribeQueue(models.EventPushBackFailed, "pushback", retry.HandlePushBackFailed); err != nil {
			logger.Fatal("Failed to subscribe push-back retry", "error", err)
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var syncJob *jobs.ScheduledSyncJob
	if cfg.Sync.Interval > 0 {
		syncJob = jobs.NewScheduledSyncJob(consumerService.Sync(), cfg.Sync.Interval)
		syncJob.Start(ctx)
	} else {
		slog.Info("SYNC_INTERVAL_MIN not set, scheduled pull sync is disabled")
	}

	slog.Info("Consumers service started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down consumers service...")

	if syncJob != nil {
		syncJob.Stop()
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	slog.Info("Consumers service stopped")
}
