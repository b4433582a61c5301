package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"liberia/internal/config"
	"liberia/internal/database"
	"liberia/internal/external"
	"liberia/internal/logger"
	"liberia/internal/messaging"
	"liberia/internal/repository"
	"liberia/internal/service"
)

// One-shot pull sync. Exits non-zero when the run aborts.
func main() {
	cfg := config.Load()

	flag.IntVar(&cfg.Sync.PageSize, "page-size", cfg.Sync.PageSize, "Orders per upstream page")
	flag.IntVar(&cfg.Sync.MaxPages, "max-pages", cfg.Sync.MaxPages, "Page ceiling for one run")
	flag.IntVar(&cfg.Sync.LookbackMonths, "lookback-months", cfg.Sync.LookbackMonths, "Only orders created in the last N months")
	flag.BoolVar(&cfg.Sync.TypeAuthoritative, "type-authoritative", cfg.Sync.TypeAuthoritative, "Trust the trip type over filled dates")
	timeout := flag.Duration("timeout", 30*time.Minute, "Overall run timeout")
	flag.Parse()

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Starting pull sync", "page_size", cfg.Sync.PageSize, "max_pages", cfg.Sync.MaxPages)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	cfg.NATS.ClientID = "liberia-sync"
	bus, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}
	defer bus.Close()

	repos := repository.NewRepositories(db)
	woo := external.NewWooCommerceClient(cfg.WooCommerce)
	syncService := service.NewSyncService(repos, woo, bus, cfg.Sync)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, runErr := syncService.PullSync(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		slog.Error("Failed to print result", "error", err)
	}

	if runErr != nil {
		slog.Error("Pull sync aborted", "error", runErr)
		os.Exit(1)
	}
}
