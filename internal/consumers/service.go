package consumers

import (
	"context"
	"fmt"
	"log/slog"

	"liberia/internal/config"
	"liberia/internal/database"
	"liberia/internal/external"
	"liberia/internal/messaging"
	"liberia/internal/models"
	"liberia/internal/repository"
	"liberia/internal/search"
	"liberia/internal/service"
)

const queueIndexer = "indexer"

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	woo      *external.WooCommerceClient
	sync     *service.SyncService
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)
	woo := external.NewWooCommerceClient(cfg.WooCommerce)

	cs := &ConsumerService{
		db:    db,
		nats:  natsClient,
		repos: repos,
		woo:   woo,
		sync:  service.NewSyncService(repos, woo, natsClient, cfg.Sync),
	}

	if cfg.Elasticsearch.Enabled() {
		index, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			cs.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
		cs.handlers = NewHandlers(repos, index)
	} else {
		slog.Warn("ELASTICSEARCH_URL not set, reserva indexing is disabled")
	}

	return cs, nil
}

func (cs *ConsumerService) Repos() *repository.Repositories { return cs.repos }
func (cs *ConsumerService) NATS() *messaging.NATSClient { return cs.nats }
func (cs *ConsumerService) WooCommerce() *external.WooCommerceClient { return cs.woo }
func (cs *ConsumerService) Sync() *service.SyncService { return cs.sync }

// Start subscribes the search indexer. Without NATS there is nothing to
// consume and Start only logs.
func (cs *ConsumerService) Start() error {
	if !cs.nats.Enabled() {
		slog.Warn("NATS disabled, event consumers are not started")
		return nil
	}
	if cs.handlers == nil {
		return nil
	}

	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue(models.EventReservaSynced, queueIndexer, cs.handlers.HandleReservaSynced); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.EventReservaDeleted, queueIndexer, cs.handlers.HandleReservaDeleted); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
