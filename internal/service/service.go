package service

import (
	"context"
	"time"

	"liberia/internal/external"
	"liberia/internal/logger"
	"liberia/internal/models"
	"liberia/internal/repository"
)

// OrderSource is the upstream order API. *external.WooCommerceClient
// implements it.
type OrderSource interface {
	Configured() bool
	ListOrders(ctx context.Context, p external.ListOrdersParams) (*external.OrderPage, error)
	GetOrder(ctx context.Context, id int64) (*models.WooOrder, []byte, error)
	UpdateOrder(ctx context.Context, id int64, update models.OrderUpdate) error
	DeleteOrder(ctx context.Context, id int64, force bool) error
}

// EventPublisher is the domain event bus. *messaging.NATSClient implements it.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

type Options struct {
	Sync    SyncOptions
	Webhook WebhookOptions
	// PushTimeout bounds a single push-back call upstream.
	PushTimeout time.Duration
}

type Services struct {
	Sync     *SyncService
	Webhooks *WebhookService
	Reservas *ReservaService
	Viajes   *ViajeService
}

func NewServices(repos *repository.Repositories, woo OrderSource, bus EventPublisher, opts Options) *Services {
	syncService := NewSyncService(repos, woo, bus, opts.Sync)
	push := newPusher(woo, bus, opts.PushTimeout)

	return &Services{
		Sync:     syncService,
		Webhooks: NewWebhookService(syncService, opts.Webhook),
		Reservas: NewReservaService(repos, syncService, woo, push),
		Viajes:   NewViajeService(repos, syncService, push),
	}
}

// publish sends an event without failing the caller.
func publish(ctx context.Context, bus EventPublisher, subject string, data interface{}) {
	if bus == nil {
		return
	}
	if err := bus.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"event_type", subject)
	}
}
