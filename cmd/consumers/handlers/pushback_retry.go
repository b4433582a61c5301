package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	apperrors "liberia/internal/errors"
	"liberia/internal/models"

	"github.com/nats-io/stan.go"
)

// MaxPushBackAge bounds how long a failed push-back keeps being retried.
// Past it the next pull sync is the only reconciliation left.
const MaxPushBackAge = 24 * time.Hour

// OrderUpdater is the upstream write the retry needs.
type OrderUpdater interface {
	UpdateOrder(ctx context.Context, id int64, update models.OrderUpdate) error
}

// ReservaGetter checks the reserva still exists locally.
type ReservaGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Reserva, error)
}

// ViajeLister reads the viajes whose edits a push-back may carry.
type ViajeLister interface {
	ListByReserva(ctx context.Context, reservaID int64) ([]models.ViajeWithReserva, error)
}

// PushBackRetryHandler replays push-backs that failed in the API.
type PushBackRetryHandler struct {
	woo      OrderUpdater
	reservas ReservaGetter
	viajes   ViajeLister
	timeout  time.Duration
	now      func() time.Time
}

func NewPushBackRetryHandler(woo OrderUpdater, reservas ReservaGetter, viajes ViajeLister, timeout time.Duration) *PushBackRetryHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PushBackRetryHandler{woo: woo, reservas: reservas, viajes: viajes, timeout: timeout, now: time.Now}
}

// HandlePushBackFailed acks once the update lands upstream or can no longer
// apply. Otherwise the message stays unacked and NATS redelivers it.
func (h *PushBackRetryHandler) HandlePushBackFailed(msg *stan.Msg) {
	if h.retry(context.Background(), msg.Data) {
		msg.Ack()
	}
}

func (h *PushBackRetryHandler) retry(ctx context.Context, data []byte) bool {
	var event models.PushBackFailedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal push-back event", "error", err)
		return true
	}

	if age := h.now().Sub(event.Timestamp); age > MaxPushBackAge {
		slog.Warn("Dropping stale push-back", "order_id", event.OrderID, "age", age.String())
		return true
	}

	reserva, err := h.reservas.GetByID(ctx, event.OrderID)
	if err != nil {
		slog.Error("Failed to load reserva for push-back", "error", err, "order_id", event.OrderID)
		return false
	}
	if reserva == nil {
		slog.Info("Reserva deleted, dropping push-back", "order_id", event.OrderID)
		return true
	}

	viajes, err := h.viajes.ListByReserva(ctx, event.OrderID)
	if err != nil {
		slog.Error("Failed to load viajes for push-back", "error", err, "order_id", event.OrderID)
		return false
	}
	// Any later write, a staff edit or a sync, already settled the order.
	if last := lastLocalWrite(reserva, viajes); last.After(event.Timestamp) {
		slog.Info("Newer local write supersedes push-back", "order_id", event.OrderID, "updated_at", last, "failed_at", event.Timestamp)
		return true
	}

	pushCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err = h.woo.UpdateOrder(pushCtx, event.OrderID, event.Update)
	switch {
	case err == nil:
		slog.Info("Push-back retried successfully", "order_id", event.OrderID)
		return true
	case errors.Is(err, apperrors.ErrNotFound):
		slog.Warn("Order gone upstream, dropping push-back", "order_id", event.OrderID)
		return true
	default:
		slog.Error("Push-back retry failed", "error", err, "order_id", event.OrderID)
		return false
	}
}

func lastLocalWrite(reserva *models.Reserva, viajes []models.ViajeWithReserva) time.Time {
	last := reserva.UpdatedAt
	for _, v := range viajes {
		if v.UpdatedAt.After(last) {
			last = v.UpdatedAt
		}
	}
	return last
}
