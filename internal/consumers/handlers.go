package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"liberia/internal/models"
	"liberia/internal/repository"

	"github.com/nats-io/stan.go"
)

// Indexer keeps the reserva search index in step with the store.
// *search.ElasticsearchClient implements it.
type Indexer interface {
	IndexReserva(ctx context.Context, r *models.Reserva) error
	DeleteReserva(ctx context.Context, id int64) error
}

type Handlers struct {
	repos *repository.Repositories
	index Indexer
}

func NewHandlers(repos *repository.Repositories, index Indexer) *Handlers {
	return &Handlers{repos: repos, index: index}
}

// HandleReservaSynced re-indexes the reserva from the store. The message is
// acked only once the index is updated, so index outages are retried.
func (h *Handlers) HandleReservaSynced(m *stan.Msg) {
	if h.reindex(context.Background(), m.Data) {
		m.Ack()
	}
}

// HandleReservaDeleted drops the reserva from the index.
func (h *Handlers) HandleReservaDeleted(m *stan.Msg) {
	if h.unindex(context.Background(), m.Data) {
		m.Ack()
	}
}

// reindex reports whether the message is done with.
func (h *Handlers) reindex(ctx context.Context, data []byte) bool {
	var event models.ReservaSyncedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal reserva synced event", "error", err)
		return true
	}

	reserva, err := h.repos.Reservas.GetByID(ctx, event.ReservaID)
	if err != nil {
		slog.Error("Failed to load reserva for indexing", "error", err, "reserva_id", event.ReservaID)
		return false
	}

	// Deleted after the event was published; the delete event cleans up.
	if reserva == nil {
		slog.Debug("Reserva gone before indexing", "reserva_id", event.ReservaID)
		return true
	}

	if err := h.index.IndexReserva(ctx, reserva); err != nil {
		slog.Error("Failed to index reserva", "error", err, "reserva_id", event.ReservaID)
		return false
	}

	slog.Info("Indexed reserva", "reserva_id", event.ReservaID, "source", event.Source)
	return true
}

func (h *Handlers) unindex(ctx context.Context, data []byte) bool {
	var event models.ReservaDeletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Error("Failed to unmarshal reserva deleted event", "error", err)
		return true
	}

	if err := h.index.DeleteReserva(ctx, event.ReservaID); err != nil {
		slog.Error("Failed to remove reserva from index", "error", fmt.Errorf("reserva %d: %w", event.ReservaID, err))
		return false
	}
	return true
}
