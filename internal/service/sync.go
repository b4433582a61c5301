package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "liberia/internal/errors"
	"liberia/internal/external"
	"liberia/internal/logger"
	"liberia/internal/mapping"
	"liberia/internal/metrics"
	"liberia/internal/models"
	"liberia/internal/repository"
)

const statusTrash = "trash"

// SyncOptions bounds a pull sync and tunes trip decomposition.
type SyncOptions struct {
	PageSize       int
	MaxPages       int
	LookbackMonths int
	// Interval is the period of the scheduled pull sync; zero disables it.
	Interval          time.Duration
	TypeAuthoritative bool
}

func (o SyncOptions) withDefaults() SyncOptions {
	if o.PageSize <= 0 {
		o.PageSize = 100
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 50
	}
	if o.LookbackMonths <= 0 {
		o.LookbackMonths = 7
	}
	return o
}

// SyncService reconciles upstream orders into the local store.
type SyncService struct {
	repos *repository.Repositories
	woo   OrderSource
	bus   EventPublisher
	opts  SyncOptions
	now   func() time.Time

	mu      sync.Mutex
	lastRun *models.SyncResult
}

func NewSyncService(repos *repository.Repositories, woo OrderSource, bus EventPublisher, opts SyncOptions) *SyncService {
	return &SyncService{
		repos: repos,
		woo:   woo,
		bus:   bus,
		opts:  opts.withDefaults(),
		now:   time.Now,
	}
}

func (s *SyncService) announce(ctx context.Context, reserva *models.Reserva, viajes int, source string) {
	publish(ctx, s.bus, models.EventReservaSynced, models.ReservaSyncedEvent{
		ReservaID: reserva.ID,
		Status:    reserva.Status,
		Viajes:    viajes,
		Source:    source,
		Timestamp: s.now(),
	})
}

// announceLocalWrite republishes a reserva after a staff edit so the search
// index follows local changes as well as synced ones.
func (s *SyncService) announceLocalWrite(ctx context.Context, reservaID int64) {
	reserva, err := s.repos.Reservas.GetByID(ctx, reservaID)
	if err != nil || reserva == nil {
		logger.WithContext(ctx).Warn("Skipping reserva.synced for local write", "error", err, "reserva_id", reservaID)
		return
	}
	viajes, err := s.repos.Viajes.ListByReserva(ctx, reservaID)
	if err != nil {
		logger.WithContext(ctx).Warn("Skipping reserva.synced for local write", "error", err, "reserva_id", reservaID)
		return
	}
	s.announce(ctx, reserva, len(viajes), models.SourceLocal)
}

func (s *SyncService) decomposeOptions() mapping.DecomposeOptions {
	return mapping.DecomposeOptions{TypeAuthoritative: s.opts.TypeAuthoritative}
}

// SaveOrder maps one raw order document and upserts its reserva and viajes.
func (s *SyncService) SaveOrder(ctx context.Context, raw []byte, source string) (*models.Reserva, error) {
	var order models.WooOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order: %v", apperrors.ErrInvalidInput, err)
	}
	return s.saveDecoded(ctx, &order, raw, source)
}

func (s *SyncService) saveDecoded(ctx context.Context, order *models.WooOrder, raw []byte, source string) (*models.Reserva, error) {
	if order.ID <= 0 {
		return nil, fmt.Errorf("%w: order without id", apperrors.ErrInvalidInput)
	}

	reserva := mapping.MapReserva(order, raw)
	viajes := mapping.ViajesFor(reserva.ID, mapping.Decompose(order, s.decomposeOptions()))

	if err := s.repos.Store.SaveOrder(ctx, reserva, viajes); err != nil {
		metrics.OrderSyncFailures.WithLabelValues(source).Inc()
		return nil, err
	}

	s.touchLastSync(ctx)
	metrics.OrdersSynced.WithLabelValues(source).Inc()
	s.announce(ctx, reserva, len(viajes), source)

	logger.WithContext(ctx).Debug("Order reconciled",
		"order_id", reserva.ID,
		"viajes", len(viajes),
		"source", source)
	return reserva, nil
}

// DeleteOrder removes the local copy of an order. It reports whether a
// reserva existed.
func (s *SyncService) DeleteOrder(ctx context.Context, id int64, source string) (bool, error) {
	existed, err := s.repos.Store.DeleteReserva(ctx, id)
	if err != nil {
		metrics.OrderSyncFailures.WithLabelValues(source).Inc()
		return false, err
	}

	s.touchLastSync(ctx)
	if existed {
		metrics.OrdersDeleted.WithLabelValues(source).Inc()
		publish(ctx, s.bus, models.EventReservaDeleted, models.ReservaDeletedEvent{
			ReservaID: id,
			Source:    source,
			Timestamp: s.now(),
		})
	}
	return existed, nil
}

// RefreshOrder re-reads one order upstream. An order that is gone or
// trashed upstream is removed locally and reported as ErrNotFound.
func (s *SyncService) RefreshOrder(ctx context.Context, id int64) (*models.Reserva, error) {
	if s.woo == nil || !s.woo.Configured() {
		return nil, fmt.Errorf("%w: upstream store is not configured", apperrors.ErrUpstreamUnavailable)
	}

	order, raw, err := s.woo.GetOrder(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) || (err == nil && order.Status == statusTrash) {
		if _, delErr := s.DeleteOrder(ctx, id, models.SourceRefresh); delErr != nil {
			return nil, delErr
		}
		return nil, fmt.Errorf("order %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.saveDecoded(ctx, order, raw, models.SourceRefresh)
}

// PullSync sweeps recently modified upstream orders page by page. Failures
// on single orders are counted and skipped; a failed page fetch aborts the
// run and returns the partial result together with the error.
func (s *SyncService) PullSync(ctx context.Context) (*models.SyncResult, error) {
	log := logger.WithContext(ctx)
	started := s.now()
	result := &models.SyncResult{StartedAt: started}

	finish := func(state models.SyncState, err error) (*models.SyncResult, error) {
		result.State = state
		result.FinishedAt = s.now()
		if err != nil {
			result.Error = err.Error()
		}
		metrics.PullSyncRuns.WithLabelValues(string(state)).Inc()
		metrics.PullSyncDuration.Observe(result.FinishedAt.Sub(started).Seconds())

		s.mu.Lock()
		snapshot := *result
		s.lastRun = &snapshot
		s.mu.Unlock()

		log.Info("Pull sync finished",
			"state", state,
			"pages", result.Pages,
			"processed", result.Processed,
			"deleted", result.Deleted,
			"failed", result.Failed)
		return result, err
	}

	if s.woo == nil || !s.woo.Configured() {
		return finish(models.SyncAborted, fmt.Errorf("%w: upstream store is not configured", apperrors.ErrUpstreamUnavailable))
	}

	after := started.AddDate(0, -s.opts.LookbackMonths, 0)
	for page := 1; ; page++ {
		if page > s.opts.MaxPages {
			log.Warn("Pull sync stopped at page ceiling, older orders were not visited",
				"max_pages", s.opts.MaxPages)
			return finish(models.SyncTruncated, nil)
		}

		batch, err := s.woo.ListOrders(ctx, external.ListOrdersParams{
			Page:    page,
			PerPage: s.opts.PageSize,
			After:   after,
			OrderBy: "id",
			Order:   "asc",
		})
		if err != nil {
			return finish(models.SyncAborted, err)
		}
		result.Pages++

		for _, raw := range batch.Orders {
			s.pullOne(ctx, raw, result)
		}
		log.Info("Pull sync page processed",
			"page", page,
			"orders", len(batch.Orders),
			"total_pages", batch.TotalPages,
			"processed", result.Processed,
			"failed", result.Failed)

		if len(batch.Orders) < s.opts.PageSize || (batch.TotalPages > 0 && page >= batch.TotalPages) {
			return finish(models.SyncDone, nil)
		}
	}
}

func (s *SyncService) pullOne(ctx context.Context, raw json.RawMessage, result *models.SyncResult) {
	var order models.WooOrder
	if err := json.Unmarshal(raw, &order); err != nil || order.ID <= 0 {
		result.Failed++
		metrics.OrderSyncFailures.WithLabelValues(models.SourcePull).Inc()
		logger.WithContext(ctx).Warn("Skipping unreadable order in pull sync", "error", err)
		return
	}

	if order.Status == statusTrash {
		if _, err := s.DeleteOrder(ctx, order.ID, models.SourcePull); err != nil {
			result.Failed++
			logger.WithContext(ctx).Error("Failed to remove trashed order", "error", err, "order_id", order.ID)
			return
		}
		result.Deleted++
		return
	}

	if _, err := s.saveDecoded(ctx, &order, raw, models.SourcePull); err != nil {
		result.Failed++
		logger.WithContext(ctx).Error("Failed to reconcile order", "error", err, "order_id", order.ID)
		return
	}
	result.Processed++
}

// LastSync is the time of the last successful reconciliation write.
func (s *SyncService) LastSync(ctx context.Context) (*time.Time, error) {
	return s.repos.Settings.LastSync(ctx)
}

// Status reports the last write time and the outcome of the last pull sync
// run by this process.
func (s *SyncService) Status(ctx context.Context) (*models.SyncStatusResponse, error) {
	last, err := s.LastSync(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.SyncStatusResponse{LastSync: last, LastRun: s.lastRun}, nil
}

func (s *SyncService) touchLastSync(ctx context.Context) {
	if err := s.repos.Settings.TouchLastSync(ctx, s.now()); err != nil {
		logger.WithContext(ctx).Warn("Failed to record last sync time", "error", err)
	}
}
