package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "liberia/internal/errors"
	"liberia/internal/logger"
	"liberia/internal/mapping"
	"liberia/internal/models"
	"liberia/internal/repository"
)

// newReservasLimit caps the rows returned by the new-bookings poll.
const newReservasLimit = 5

type ReservaService struct {
	repos *repository.Repositories
	sync  *SyncService
	woo   OrderSource
	push  *pusher
	now   func() time.Time
}

func NewReservaService(repos *repository.Repositories, sync *SyncService, woo OrderSource, push *pusher) *ReservaService {
	return &ReservaService{repos: repos, sync: sync, woo: woo, push: push, now: time.Now}
}

// List returns one page of reservas in the upstream order shape.
func (s *ReservaService) List(ctx context.Context, filter models.ReservaFilter) (*models.ListResult[*models.WooOrder], error) {
	page, err := s.repos.Reservas.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	orders := make([]*models.WooOrder, len(page.Items))
	for i := range page.Items {
		orders[i] = mapping.ProjectReserva(&page.Items[i])
	}
	return &models.ListResult[*models.WooOrder]{Items: orders, Total: page.Total, TotalPages: page.TotalPages}, nil
}

func (s *ReservaService) get(ctx context.Context, id int64) (*models.Reserva, error) {
	reserva, err := s.repos.Reservas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reserva == nil {
		return nil, fmt.Errorf("reserva %d: %w", id, apperrors.ErrNotFound)
	}
	return reserva, nil
}

func (s *ReservaService) Get(ctx context.Context, id int64) (*models.WooOrder, error) {
	reserva, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapping.ProjectReserva(reserva), nil
}

// NewSince answers the new-bookings poll: how many reservas were created
// upstream after since and the most recent of them.
func (s *ReservaService) NewSince(ctx context.Context, since string) (*models.NewReservasResponse, error) {
	if since == "" {
		since = s.now().Add(-24 * time.Hour).UTC().Format("2006-01-02T15:04:05")
	}

	count, err := s.repos.Reservas.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	latest, err := s.repos.Reservas.LatestCreatedSince(ctx, since, newReservasLimit)
	if err != nil {
		return nil, err
	}
	lastSync, err := s.repos.Settings.LastSync(ctx)
	if err != nil {
		return nil, err
	}

	return &models.NewReservasResponse{
		Count:      count,
		Latest:     latest,
		ServerTime: s.now().UTC().Format(time.RFC3339),
		LastSync:   lastSync,
	}, nil
}

// Update writes a staff edit locally and then pushes the upstream-owned part
// of it. The response carries the push outcome; the local write stands
// either way.
func (s *ReservaService) Update(ctx context.Context, id int64, req *models.ReservaUpdateRequest) (*models.ReservaUpdateResponse, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	edit, err := mapping.ReservaEditFrom(current, req)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Reservas.Update(ctx, id, edit.Assignments); err != nil {
		return nil, err
	}

	updated, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.sync.announceLocalWrite(ctx, id)

	result := s.push.push(ctx, id, edit.Push)
	logger.WithContext(ctx).Info("Reserva updated",
		"reserva_id", id,
		"columns", len(edit.Assignments),
		"pushed", result.Success)

	return &models.ReservaUpdateResponse{
		Success: true,
		Reserva: mapping.ProjectReserva(updated),
		WooSync: result,
	}, nil
}

// Delete removes the reserva and its viajes. With upstream set the order is
// trashed in the store first, so a failed upstream call leaves both sides
// untouched.
func (s *ReservaService) Delete(ctx context.Context, id int64, upstream bool) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	if upstream {
		if s.woo == nil || !s.woo.Configured() {
			return fmt.Errorf("%w: upstream store is not configured", apperrors.ErrUpstreamUnavailable)
		}
		if err := s.woo.DeleteOrder(ctx, id, false); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
	}

	_, err := s.sync.DeleteOrder(ctx, id, models.SourceLocal)
	return err
}

// Refresh re-reads the order upstream and returns the projected result.
func (s *ReservaService) Refresh(ctx context.Context, id int64) (*models.WooOrder, error) {
	reserva, err := s.sync.RefreshOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapping.ProjectReserva(reserva), nil
}
