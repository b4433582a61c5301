package service

import (
	"context"
	"fmt"

	apperrors "liberia/internal/errors"
	"liberia/internal/logger"
	"liberia/internal/mapping"
	"liberia/internal/models"
	"liberia/internal/repository"
)

type ViajeService struct {
	repos *repository.Repositories
	sync  *SyncService
	push  *pusher
}

func NewViajeService(repos *repository.Repositories, sync *SyncService, push *pusher) *ViajeService {
	return &ViajeService{repos: repos, sync: sync, push: push}
}

func (s *ViajeService) List(ctx context.Context, filter models.ViajeFilter) ([]models.ViajeWithReserva, error) {
	return s.repos.Viajes.List(ctx, filter)
}

// ListByReserva returns the viajes of one reserva, which must exist.
func (s *ViajeService) ListByReserva(ctx context.Context, reservaID int64) ([]models.ViajeWithReserva, error) {
	reserva, err := s.repos.Reservas.GetByID(ctx, reservaID)
	if err != nil {
		return nil, err
	}
	if reserva == nil {
		return nil, fmt.Errorf("reserva %d: %w", reservaID, apperrors.ErrNotFound)
	}
	return s.repos.Viajes.ListByReserva(ctx, reservaID)
}

func (s *ViajeService) Choferes(ctx context.Context) ([]models.Chofer, error) {
	return s.repos.Viajes.Choferes(ctx)
}

func (s *ViajeService) Get(ctx context.Context, id int64) (*models.ViajeWithReserva, error) {
	viaje, err := s.repos.Viajes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viaje == nil {
		return nil, fmt.Errorf("viaje %d: %w", id, apperrors.ErrNotFound)
	}
	return viaje, nil
}

// Update applies a driver/schedule edit and mirrors it into the order's
// metadata upstream.
func (s *ViajeService) Update(ctx context.Context, id int64, req *models.ViajeUpdateRequest) (*models.ViajeUpdateResponse, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	edit, err := mapping.ViajeEditFrom(&current.Viaje, req)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Viajes.Update(ctx, id, edit.Assignments); err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.sync.announceLocalWrite(ctx, current.ReservaID)

	result := s.push.push(ctx, current.ReservaID, edit.Push)
	logger.WithContext(ctx).Info("Viaje updated",
		"viaje_id", id,
		"reserva_id", current.ReservaID,
		"pushed", result.Success)

	return &models.ViajeUpdateResponse{Success: true, Viaje: updated, WooSync: result}, nil
}

func (s *ViajeService) Delete(ctx context.Context, id int64) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Viajes.Delete(ctx, id); err != nil {
		return err
	}
	s.sync.announceLocalWrite(ctx, current.ReservaID)
	return nil
}
