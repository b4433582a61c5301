package repository

import (
	"context"
	"fmt"
	"sort"

	"liberia/internal/database"
	"liberia/internal/models"
)

// Store applies whole-order reconciliation writes.
type Store struct {
	db       *database.DB
	reservas *ReservaRepository
	viajes   *ViajeRepository
}

func NewStore(db *database.DB, reservas *ReservaRepository, viajes *ViajeRepository) *Store {
	return &Store{db: db, reservas: reservas, viajes: viajes}
}

// SaveOrder upserts the reserva and then each of its viajes in one
// transaction. Replaying the same order leaves every row unchanged apart
// from updated_at. Legs the order no longer carries are detached first, and
// departures are written before arrivals so that a departure moving from
// N to N+1000 frees its index before the new arrival claims it.
func (s *Store) SaveOrder(ctx context.Context, reserva *models.Reserva, viajes []models.Viaje) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservas.upsert(ctx, tx, reserva); err != nil {
		return err
	}
	if err := s.viajes.detach(ctx, tx, reserva.ID, viajes); err != nil {
		return err
	}

	ordered := make([]*models.Viaje, len(viajes))
	for i := range viajes {
		ordered[i] = &viajes[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Leg == models.LegDeparture && ordered[j].Leg != models.LegDeparture
	})
	for _, v := range ordered {
		if err := s.viajes.upsert(ctx, tx, v); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order %d: %w", reserva.ID, err)
	}
	return nil
}

// DeleteReserva removes a reserva and its viajes. It reports whether the
// reserva existed; deleting an unknown id is not an error.
func (s *Store) DeleteReserva(ctx context.Context, id int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM viajes WHERE reserva_id = ?`), id); err != nil {
		return false, fmt.Errorf("failed to delete viajes of reserva %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM reservas WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete reserva %d: %w", id, err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete of reserva %d: %w", id, err)
	}
	return n > 0, nil
}
