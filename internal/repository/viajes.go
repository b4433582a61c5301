package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "liberia/internal/errors"
	"liberia/internal/database"
	"liberia/internal/models"
)

const viajeJoinSelect = `
	SELECT v.id, v.reserva_id, v.line_item, v.leg, v.item_index, v.tipo,
		v.fecha, v.hora, v.vuelo, v.pax, v.hotel,
		v.chofer, v.subchofer, v.nota_choferes, v.notas_internas, v.status,
		v.created_at, v.updated_at,
		r.cliente_nombre, r.cliente_email, r.cliente_telefono, r.status AS reserva_status
	FROM viajes v
	JOIN reservas r ON r.id = v.reserva_id`

var upsertViajeSQL = upsertSQL(models.ViajeColumns)

type ViajeRepository struct {
	db *database.DB
}

func NewViajeRepository(db *database.DB) *ViajeRepository {
	return &ViajeRepository{db: db}
}

func (r *ViajeRepository) upsert(ctx context.Context, q queryer, viaje *models.Viaje) error {
	if _, err := q.NamedExecContext(ctx, upsertViajeSQL, viaje); err != nil {
		return fmt.Errorf("failed to upsert viaje %d/%d/%s: %w", viaje.ReservaID, viaje.LineItem, viaje.Leg, err)
	}
	return nil
}

// detach moves the viajes of a reserva whose (line_item, leg) is not in keep
// to item_index = -id. They keep their local data but no longer hold an index
// a current leg may need.
func (r *ViajeRepository) detach(ctx context.Context, q queryer, reservaID int64, keep []models.Viaje) error {
	var stored []models.Viaje
	query := q.Rebind(`SELECT id, line_item, leg, item_index FROM viajes WHERE reserva_id = ?`)
	if err := q.SelectContext(ctx, &stored, query, reservaID); err != nil {
		return fmt.Errorf("failed to list viajes of reserva %d: %w", reservaID, err)
	}

	type legKey struct {
		item int
		leg  models.Leg
	}
	wanted := make(map[legKey]bool, len(keep))
	for _, v := range keep {
		wanted[legKey{v.LineItem, v.Leg}] = true
	}

	for _, v := range stored {
		if v.Detached() || wanted[legKey{v.LineItem, v.Leg}] {
			continue
		}
		if _, err := q.ExecContext(ctx, q.Rebind(`UPDATE viajes SET item_index = -id WHERE id = ?`), v.ID); err != nil {
			return fmt.Errorf("failed to detach viaje %d of reserva %d: %w", v.ID, reservaID, err)
		}
	}
	return nil
}

func (r *ViajeRepository) GetByID(ctx context.Context, id int64) (*models.ViajeWithReserva, error) {
	var viaje models.ViajeWithReserva
	if err := r.db.GetContext(ctx, &viaje, r.db.Rebind(viajeJoinSelect+` WHERE v.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get viaje %d: %w", id, err)
	}
	return &viaje, nil
}

func (r *ViajeRepository) ListByReserva(ctx context.Context, reservaID int64) ([]models.ViajeWithReserva, error) {
	query := r.db.Rebind(viajeJoinSelect + ` WHERE v.reserva_id = ? ORDER BY v.line_item, v.leg`)
	viajes := []models.ViajeWithReserva{}
	if err := r.db.SelectContext(ctx, &viajes, query, reservaID); err != nil {
		return nil, fmt.Errorf("failed to list viajes of reserva %d: %w", reservaID, err)
	}
	return viajes, nil
}

// List returns viajes ordered by date and time, filtered by the non-empty
// fields of filter.
func (r *ViajeRepository) List(ctx context.Context, filter models.ViajeFilter) ([]models.ViajeWithReserva, error) {
	var conds []string
	var args []interface{}
	add := func(cond string, value string) {
		if value != "" {
			conds = append(conds, cond)
			args = append(args, value)
		}
	}
	add("v.fecha = ?", filter.Fecha)
	add("v.fecha >= ?", filter.FechaDesde)
	add("v.fecha <= ?", filter.FechaHasta)
	add("v.tipo = ?", filter.Tipo)
	add("v.chofer = ?", filter.Chofer)
	add("v.status = ?", filter.Status)

	query := viajeJoinSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY v.fecha, v.hora, v.id"

	viajes := []models.ViajeWithReserva{}
	if err := r.db.SelectContext(ctx, &viajes, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list viajes: %w", err)
	}
	return viajes, nil
}

const choferesSQL = `
	SELECT nombre, COUNT(*) AS viajes FROM (
		SELECT TRIM(chofer) AS nombre FROM viajes WHERE chofer IS NOT NULL AND TRIM(chofer) <> ''
		UNION ALL
		SELECT TRIM(subchofer) AS nombre FROM viajes WHERE subchofer IS NOT NULL AND TRIM(subchofer) <> ''
	) roster
	GROUP BY nombre
	ORDER BY nombre`

// Choferes returns the distinct driver names assigned to any viaje.
func (r *ViajeRepository) Choferes(ctx context.Context) ([]models.Chofer, error) {
	choferes := []models.Chofer{}
	if err := r.db.SelectContext(ctx, &choferes, choferesSQL); err != nil {
		return nil, fmt.Errorf("failed to list choferes: %w", err)
	}
	return choferes, nil
}

func (r *ViajeRepository) Update(ctx context.Context, id int64, assignments []models.Assignment) error {
	query, args, err := updateSQL(models.ViajeColumns, id, assignments)
	if err != nil {
		return err
	}
	if err := execUpdate(ctx, r.db, query, args); err != nil {
		return fmt.Errorf("failed to update viaje %d: %w", id, err)
	}
	return nil
}

func (r *ViajeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM viajes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete viaje %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
