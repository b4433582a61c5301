package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"liberia/internal/database"
	"liberia/internal/models"
)

const reservaColumns = `id, status, date_created, cliente_nombre, cliente_email, cliente_telefono,
	cliente_pais, cliente_direccion, tipo_viaje, pasajeros, hotel_nombre, hotel_manual,
	llegada_fecha, llegada_hora, llegada_vuelo, llegada_chofer, llegada_subchofer,
	llegada_nota_choferes, llegada_notas_internas,
	salida_fecha, salida_hora, salida_vuelo, salida_chofer, salida_subchofer,
	salida_nota_choferes, salida_notas_internas,
	metodo_pago, subtotal, cargos_adicionales, impuestos, descuentos, total,
	privacy_show_email, privacy_show_phone, privacy_show_financiero,
	raw_data, created_at, updated_at`

var upsertReservaSQL = upsertSQL(models.ReservaColumns)

// reservaOrderColumns maps the orderby values the frontend sends to columns.
var reservaOrderColumns = map[string]string{
	"date":     "date_created",
	"id":       "id",
	"modified": "updated_at",
	"total":    "total",
}

type ReservaRepository struct {
	db *database.DB
}

func NewReservaRepository(db *database.DB) *ReservaRepository {
	return &ReservaRepository{db: db}
}

func (r *ReservaRepository) upsert(ctx context.Context, q queryer, reserva *models.Reserva) error {
	if _, err := q.NamedExecContext(ctx, upsertReservaSQL, reserva); err != nil {
		return fmt.Errorf("failed to upsert reserva %d: %w", reserva.ID, err)
	}
	return nil
}

// Upsert writes one reserva outside a transaction.
func (r *ReservaRepository) Upsert(ctx context.Context, reserva *models.Reserva) error {
	return r.upsert(ctx, r.db, reserva)
}

func (r *ReservaRepository) GetByID(ctx context.Context, id int64) (*models.Reserva, error) {
	var reserva models.Reserva
	query := r.db.Rebind(`SELECT ` + reservaColumns + ` FROM reservas WHERE id = ?`)
	if err := r.db.GetContext(ctx, &reserva, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reserva %d: %w", id, err)
	}
	return &reserva, nil
}

func (r *ReservaRepository) List(ctx context.Context, filter models.ReservaFilter) (*models.ListResult[models.Reserva], error) {
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	var where string
	var args []interface{}
	if filter.After != "" {
		where = " WHERE date_created > ?"
		args = append(args, filter.After)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM reservas`+where), args...); err != nil {
		return nil, fmt.Errorf("failed to count reservas: %w", err)
	}

	orderColumn, ok := reservaOrderColumns[filter.OrderBy]
	if !ok {
		orderColumn = "date_created"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM reservas%s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		reservaColumns, where, orderColumn, direction, direction)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	items := []models.Reserva{}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list reservas: %w", err)
	}

	return &models.ListResult[models.Reserva]{
		Items:      items,
		Total:      total,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	}, nil
}

// CountCreatedSince counts reservas whose upstream creation time is after since.
func (r *ReservaRepository) CountCreatedSince(ctx context.Context, since string) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM reservas WHERE date_created > ?`)
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("failed to count new reservas: %w", err)
	}
	return count, nil
}

// LatestCreatedSince returns the newest reservas created after since.
func (r *ReservaRepository) LatestCreatedSince(ctx context.Context, since string, limit int) ([]models.ReservaSummary, error) {
	query := r.db.Rebind(`
		SELECT id, cliente_nombre, date_created, status
		FROM reservas
		WHERE date_created > ?
		ORDER BY date_created DESC
		LIMIT ?`)

	latest := []models.ReservaSummary{}
	if err := r.db.SelectContext(ctx, &latest, query, since, limit); err != nil {
		return nil, fmt.Errorf("failed to list new reservas: %w", err)
	}
	return latest, nil
}

// Update applies a staff edit. Missing rows yield ErrNotFound.
func (r *ReservaRepository) Update(ctx context.Context, id int64, assignments []models.Assignment) error {
	query, args, err := updateSQL(models.ReservaColumns, id, assignments)
	if err != nil {
		return err
	}
	if err := execUpdate(ctx, r.db, query, args); err != nil {
		return fmt.Errorf("failed to update reserva %d: %w", id, err)
	}
	return nil
}
