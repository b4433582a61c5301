package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	apperrors "liberia/internal/errors"
	"liberia/internal/database"
	"liberia/internal/models"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Reservas *ReservaRepository
	Viajes   *ViajeRepository
	Settings *SettingsRepository
	Store    *Store
}

func NewRepositories(db *database.DB) *Repositories {
	reservas := NewReservaRepository(db)
	viajes := NewViajeRepository(db)
	settings := NewSettingsRepository(db)
	return &Repositories{
		Reservas: reservas,
		Viajes:   viajes,
		Settings: settings,
		Store:    NewStore(db, reservas, viajes),
	}
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// upsertSQL builds an insert that, on a key conflict, rewrites only the
// derived and upstream-owned columns of cs.
func upsertSQL(cs models.ColumnSet) string {
	cols := cs.InsertColumns()
	synced := cs.SyncedColumns()

	updates := make([]string, 0, len(synced)+1)
	for _, col := range synced {
		updates = append(updates, col+" = excluded."+col)
	}
	updates = append(updates, "updated_at = CURRENT_TIMESTAMP")

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s) ON CONFLICT (%s) DO UPDATE SET %s",
		cs.Table,
		strings.Join(cols, ", "),
		strings.Join(cols, ", :"),
		strings.Join(cs.Key, ", "),
		strings.Join(updates, ", "),
	)
}

// updateSQL builds a by-id update from staff assignments. Key, identity and
// derived columns cannot be edited.
func updateSQL(cs models.ColumnSet, id int64, assignments []models.Assignment) (string, []interface{}, error) {
	if len(assignments) == 0 {
		return "", nil, apperrors.ErrNothingToUpdate
	}

	sets := make([]string, 0, len(assignments)+1)
	args := make([]interface{}, 0, len(assignments)+1)
	for _, a := range assignments {
		if !editable(cs, a.Column) {
			return "", nil, fmt.Errorf("%w: column %s is not editable", apperrors.ErrInvalidInput, a.Column)
		}
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", cs.Table, strings.Join(sets, ", ")), args, nil
}

func editable(cs models.ColumnSet, column string) bool {
	if !cs.Owns(column) {
		return false
	}
	for _, fixed := range [][]string{cs.Key, cs.Identity, cs.Derived} {
		for _, col := range fixed {
			if col == column {
				return false
			}
		}
	}
	return true
}

func execUpdate(ctx context.Context, q queryer, query string, args []interface{}) error {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
