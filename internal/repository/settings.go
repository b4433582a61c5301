package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"liberia/internal/database"
)

// KeyLastSync holds the time of the last successful reconciliation write.
const KeyLastSync = "last_sync"

// SettingsRepository is a key/value view over the config table.
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := r.db.Rebind(`
		INSERT INTO config (clave, valor, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (clave) DO UPDATE SET valor = excluded.valor, updated_at = CURRENT_TIMESTAMP`)
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Get returns ("", false, nil) for a missing key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value sql.NullString
	err := r.db.GetContext(ctx, &value, r.db.Rebind(`SELECT valor FROM config WHERE clave = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value.String, true, nil
}

func (r *SettingsRepository) TouchLastSync(ctx context.Context, at time.Time) error {
	return r.Set(ctx, KeyLastSync, at.UTC().Format(time.RFC3339))
}

// LastSync returns nil when no sync has been recorded yet.
func (r *SettingsRepository) LastSync(ctx context.Context) (*time.Time, error) {
	value, ok, err := r.Get(ctx, KeyLastSync)
	if err != nil || !ok {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s %q: %w", KeyLastSync, value, err)
	}
	return &t, nil
}
