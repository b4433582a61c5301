package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.RunMigrations())
	// Migrations are idempotent.
	require.NoError(t, db.RunMigrations())

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('reservas', 'viajes', 'config') ORDER BY name`))
	assert.Equal(t, []string{"config", "reservas", "viajes"}, tables)

	hc := db.HealthCheck(context.Background())
	assert.Equal(t, "healthy", hc.Status)
	assert.Equal(t, DriverSQLite, hc.Driver)
}

func TestMigrationsRepairSharedItemIndex(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "repair.db")})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	// State left by a schema without the unique index.
	db.MustExec(`DROP INDEX viajes_reserva_item_key`)
	db.MustExec(`INSERT INTO reservas (id, status) VALUES (77, 'processing')`)
	db.MustExec(`INSERT INTO viajes (reserva_id, line_item, leg, item_index, tipo, fecha) VALUES
		(77, 0, 'departure', 0, 'salida', '2026-02-17'),
		(77, 0, 'arrival', 0, 'llegada', '2026-02-10')`)

	require.NoError(t, db.RunMigrations())

	var departure int
	require.NoError(t, db.Get(&departure, `SELECT item_index FROM viajes WHERE reserva_id = 77 AND leg = 'departure'`))
	assert.Equal(t, 1000, departure)

	_, err = db.Exec(`INSERT INTO viajes (reserva_id, line_item, leg, item_index, tipo, fecha) VALUES (77, 1, 'arrival', 0, 'llegada', '2026-03-01')`)
	assert.Error(t, err)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestRegisterPoolMetrics(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "metrics.db")})
	require.NoError(t, err)
	defer db.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, db.RegisterMetrics(reg))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "liberia_db_connections", families[0].GetName())
	assert.Len(t, families[0].GetMetric(), 4)

	// A second pool cannot claim the same series.
	assert.Error(t, db.RegisterMetrics(reg))
}
