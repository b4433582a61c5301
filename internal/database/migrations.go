package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...", "driver", db.DriverName())

	serialKey := "BIGSERIAL PRIMARY KEY"
	if db.IsSQLite() {
		serialKey = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	migrations := []string{
		createReservasTable,
		fmt.Sprintf(createViajesTable, serialKey),
		createConfigTable,
		createReservasDateIndex,
		createViajesFechaIndex,
		createViajesChoferIndex,
		repairDepartureIndexes,
		dropViajesItemIndex,
		createViajesItemIndex,
	}

	for i, migration := range migrations {
		slog.Debug("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createReservasTable = `
CREATE TABLE IF NOT EXISTS reservas (
    id BIGINT PRIMARY KEY,
    status VARCHAR(50) NOT NULL DEFAULT '',
    date_created VARCHAR(32),
    cliente_nombre VARCHAR(255),
    cliente_email VARCHAR(255),
    cliente_telefono VARCHAR(64),
    cliente_pais VARCHAR(8),
    cliente_direccion TEXT,
    tipo_viaje VARCHAR(255),
    pasajeros INTEGER NOT NULL DEFAULT 1,
    hotel_nombre VARCHAR(255),
    hotel_manual VARCHAR(255),
    llegada_fecha VARCHAR(10),
    llegada_hora VARCHAR(8),
    llegada_vuelo VARCHAR(100),
    llegada_chofer VARCHAR(100),
    llegada_subchofer VARCHAR(100),
    llegada_nota_choferes TEXT,
    llegada_notas_internas TEXT,
    salida_fecha VARCHAR(10),
    salida_hora VARCHAR(8),
    salida_vuelo VARCHAR(100),
    salida_chofer VARCHAR(100),
    salida_subchofer VARCHAR(100),
    salida_nota_choferes TEXT,
    salida_notas_internas TEXT,
    metodo_pago VARCHAR(255),
    subtotal NUMERIC(10,2) NOT NULL DEFAULT 0,
    cargos_adicionales NUMERIC(10,2) NOT NULL DEFAULT 0,
    impuestos NUMERIC(10,2) NOT NULL DEFAULT 0,
    descuentos NUMERIC(10,2) NOT NULL DEFAULT 0,
    total NUMERIC(10,2) NOT NULL DEFAULT 0,
    privacy_show_email VARCHAR(8),
    privacy_show_phone VARCHAR(8),
    privacy_show_financiero VARCHAR(8),
    raw_data TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

const createViajesTable = `
CREATE TABLE IF NOT EXISTS viajes (
    id %s,
    reserva_id BIGINT NOT NULL REFERENCES reservas(id) ON DELETE CASCADE,
    line_item INTEGER NOT NULL,
    leg VARCHAR(16) NOT NULL,
    item_index INTEGER NOT NULL,
    tipo VARCHAR(16) NOT NULL,
    fecha VARCHAR(10) NOT NULL,
    hora VARCHAR(8),
    vuelo VARCHAR(100),
    pax INTEGER NOT NULL DEFAULT 1,
    hotel VARCHAR(255),
    chofer VARCHAR(100),
    subchofer VARCHAR(100),
    nota_choferes TEXT,
    notas_internas TEXT,
    status VARCHAR(30) NOT NULL DEFAULT 'pendiente',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(reserva_id, line_item, leg),
    CHECK (leg IN ('arrival', 'departure'))
);`

const createConfigTable = `
CREATE TABLE IF NOT EXISTS config (
    clave VARCHAR(50) PRIMARY KEY,
    valor TEXT,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

const createReservasDateIndex = `
CREATE INDEX IF NOT EXISTS reservas_date_created_idx ON reservas (date_created);`

const createViajesFechaIndex = `
CREATE INDEX IF NOT EXISTS viajes_fecha_hora_idx ON viajes (fecha, hora);`

const createViajesChoferIndex = `
CREATE INDEX IF NOT EXISTS viajes_chofer_idx ON viajes (chofer);`

// Departures stored before their item gained an arrival kept the bare item
// index; move them to the offset index so the unique index below can build.
const repairDepartureIndexes = `
UPDATE viajes SET item_index = line_item + 1000
WHERE leg = 'departure' AND item_index = line_item
    AND EXISTS (
        SELECT 1 FROM viajes a
        WHERE a.reserva_id = viajes.reserva_id AND a.line_item = viajes.line_item
            AND a.leg = 'arrival' AND a.item_index >= 0
    );`

const dropViajesItemIndex = `
DROP INDEX IF EXISTS viajes_reserva_item_idx;`

const createViajesItemIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS viajes_reserva_item_key ON viajes (reserva_id, item_index);`
