package models

// ColumnSet partitions the columns of a synced table by who owns them.
//
// Key and Identity columns are written once on insert. Derived columns are
// recomputed by every sync but staff cannot edit them. Upstream columns are
// overwritten every time the order is re-synced. Local columns are never
// written by a sync and only change through staff edits.
type ColumnSet struct {
	Table    string
	Key      []string
	Identity []string
	Derived  []string
	Upstream []string
	Local    []string
}

// InsertColumns lists the columns a sync writes when the row is new.
func (c ColumnSet) InsertColumns() []string {
	cols := make([]string, 0, len(c.Key)+len(c.Identity)+len(c.Derived)+len(c.Upstream))
	cols = append(cols, c.Key...)
	cols = append(cols, c.Identity...)
	cols = append(cols, c.Derived...)
	return append(cols, c.Upstream...)
}

// SyncedColumns lists the columns a re-sync overwrites.
func (c ColumnSet) SyncedColumns() []string {
	cols := make([]string, 0, len(c.Derived)+len(c.Upstream))
	cols = append(cols, c.Derived...)
	return append(cols, c.Upstream...)
}

// Owns reports whether column belongs to any of the sets.
func (c ColumnSet) Owns(column string) bool {
	for _, set := range [][]string{c.Key, c.Identity, c.Derived, c.Upstream, c.Local} {
		for _, col := range set {
			if col == column {
				return true
			}
		}
	}
	return false
}

// IsLocal reports whether column is locally owned.
func (c ColumnSet) IsLocal(column string) bool {
	for _, col := range c.Local {
		if col == column {
			return true
		}
	}
	return false
}

// BookkeepingColumns are maintained by the store itself.
var BookkeepingColumns = []string{"created_at", "updated_at"}

var ReservaColumns = ColumnSet{
	Table: "reservas",
	Key:   []string{"id"},
	Upstream: []string{
		"status", "date_created",
		"cliente_nombre", "cliente_email", "cliente_telefono", "cliente_pais", "cliente_direccion",
		"tipo_viaje", "pasajeros", "hotel_nombre",
		"llegada_fecha", "llegada_hora", "llegada_vuelo", "llegada_chofer", "llegada_subchofer",
		"llegada_nota_choferes", "llegada_notas_internas",
		"salida_fecha", "salida_hora", "salida_vuelo", "salida_chofer", "salida_subchofer",
		"salida_nota_choferes", "salida_notas_internas",
		"metodo_pago", "subtotal", "cargos_adicionales", "impuestos", "descuentos", "total",
		"privacy_show_email", "privacy_show_phone", "privacy_show_financiero",
		"raw_data",
	},
	Local: []string{"hotel_manual"},
}

var ViajeColumns = ColumnSet{
	Table:    "viajes",
	Key:      []string{"reserva_id", "line_item", "leg"},
	Identity: []string{"tipo"},
	Derived:  []string{"item_index"},
	Upstream: []string{"fecha", "hora", "vuelo", "pax", "hotel"},
	Local:    []string{"chofer", "subchofer", "nota_choferes", "notas_internas", "status"},
}
