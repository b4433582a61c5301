package models

import "time"

// Reserva is the local copy of one upstream order. Columns are split into
// upstream-owned and locally-owned sets in columns.go.
type Reserva struct {
	ID          int64   `db:"id" json:"id"`
	Status      string  `db:"status" json:"status"`
	DateCreated *string `db:"date_created" json:"date_created"`

	ClienteNombre    *string `db:"cliente_nombre" json:"cliente_nombre"`
	ClienteEmail     *string `db:"cliente_email" json:"cliente_email"`
	ClienteTelefono  *string `db:"cliente_telefono" json:"cliente_telefono"`
	ClientePais      *string `db:"cliente_pais" json:"cliente_pais"`
	ClienteDireccion *string `db:"cliente_direccion" json:"cliente_direccion"`

	TipoViaje   *string `db:"tipo_viaje" json:"tipo_viaje"`
	Pasajeros   int     `db:"pasajeros" json:"pasajeros"`
	HotelNombre *string `db:"hotel_nombre" json:"hotel_nombre"`
	HotelManual *string `db:"hotel_manual" json:"hotel_manual"`

	LlegadaFecha         *string `db:"llegada_fecha" json:"llegada_fecha"`
	LlegadaHora          *string `db:"llegada_hora" json:"llegada_hora"`
	LlegadaVuelo         *string `db:"llegada_vuelo" json:"llegada_vuelo"`
	LlegadaChofer        *string `db:"llegada_chofer" json:"llegada_chofer"`
	LlegadaSubchofer     *string `db:"llegada_subchofer" json:"llegada_subchofer"`
	LlegadaNotaChoferes  *string `db:"llegada_nota_choferes" json:"llegada_nota_choferes"`
	LlegadaNotasInternas *string `db:"llegada_notas_internas" json:"llegada_notas_internas"`

	SalidaFecha         *string `db:"salida_fecha" json:"salida_fecha"`
	SalidaHora          *string `db:"salida_hora" json:"salida_hora"`
	SalidaVuelo         *string `db:"salida_vuelo" json:"salida_vuelo"`
	SalidaChofer        *string `db:"salida_chofer" json:"salida_chofer"`
	SalidaSubchofer     *string `db:"salida_subchofer" json:"salida_subchofer"`
	SalidaNotaChoferes  *string `db:"salida_nota_choferes" json:"salida_nota_choferes"`
	SalidaNotasInternas *string `db:"salida_notas_internas" json:"salida_notas_internas"`

	MetodoPago        *string `db:"metodo_pago" json:"metodo_pago"`
	Subtotal          float64 `db:"subtotal" json:"subtotal"`
	CargosAdicionales float64 `db:"cargos_adicionales" json:"cargos_adicionales"`
	Impuestos         float64 `db:"impuestos" json:"impuestos"`
	Descuentos        float64 `db:"descuentos" json:"descuentos"`
	Total             float64 `db:"total" json:"total"`

	PrivacyShowEmail      *string `db:"privacy_show_email" json:"privacy_show_email"`
	PrivacyShowPhone      *string `db:"privacy_show_phone" json:"privacy_show_phone"`
	PrivacyShowFinanciero *string `db:"privacy_show_financiero" json:"privacy_show_financiero"`

	RawData string `db:"raw_data" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Leg identifies which half of a transfer a Viaje covers.
type Leg string

const (
	LegArrival   Leg = "arrival"
	LegDeparture Leg = "departure"
)

// Tipo values as shown to staff.
const (
	TipoLlegada = "llegada"
	TipoSalida  = "salida"
)

// DepartureIndexOffset is added to a line item index to address the departure
// leg of a round trip in legacy meta keys.
const DepartureIndexOffset = 1000

// ViajeStatusPending is the status of a freshly derived trip.
const ViajeStatusPending = "pendiente"

// TripDescriptor is one trip derived from an order line item.
type TripDescriptor struct {
	LineItem  int
	Leg       Leg
	ItemIndex int
	Tipo      string
	Fecha     string
	Hora      *string
	Vuelo     *string
	Pax       int
	Hotel     *string
}

// Viaje is a schedulable trip row. Its natural key is (reserva_id, line_item, leg).
type Viaje struct {
	ID        int64  `db:"id" json:"id"`
	ReservaID int64  `db:"reserva_id" json:"reserva_id"`
	LineItem  int    `db:"line_item" json:"line_item"`
	Leg       Leg    `db:"leg" json:"leg"`
	ItemIndex int    `db:"item_index" json:"item_index"`
	Tipo      string `db:"tipo" json:"tipo"`

	Fecha string  `db:"fecha" json:"fecha"`
	Hora  *string `db:"hora" json:"hora"`
	Vuelo *string `db:"vuelo" json:"vuelo"`
	Pax   int     `db:"pax" json:"pax"`
	Hotel *string `db:"hotel" json:"hotel"`

	Chofer        *string `db:"chofer" json:"chofer"`
	Subchofer     *string `db:"subchofer" json:"subchofer"`
	NotaChoferes  *string `db:"nota_choferes" json:"nota_choferes"`
	NotasInternas *string `db:"notas_internas" json:"notas_internas"`
	Status        string  `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Detached reports whether the order no longer carries this leg. Such a viaje
// keeps its local data but has no upstream metadata to write back to.
func (v *Viaje) Detached() bool {
	return v.ItemIndex < 0
}

// ViajeWithReserva is a Viaje joined with the contact fields of its Reserva.
type ViajeWithReserva struct {
	Viaje
	ClienteNombre   *string `db:"cliente_nombre" json:"cliente_nombre"`
	ClienteEmail    *string `db:"cliente_email" json:"cliente_email"`
	ClienteTelefono *string `db:"cliente_telefono" json:"cliente_telefono"`
	ReservaStatus   *string `db:"reserva_status" json:"reserva_status"`
}
