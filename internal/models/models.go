package models

import "time"

// ReservaUpdateRequest is the body of PUT /api/reservas/:id. It mirrors the
// projected order shape so the frontend can send back what it received.
type ReservaUpdateRequest struct {
	Status   *string        `json:"status" binding:"omitempty,max=50"`
	Billing  *BillingUpdate `json:"billing"`
	MetaData []WooMeta      `json:"meta_data"`
}

// ViajeUpdateRequest is the body of PUT /api/viajes/:id. The binding tags
// mirror the column sizes of the viajes table.
type ViajeUpdateRequest struct {
	Fecha         *string `json:"fecha" binding:"omitempty,max=32"`
	Hora          *string `json:"hora" binding:"omitempty,max=16"`
	Vuelo         *string `json:"vuelo" binding:"omitempty,max=100"`
	Chofer        *string `json:"chofer" binding:"omitempty,max=100"`
	Subchofer     *string `json:"subchofer" binding:"omitempty,max=100"`
	NotaChoferes  *string `json:"nota_choferes"`
	NotasInternas *string `json:"notas_internas"`
	Status        *string `json:"status" binding:"omitempty,notblank,max=30"`
	Pax           *int    `json:"pax" binding:"omitempty,min=1,max=99"`
	Hotel         *string `json:"hotel" binding:"omitempty,max=255"`
}

// PushResult reports the outcome of writing a local edit back upstream.
type PushResult struct {
	Attempted bool   `json:"attempted"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type ReservaUpdateResponse struct {
	Success bool       `json:"success"`
	Reserva *WooOrder  `json:"reserva"`
	WooSync PushResult `json:"woo_sync"`
}

type ViajeUpdateResponse struct {
	Success bool              `json:"success"`
	Viaje   *ViajeWithReserva `json:"viaje"`
	WooSync PushResult        `json:"woo_sync"`
}

// ReservaSummary is a short row used by the new-bookings poll.
type ReservaSummary struct {
	ID            int64   `db:"id" json:"id"`
	ClienteNombre *string `db:"cliente_nombre" json:"cliente_nombre"`
	DateCreated   *string `db:"date_created" json:"date_created"`
	Status        string  `db:"status" json:"status"`
}

type NewReservasResponse struct {
	Count      int              `json:"count"`
	Latest     []ReservaSummary `json:"latest"`
	ServerTime string           `json:"server_time"`
	LastSync   *time.Time       `json:"last_sync"`
}

// SyncState is the terminal state of a pull sync.
type SyncState string

const (
	SyncDone      SyncState = "done"
	SyncTruncated SyncState = "truncated"
	SyncAborted   SyncState = "aborted"
)

// SyncResult summarises one pull sync. Processed counts orders written
// before the run ended, including on abort.
type SyncResult struct {
	State      SyncState `json:"state"`
	Pages      int       `json:"pages"`
	Processed  int       `json:"processed"`
	Deleted    int       `json:"deleted"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type SyncStatusResponse struct {
	LastSync *time.Time  `json:"last_sync"`
	LastRun  *SyncResult `json:"last_run,omitempty"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int64  `json:"order_id,omitempty"`
	Action  string `json:"action,omitempty"`
}

// ReservaFilter drives the paginated reserva listing.
type ReservaFilter struct {
	Page    int
	PerPage int
	After   string
	OrderBy string
	Order   string
}

// ViajeFilter drives the viaje listing. Empty fields are ignored.
type ViajeFilter struct {
	Fecha      string
	FechaDesde string
	FechaHasta string
	Tipo       string
	Chofer     string
	Status     string
}

// Chofer is one driver name seen on the viajes, with how many viajes carry
// it as driver or sub-driver.
type Chofer struct {
	Nombre string `db:"nombre" json:"nombre"`
	Viajes int    `db:"viajes" json:"viajes"`
}

// ListResult is one page of a listing plus the total row count.
type ListResult[T any] struct {
	Items      []T
	Total      int
	TotalPages int
}

// Assignment is one column write of a staff edit.
type Assignment struct {
	Column string
	Value  any
}
