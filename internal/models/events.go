package models

import "time"

// Subjects published on the event bus.
const (
	EventReservaSynced  = "reserva.synced"
	EventReservaDeleted = "reserva.deleted"
	EventPushBackFailed = "pushback.failed"
)

// Sources of a reconciliation write.
const (
	SourcePull    = "pull"
	SourceWebhook = "webhook"
	SourceRefresh = "refresh"
	SourceLocal   = "local"
)

type ReservaSyncedEvent struct {
	ReservaID int64     `json:"reserva_id"`
	Status    string    `json:"status"`
	Viajes    int       `json:"viajes"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

type ReservaDeletedEvent struct {
	ReservaID int64     `json:"reserva_id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// PushBackFailedEvent carries enough to retry the upstream write later.
type PushBackFailedEvent struct {
	OrderID   int64       `json:"order_id"`
	Update    OrderUpdate `json:"update"`
	Error     string      `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}
