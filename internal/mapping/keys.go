package mapping

import (
	"strconv"

	"liberia/internal/models"
)

// Metadata keys written by the booking form and by staff tooling.
const (
	KeyTripType        = "- Type of Trip"
	KeyPassengers      = "Passengers"
	KeyArrivalDate     = "- Arrival Date"
	KeyArrivalTime     = "- Arrival Time"
	KeyArrivalFlight   = "- Arrival Flight Number"
	KeyDepartureDate   = "- Departure Date"
	KeyPickupTime      = "- Pick-up Time at Hotel"
	KeyDepartureFlight = "- Departure Flight Number"
	KeyHotel           = "Hotel"

	KeyArrivalDriver         = "chofer_llegada"
	KeyArrivalSubdriver      = "subchofer_llegada"
	KeyArrivalDriverNote     = "nota_choferes_llegada"
	KeyArrivalInternalNote   = "notas_internas_llegada"
	KeyDepartureDriver       = "chofer_salida"
	KeyDepartureSubdriver    = "subchofer_salida"
	KeyDepartureDriverNote   = "nota_choferes_ida"
	KeyDepartureInternalNote = "notas_internas_salida"

	KeyArrivalStatus   = "status_llegada"
	KeyDepartureStatus = "status_salida"

	KeyPrivacyEmail      = "privacy_show_email"
	KeyPrivacyPhone      = "privacy_show_phone"
	KeyPrivacyFinanciero = "privacy_show_financiero"

	// KeyHotelManual has no upstream counterpart.
	KeyHotelManual = "hotel_manual"
)

// Fallback keys for the street address, in priority order.
var addressMetaKeys = []string{
	"_shipping_address_1",
	"_billing_address_1",
	"shipping_address_1",
	"billing_address_1",
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindDate
	kindTime
	kindCount
)

// metaField ties one metadata key to one reserva column. The mapper, the
// projector and the edit path all walk this table.
type metaField struct {
	key    string
	column string
	kind   fieldKind
	local  bool
	ref    func(r *models.Reserva) **string
}


var metaFields = []metaField{
	{key: KeyTripType, column: "tipo_viaje", kind: kindText, ref: func(r *models.Reserva) **string { return &r.TipoViaje }},
	{key: KeyPassengers, column: "pasajeros", kind: kindCount},
	{key: KeyArrivalDate, column: "llegada_fecha", kind: kindDate, ref: func(r *models.Reserva) **string { return &r.LlegadaFecha }},
	{key: KeyArrivalTime, column: "llegada_hora", kind: kindTime, ref: func(r *models.Reserva) **string { return &r.LlegadaHora }},
	{key: KeyArrivalFlight, column: "llegada_vuelo", ref: func(r *models.Reserva) **string { return &r.LlegadaVuelo }},
	{key: KeyArrivalDriver, column: "llegada_chofer", ref: func(r *models.Reserva) **string { return &r.LlegadaChofer }},
	{key: KeyArrivalSubdriver, column: "llegada_subchofer", ref: func(r *models.Reserva) **string { return &r.LlegadaSubchofer }},
	{key: KeyArrivalDriverNote, column: "llegada_nota_choferes", ref: func(r *models.Reserva) **string { return &r.LlegadaNotaChoferes }},
	{key: KeyArrivalInternalNote, column: "llegada_notas_internas", ref: func(r *models.Reserva) **string { return &r.LlegadaNotasInternas }},
	{key: KeyDepartureDate, column: "salida_fecha", kind: kindDate, ref: func(r *models.Reserva) **string { return &r.SalidaFecha }},
	{key: KeyPickupTime, column: "salida_hora", kind: kindTime, ref: func(r *models.Reserva) **string { return &r.SalidaHora }},
	{key: KeyDepartureFlight, column: "salida_vuelo", ref: func(r *models.Reserva) **string { return &r.SalidaVuelo }},
	{key: KeyDepartureDriver, column: "salida_chofer", ref: func(r *models.Reserva) **string { return &r.SalidaChofer }},
	{key: KeyDepartureSubdriver, column: "salida_subchofer", ref: func(r *models.Reserva) **string { return &r.SalidaSubchofer }},
	{key: KeyDepartureDriverNote, column: "salida_nota_choferes", ref: func(r *models.Reserva) **string { return &r.SalidaNotaChoferes }},
	{key: KeyDepartureInternalNote, column: "salida_notas_internas", ref: func(r *models.Reserva) **string { return &r.SalidaNotasInternas }},
	{key: KeyPrivacyEmail, column: "privacy_show_email", ref: func(r *models.Reserva) **string { return &r.PrivacyShowEmail }},
	{key: KeyPrivacyPhone, column: "privacy_show_phone", ref: func(r *models.Reserva) **string { return &r.PrivacyShowPhone }},
	{key: KeyPrivacyFinanciero, column: "privacy_show_financiero", ref: func(r *models.Reserva) **string { return &r.PrivacyShowFinanciero }},
	{key: KeyHotelManual, column: "hotel_manual", local: true, ref: func(r *models.Reserva) **string { return &r.HotelManual }},
}

var metaFieldsByKey = func() map[string]metaField {
	m := make(map[string]metaField, len(metaFields))
	for _, f := range metaFields {
		m[NormalizeKey(f.key)] = f
	}
	return m
}()

// normalizeValue applies the column's canonical form. The flag is false when
// the value cannot be stored (an unparseable date or time).
func (f metaField) normalizeValue(raw string) (string, bool) {
	switch f.kind {
	case kindDate:
		return ParseDate(raw)
	case kindTime:
		return ParseTime(raw)
	case kindCount:
		return strconv.Itoa(ParseCount(raw, 1)), true
	default:
		return raw, true
	}
}

// displayValue renders the stored column back into metadata form.
func (f metaField) displayValue(stored string) string {
	if f.kind == kindTime {
		return DisplayTime(stored)
	}
	return stored
}
