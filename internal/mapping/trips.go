package mapping

import (
	"strings"

	"liberia/internal/models"
)

// DecomposeOptions tunes how the trip type and the dates are reconciled.
type DecomposeOptions struct {
	// TypeAuthoritative stops a resolvable date from adding a leg that a
	// non-empty trip type excludes. By default the dates win.
	TypeAuthoritative bool
}

// DecomposeItem derives zero, one or two trips from line item index.
//
// The arrival leg keeps item_index N. The departure leg uses N+1000 when the
// same item also produced an arrival and N otherwise. A leg without a
// resolvable date is never emitted.
func DecomposeItem(o *models.WooOrder, index int, opts DecomposeOptions) []models.TripDescriptor {
	if index < 0 || index >= len(o.LineItems) {
		return nil
	}
	item := o.LineItems[index]
	l := NewItemLookup(o, index)

	tripType := NormalizeKey(l.Get(KeyTripType))
	roundTrip := strings.Contains(tripType, "roundtrip")
	hasArrival := roundTrip || strings.Contains(tripType, "hotel")
	hasDeparture := roundTrip || strings.Contains(tripType, "airport")

	arrivalDate, arrivalOK := ParseDate(l.Get(KeyArrivalDate))
	departureDate, departureOK := ParseDate(l.Get(KeyDepartureDate))

	if !opts.TypeAuthoritative || tripType == "" {
		hasArrival = hasArrival || arrivalOK
		hasDeparture = hasDeparture || departureOK
	}

	pax := ParseCount(l.Get(KeyPassengers), 1)
	hotel := optional(item.Name)
	if hotel == nil {
		hotel = optional(l.Get(KeyHotel))
	}

	var trips []models.TripDescriptor
	if hasArrival && arrivalOK {
		trips = append(trips, models.TripDescriptor{
			LineItem:  index,
			Leg:       models.LegArrival,
			ItemIndex: index,
			Tipo:      models.TipoLlegada,
			Fecha:     arrivalDate,
			Hora:      optionalTime(l.Get(KeyArrivalTime)),
			Vuelo:     optional(l.Get(KeyArrivalFlight)),
			Pax:       pax,
			Hotel:     hotel,
		})
	}
	if hasDeparture && departureOK {
		itemIndex := index
		if len(trips) > 0 {
			itemIndex = index + models.DepartureIndexOffset
		}
		trips = append(trips, models.TripDescriptor{
			LineItem:  index,
			Leg:       models.LegDeparture,
			ItemIndex: itemIndex,
			Tipo:      models.TipoSalida,
			Fecha:     departureDate,
			Hora:      optionalTime(l.Get(KeyPickupTime)),
			Vuelo:     optional(l.Get(KeyDepartureFlight)),
			Pax:       pax,
			Hotel:     hotel,
		})
	}
	return trips
}

// Decompose runs DecomposeItem over every line item of the order.
func Decompose(o *models.WooOrder, opts DecomposeOptions) []models.TripDescriptor {
	var trips []models.TripDescriptor
	for i := range o.LineItems {
		trips = append(trips, DecomposeItem(o, i, opts)...)
	}
	return trips
}

// ViajesFor turns descriptors into rows ready to upsert for reservaID.
func ViajesFor(reservaID int64, trips []models.TripDescriptor) []models.Viaje {
	viajes := make([]models.Viaje, 0, len(trips))
	for _, t := range trips {
		viajes = append(viajes, models.Viaje{
			ReservaID: reservaID,
			LineItem:  t.LineItem,
			Leg:       t.Leg,
			ItemIndex: t.ItemIndex,
			Tipo:      t.Tipo,
			Fecha:     t.Fecha,
			Hora:      t.Hora,
			Vuelo:     t.Vuelo,
			Pax:       t.Pax,
			Hotel:     t.Hotel,
			Status:    models.ViajeStatusPending,
		})
	}
	return viajes
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalTime(raw string) *string {
	t, ok := ParseTime(raw)
	if !ok {
		return nil
	}
	return &t
}

func optionalDate(raw string) *string {
	d, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &d
}
