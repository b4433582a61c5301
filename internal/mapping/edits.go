package mapping

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "liberia/internal/errors"
	"liberia/internal/models"
)

// ReservaEdit is a staff edit split into the local column writes and the body
// that pushes the same change upstream.
type ReservaEdit struct {
	Assignments []models.Assignment
	Push        models.OrderUpdate
}

// ReservaEditFrom translates an order-shaped edit. current supplies the half
// of the client name the edit leaves untouched. Unknown metadata keys are
// ignored; local-only keys are written but never pushed.
func ReservaEditFrom(current *models.Reserva, req *models.ReservaUpdateRequest) (ReservaEdit, error) {
	var edit ReservaEdit

	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status := strings.TrimSpace(*req.Status)
		edit.Assignments = append(edit.Assignments, models.Assignment{Column: "status", Value: status})
		edit.Push.Status = status
	}

	if b := req.Billing; b != nil {
		if b.FirstName != nil || b.LastName != nil {
			first, last := splitName(deref(current.ClienteNombre))
			if b.FirstName != nil {
				first = *b.FirstName
			}
			if b.LastName != nil {
				last = *b.LastName
			}
			edit.Assignments = append(edit.Assignments, models.Assignment{Column: "cliente_nombre", Value: optional(first + " " + last)})
		}
		for _, pair := range []struct {
			column string
			value  *string
		}{
			{"cliente_email", b.Email},
			{"cliente_telefono", b.Phone},
			{"cliente_pais", b.Country},
			{"cliente_direccion", b.Address1},
		} {
			if pair.value != nil {
				edit.Assignments = append(edit.Assignments, models.Assignment{Column: pair.column, Value: optional(*pair.value)})
			}
		}
		edit.Push.Billing = b
	}

	for _, m := range req.MetaData {
		f, ok := metaFieldsByKey[NormalizeKey(m.Key)]
		if !ok {
			continue
		}
		raw := strings.TrimSpace(m.StringValue())

		var value any
		if f.kind == kindCount {
			value = ParseCount(raw, 1)
		} else if raw == "" {
			value = (*string)(nil)
		} else {
			norm, ok := f.normalizeValue(raw)
			if !ok {
				return ReservaEdit{}, fmt.Errorf("%w: %s has an unreadable value %q", apperrors.ErrInvalidInput, f.key, raw)
			}
			value = norm
		}
		edit.Assignments = append(edit.Assignments, models.Assignment{Column: f.column, Value: value})

		if !f.local {
			edit.Push.MetaData = append(edit.Push.MetaData, models.WooMeta{Key: f.key, Value: raw})
		}
	}

	if len(edit.Assignments) == 0 {
		return ReservaEdit{}, apperrors.ErrNothingToUpdate
	}
	return edit, nil
}

// ViajeEdit is the viaje counterpart of ReservaEdit.
type ViajeEdit struct {
	Assignments []models.Assignment
	Push        models.OrderUpdate
}

// ViajeEditFrom validates a viaje edit and builds its upstream meta entries.
// Each changed field is pushed as viaje_{order}_{item_index}_{field}; driver
// and status changes also refresh the legacy per-leg keys. Detached viajes
// are edited locally only.
func ViajeEditFrom(v *models.Viaje, req *models.ViajeUpdateRequest) (ViajeEdit, error) {
	var edit ViajeEdit

	set := func(column string, stored any, pushed string) {
		edit.Assignments = append(edit.Assignments, models.Assignment{Column: column, Value: stored})
		edit.Push.MetaData = append(edit.Push.MetaData, models.WooMeta{
			Key:   fmt.Sprintf("viaje_%d_%d_%s", v.ReservaID, v.ItemIndex, column),
			Value: pushed,
		})
	}

	if req.Fecha != nil {
		fecha, ok := ParseDate(*req.Fecha)
		if !ok {
			return ViajeEdit{}, fmt.Errorf("%w: fecha %q", apperrors.ErrInvalidInput, *req.Fecha)
		}
		set("fecha", fecha, fecha)
	}
	if req.Hora != nil {
		if strings.TrimSpace(*req.Hora) == "" {
			set("hora", (*string)(nil), "")
		} else {
			hora, ok := ParseTime(*req.Hora)
			if !ok {
				return ViajeEdit{}, fmt.Errorf("%w: hora %q", apperrors.ErrInvalidInput, *req.Hora)
			}
			set("hora", hora, DisplayTime(hora))
		}
	}
	if req.Pax != nil {
		if *req.Pax < 1 {
			return ViajeEdit{}, fmt.Errorf("%w: pax must be positive", apperrors.ErrInvalidInput)
		}
		set("pax", *req.Pax, strconv.Itoa(*req.Pax))
	}

	for _, field := range []struct {
		column string
		value  *string
	}{
		{"vuelo", req.Vuelo},
		{"hotel", req.Hotel},
		{"chofer", req.Chofer},
		{"subchofer", req.Subchofer},
		{"nota_choferes", req.NotaChoferes},
		{"notas_internas", req.NotasInternas},
	} {
		if field.value != nil {
			set(field.column, optional(*field.value), strings.TrimSpace(*field.value))
		}
	}

	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if status == "" {
			return ViajeEdit{}, fmt.Errorf("%w: status cannot be empty", apperrors.ErrInvalidInput)
		}
		set("status", status, status)
	}

	if len(edit.Assignments) == 0 {
		return ViajeEdit{}, apperrors.ErrNothingToUpdate
	}
	if v.Detached() {
		edit.Push = models.OrderUpdate{}
		return edit, nil
	}

	driverKey, statusKey := KeyArrivalDriver, KeyArrivalStatus
	if v.Leg == models.LegDeparture {
		driverKey, statusKey = KeyDepartureDriver, KeyDepartureStatus
	}
	if req.Chofer != nil {
		edit.Push.MetaData = append(edit.Push.MetaData, models.WooMeta{Key: driverKey, Value: strings.TrimSpace(*req.Chofer)})
	}
	if req.Status != nil {
		edit.Push.MetaData = append(edit.Push.MetaData, models.WooMeta{Key: statusKey, Value: strings.TrimSpace(*req.Status)})
	}
	return edit, nil
}
