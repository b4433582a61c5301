package mapping

import (
	"encoding/json"
	"strings"

	"liberia/internal/models"

	"github.com/shopspring/decimal"
)

// MapReserva flattens an order into a Reserva. raw is stored verbatim as the
// audit copy; when it is empty the order is re-serialised instead.
func MapReserva(o *models.WooOrder, raw []byte) *models.Reserva {
	l := NewLookup(o)

	r := &models.Reserva{
		ID:               o.ID,
		Status:           o.Status,
		DateCreated:      optional(o.DateCreated),
		ClienteNombre:    optional(o.Billing.FirstName + " " + o.Billing.LastName),
		ClienteEmail:     optional(o.Billing.Email),
		ClienteTelefono:  optional(o.Billing.Phone),
		ClientePais:      optional(o.Billing.Country),
		ClienteDireccion: resolveAddress(o, l),
		Pasajeros:        ParseCount(l.Get(KeyPassengers), 1),
		MetodoPago:       optional(o.PaymentMethodTitle),
	}
	if len(o.LineItems) > 0 {
		r.HotelNombre = optional(o.LineItems[0].Name)
	}

	for _, f := range metaFields {
		if f.local || f.ref == nil {
			continue
		}
		v, ok := l.Find(f.key)
		if !ok {
			continue
		}
		if norm, ok := f.normalizeValue(v); ok {
			*f.ref(r) = optional(norm)
		}
	}

	subtotal := decimal.Zero
	for _, li := range o.LineItems {
		subtotal = subtotal.Add(li.Subtotal.Decimal())
	}
	fees := decimal.Zero
	for _, fl := range o.FeeLines {
		fees = fees.Add(fl.Total.Decimal())
	}
	taxes := decimal.Zero
	for _, tl := range o.TaxLines {
		taxes = taxes.Add(tl.TaxTotal.Decimal())
	}
	discounts := decimal.Zero
	for _, cl := range o.CouponLines {
		discounts = discounts.Add(cl.Discount.Decimal())
	}
	r.Subtotal = subtotal.InexactFloat64()
	r.CargosAdicionales = fees.InexactFloat64()
	r.Impuestos = taxes.InexactFloat64()
	r.Descuentos = discounts.InexactFloat64()
	r.Total = o.Total.Decimal().InexactFloat64()

	if len(raw) > 0 {
		r.RawData = string(raw)
	} else if b, err := json.Marshal(o); err == nil {
		r.RawData = string(b)
	}
	return r
}

// resolveAddress prefers billing, then shipping, then the address meta keys.
func resolveAddress(o *models.WooOrder, l Lookup) *string {
	if v := optional(o.Billing.Address1); v != nil {
		return v
	}
	if v := optional(o.Shipping.Address1); v != nil {
		return v
	}
	for _, key := range addressMetaKeys {
		if v := optional(l.Get(key)); v != nil {
			return v
		}
	}
	return nil
}

// splitName splits a full name into the first word and the rest.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
