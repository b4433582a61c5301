package mapping

import (
	"strconv"

	"liberia/internal/models"
)

const defaultLineItemName = "Transfer"

// ProjectReserva rebuilds the order-shaped document the frontend reads from a
// stored Reserva. Only non-empty fields become metadata entries; the privacy
// flags are always present with their defaults applied.
func ProjectReserva(r *models.Reserva) *models.WooOrder {
	first, last := splitName(deref(r.ClienteNombre))
	address := deref(r.ClienteDireccion)

	name := deref(r.HotelNombre)
	if name == "" {
		name = defaultLineItemName
	}

	o := &models.WooOrder{
		ID:          r.ID,
		Status:      r.Status,
		DateCreated: deref(r.DateCreated),
		Billing: models.WooAddress{
			FirstName: first,
			LastName:  last,
			Address1:  address,
			Country:   deref(r.ClientePais),
			Email:     deref(r.ClienteEmail),
			Phone:     deref(r.ClienteTelefono),
		},
		Shipping: models.WooAddress{
			FirstName: first,
			LastName:  last,
			Address1:  address,
		},
		PaymentMethodTitle: deref(r.MetodoPago),
		LineItems: []models.WooLineItem{{
			Name:     name,
			Quantity: r.Pasajeros,
			Subtotal: models.AmountFromFloat(r.Subtotal),
		}},
		FeeLines:    []models.WooFeeLine{},
		TaxLines:    []models.WooTaxLine{},
		CouponLines: []models.WooCouponLine{},
		Total:       models.AmountFromFloat(r.Total),
		MetaData:    projectMeta(r),
	}
	if r.CargosAdicionales > 0 {
		o.FeeLines = append(o.FeeLines, models.WooFeeLine{Name: "Cargos", Total: models.AmountFromFloat(r.CargosAdicionales)})
	}
	if r.Impuestos > 0 {
		o.TaxLines = append(o.TaxLines, models.WooTaxLine{Label: "Impuestos", TaxTotal: models.AmountFromFloat(r.Impuestos)})
	}
	if r.Descuentos > 0 {
		o.CouponLines = append(o.CouponLines, models.WooCouponLine{Code: "Descuento", Discount: models.AmountFromFloat(r.Descuentos)})
	}
	return o
}

func projectMeta(r *models.Reserva) []models.WooMeta {
	meta := make([]models.WooMeta, 0, len(metaFields))
	for _, f := range metaFields {
		var value string
		switch f.key {
		case KeyPassengers:
			if r.Pasajeros > 0 {
				value = strconv.Itoa(r.Pasajeros)
			}
		case KeyPrivacyEmail:
			value = optInFlag(r.PrivacyShowEmail)
		case KeyPrivacyPhone:
			value = optInFlag(r.PrivacyShowPhone)
		case KeyPrivacyFinanciero:
			value = optOutFlag(r.PrivacyShowFinanciero)
		default:
			if f.ref != nil {
				value = f.displayValue(deref(*f.ref(r)))
			}
		}
		if value != "" {
			meta = append(meta, models.WooMeta{Key: f.key, Value: value})
		}
	}
	return meta
}

// optInFlag is "1" only when "1" is stored.
func optInFlag(stored *string) string {
	if stored != nil && *stored == "1" {
		return "1"
	}
	return "0"
}

// optOutFlag is "0" only when "0" is stored.
func optOutFlag(stored *string) string {
	if stored != nil && *stored == "0" {
		return "0"
	}
	return "1"
}
