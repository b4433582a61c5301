package mapping

import (
	"testing"

	"liberia/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func metaValue(o *models.WooOrder, key string) (string, bool) {
	for _, m := range o.MetaData {
		if m.Key == key {
			return m.StringValue(), true
		}
	}
	return "", false
}

func TestProjectPrivacyDefaults(t *testing.T) {
	o := ProjectReserva(&models.Reserva{ID: 1})

	email, _ := metaValue(o, KeyPrivacyEmail)
	phone, _ := metaValue(o, KeyPrivacyPhone)
	fin, _ := metaValue(o, KeyPrivacyFinanciero)
	assert.Equal(t, "0", email)
	assert.Equal(t, "0", phone)
	assert.Equal(t, "1", fin)
}

func TestProjectPrivacyStoredValues(t *testing.T) {
	o := ProjectReserva(&models.Reserva{
		PrivacyShowEmail:      strp("1"),
		PrivacyShowPhone:      strp("yes"),
		PrivacyShowFinanciero: strp("0"),
	})

	email, _ := metaValue(o, KeyPrivacyEmail)
	phone, _ := metaValue(o, KeyPrivacyPhone)
	fin, _ := metaValue(o, KeyPrivacyFinanciero)
	assert.Equal(t, "1", email)
	assert.Equal(t, "0", phone)
	assert.Equal(t, "0", fin)
}

func TestProjectOmitsEmptyFields(t *testing.T) {
	o := ProjectReserva(&models.Reserva{ID: 3, LlegadaHora: strp("07:05:00"), LlegadaVuelo: strp("")})

	hora, ok := metaValue(o, KeyArrivalTime)
	assert.True(t, ok)
	assert.Equal(t, "07:05", hora)

	_, ok = metaValue(o, KeyArrivalFlight)
	assert.False(t, ok)
	_, ok = metaValue(o, KeyPassengers)
	assert.False(t, ok)
	_, ok = metaValue(o, KeyHotelManual)
	assert.False(t, ok)
}

func TestProjectLinesAndTotals(t *testing.T) {
	o := ProjectReserva(&models.Reserva{
		ClienteNombre: strp("Cher"),
		Pasajeros:     4,
		Subtotal:      120,
		Impuestos:     15.6,
		Descuentos:    0,
		Total:         135.6,
		HotelManual:   strp("Casa Azul"),
	})

	assert.Equal(t, "Cher", o.Billing.FirstName)
	assert.Equal(t, "", o.Billing.LastName)
	assert.Equal(t, "", o.Shipping.City)

	require.Len(t, o.LineItems, 1)
	assert.Equal(t, "Transfer", o.LineItems[0].Name)
	assert.Equal(t, 4, o.LineItems[0].Quantity)
	assert.Equal(t, models.Amount("120.00"), o.LineItems[0].Subtotal)

	assert.Empty(t, o.FeeLines)
	require.Len(t, o.TaxLines, 1)
	assert.Equal(t, models.Amount("15.60"), o.TaxLines[0].TaxTotal)
	assert.Empty(t, o.CouponLines)
	assert.NotNil(t, o.CouponLines)
	assert.Equal(t, models.Amount("135.60"), o.Total)

	manual, ok := metaValue(o, KeyHotelManual)
	assert.True(t, ok)
	assert.Equal(t, "Casa Azul", manual)
}

func TestProjectSkipsZeroTaxAndDiscount(t *testing.T) {
	o := ProjectReserva(&models.Reserva{Subtotal: 50, Total: 50})
	assert.Empty(t, o.TaxLines)
	assert.Empty(t, o.CouponLines)
	assert.Empty(t, o.FeeLines)

	o = ProjectReserva(&models.Reserva{Descuentos: 4})
	assert.Empty(t, o.TaxLines)
	require.Len(t, o.CouponLines, 1)
	assert.Equal(t, "Descuento", o.CouponLines[0].Code)
	assert.Equal(t, models.Amount("4.00"), o.CouponLines[0].Discount)
}

func TestProjectFeeLineWhenCharged(t *testing.T) {
	o := ProjectReserva(&models.Reserva{CargosAdicionales: 12.5})
	require.Len(t, o.FeeLines, 1)
	assert.Equal(t, "Cargos", o.FeeLines[0].Name)
	assert.Equal(t, models.Amount("12.50"), o.FeeLines[0].Total)
}
