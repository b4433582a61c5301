package mapping

import "liberia/internal/models"

func meta(key string, value any) models.WooMeta {
	return models.WooMeta{Key: key, Value: value}
}

func tripOrder(tripType string, extra ...models.WooMeta) *models.WooOrder {
	item := models.WooLineItem{
		Name:     "Hotel Riu Palace",
		Quantity: 1,
		Subtotal: "80.00",
		MetaData: append([]models.WooMeta{meta(KeyTripType, tripType)}, extra...),
	}
	return &models.WooOrder{ID: 77, Status: "processing", LineItems: []models.WooLineItem{item}}
}

func fullOrder() *models.WooOrder {
	return &models.WooOrder{
		ID:          5120,
		Status:      "processing",
		DateCreated: "2026-01-05T10:20:30",
		Billing: models.WooAddress{
			FirstName: "Ana María",
			LastName:  "López",
			Email:     "ana@example.com",
			Phone:     "+506 8888 0000",
			Country:   "CR",
		},
		PaymentMethodTitle: "Credit card",
		LineItems: []models.WooLineItem{
			{
				Name:     "Hotel Riu Palace",
				Quantity: 2,
				Subtotal: "50.00",
				MetaData: []models.WooMeta{
					{Key: "pa_type", DisplayKey: "- Type of Trip", Value: "Round Trip"},
					meta(KeyPassengers, "2 adults"),
				},
			},
			{Name: "Extra stop", Quantity: 1, Subtotal: "25.50"},
		},
		FeeLines:    []models.WooFeeLine{{Name: "Night fee", Total: "10.00"}},
		TaxLines:    []models.WooTaxLine{{Label: "IVA", TaxTotal: "5.25"}},
		CouponLines: []models.WooCouponLine{{Code: "PROMO", Discount: "3.00"}},
		Total:       "87.75",
		MetaData: []models.WooMeta{
			meta(KeyArrivalDate, "02/10/2026"),
			meta(KeyArrivalTime, "14:30"),
			meta(KeyArrivalFlight, "AA 1234"),
			meta(KeyDepartureDate, "13/02/2026"),
			meta(KeyPickupTime, "9:15 AM"),
			meta(KeyDepartureFlight, "UA 99"),
			meta(KeyArrivalDriver, "Carlos"),
			meta(KeyDepartureInternalNote, "VIP"),
			meta(KeyPrivacyEmail, "1"),
			meta("_billing_address_1", "Playa Hermosa 12"),
		},
	}
}
