package mapping

import (
	"testing"

	"liberia/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLookupPrefersOrderLevel(t *testing.T) {
	o := &models.WooOrder{
		MetaData: []models.WooMeta{meta("arrival_date", "02/10/2026")},
		LineItems: []models.WooLineItem{{MetaData: []models.WooMeta{
			meta(KeyArrivalDate, "03/01/2026"),
		}}},
	}

	v, ok := NewLookup(o).Find(KeyArrivalDate)
	assert.True(t, ok)
	assert.Equal(t, "02/10/2026", v)
}

func TestLookupMatchesDisplayKeyOnlyOnLineItem(t *testing.T) {
	o := &models.WooOrder{
		MetaData: []models.WooMeta{{Key: "_x", DisplayKey: "Passengers", Value: "9"}},
		LineItems: []models.WooLineItem{{MetaData: []models.WooMeta{
			{Key: "pa_pax", DisplayKey: "Passengers", Value: float64(4)},
		}}},
	}

	v, ok := NewLookup(o).Find("passengers")
	assert.True(t, ok)
	assert.Equal(t, "4", v)
}

func TestLookupMissingKey(t *testing.T) {
	o := &models.WooOrder{}
	_, ok := NewLookup(o).Find(KeyArrivalDate)
	assert.False(t, ok)
	assert.Equal(t, "", NewLookup(o).Get("- - -"))
}

func TestItemLookupInheritance(t *testing.T) {
	o := &models.WooOrder{
		MetaData: []models.WooMeta{
			meta(KeyTripType, "Round Trip"),
			meta(KeyArrivalDate, "02/10/2026"),
		},
		LineItems: []models.WooLineItem{{}, {}},
	}

	first := NewItemLookup(o, 0)
	assert.Equal(t, "02/10/2026", first.Get(KeyArrivalDate))

	second := NewItemLookup(o, 1)
	assert.Equal(t, "Round Trip", second.Get(KeyTripType))
	_, ok := second.Find(KeyArrivalDate)
	assert.False(t, ok)
}

func TestFirstItemResolvesLikeOrderLookup(t *testing.T) {
	o := &models.WooOrder{
		MetaData: []models.WooMeta{meta(KeyArrivalDate, "02/10/2026")},
		LineItems: []models.WooLineItem{
			{MetaData: []models.WooMeta{
				meta(KeyArrivalDate, "02/11/2026"),
				meta(KeyPassengers, "4"),
			}},
			{MetaData: []models.WooMeta{meta(KeyArrivalDate, "03/01/2026")}},
		},
	}

	order := NewLookup(o)
	first := NewItemLookup(o, 0)
	for _, key := range []string{KeyArrivalDate, KeyPassengers, KeyDepartureDate} {
		want, wantOK := order.Find(key)
		got, ok := first.Find(key)
		assert.Equal(t, wantOK, ok, key)
		assert.Equal(t, want, got, key)
	}
	assert.Equal(t, "02/10/2026", first.Get(KeyArrivalDate))

	assert.Equal(t, "03/01/2026", NewItemLookup(o, 1).Get(KeyArrivalDate))
}
