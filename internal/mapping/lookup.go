// Package mapping turns upstream order documents into local reservas and
// viajes and projects them back into the order shape the frontend reads.
// Everything here is pure: no I/O, no clock.
package mapping

import "liberia/internal/models"

// NormalizeKey lowercases k and drops every character outside [a-z0-9], so
// "- Arrival Date", "arrival_date" and "ArrivalDate" compare equal.
func NormalizeKey(k string) string {
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		}
	}
	return string(out)
}

func findMeta(entries []models.WooMeta, want string, matchDisplay bool) (string, bool) {
	for _, m := range entries {
		if NormalizeKey(m.Key) == want {
			return m.StringValue(), true
		}
		if matchDisplay && m.DisplayKey != "" && NormalizeKey(m.DisplayKey) == want {
			return m.StringValue(), true
		}
	}
	return "", false
}

// Lookup resolves a metadata key against an order: order-level entries by
// key first, then the first line item's entries by key or display key.
type Lookup struct {
	order []models.WooMeta
	item  []models.WooMeta
}

func NewLookup(o *models.WooOrder) Lookup {
	l := Lookup{order: o.MetaData}
	if len(o.LineItems) > 0 {
		l.item = o.LineItems[0].MetaData
	}
	return l
}

// Find returns the first matching value. A missing key yields ("", false).
func (l Lookup) Find(key string) (string, bool) {
	want := NormalizeKey(key)
	if want == "" {
		return "", false
	}
	if v, ok := findMeta(l.order, want, false); ok {
		return v, true
	}
	return findMeta(l.item, want, true)
}

// Get is Find without the presence flag.
func (l Lookup) Get(key string) string {
	v, _ := l.Find(key)
	return v
}

// ItemLookup resolves keys for one line item. The first line item resolves
// exactly as Lookup does, so the reserva columns and its viajes read the same
// value. Later items use their own entries and inherit only the trip type
// from the order.
type ItemLookup struct {
	item    []models.WooMeta
	order   []models.WooMeta
	inherit bool
}

func NewItemLookup(o *models.WooOrder, index int) ItemLookup {
	l := ItemLookup{order: o.MetaData, inherit: index == 0}
	if index >= 0 && index < len(o.LineItems) {
		l.item = o.LineItems[index].MetaData
	}
	return l
}

func (l ItemLookup) Find(key string) (string, bool) {
	if l.inherit {
		return Lookup{order: l.order, item: l.item}.Find(key)
	}
	want := NormalizeKey(key)
	if want == "" {
		return "", false
	}
	if v, ok := findMeta(l.item, want, true); ok {
		return v, true
	}
	if want != tripTypeKey {
		return "", false
	}
	return findMeta(l.order, want, false)
}

func (l ItemLookup) Get(key string) string {
	v, _ := l.Find(key)
	return v
}

var tripTypeKey = NormalizeKey(KeyTripType)
