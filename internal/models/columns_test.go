package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dbColumns(v any) []string {
	var cols []string
	t := reflect.TypeOf(v)
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("db"); tag != "" && tag != "-" {
			cols = append(cols, tag)
		}
	}
	return cols
}

func assertPartitioned(t *testing.T, set ColumnSet, columns []string) {
	t.Helper()
	seen := map[string]int{}
	for _, group := range [][]string{set.Key, set.Identity, set.Derived, set.Upstream, set.Local, BookkeepingColumns} {
		for _, col := range group {
			seen[col]++
		}
	}
	for _, col := range columns {
		if col == "id" && set.Table == "viajes" {
			continue
		}
		assert.Equalf(t, 1, seen[col], "column %s.%s must belong to exactly one ownership set", set.Table, col)
	}
}

func TestReservaColumnsPartitionEveryField(t *testing.T) {
	assertPartitioned(t, ReservaColumns, dbColumns(Reserva{}))
}

func TestViajeColumnsPartitionEveryField(t *testing.T) {
	assertPartitioned(t, ViajeColumns, dbColumns(Viaje{}))
}

func TestViajeSyncNeverTouchesDriverAssignment(t *testing.T) {
	for _, col := range []string{"chofer", "subchofer", "nota_choferes", "notas_internas", "status"} {
		assert.True(t, ViajeColumns.IsLocal(col))
		assert.NotContains(t, ViajeColumns.InsertColumns(), col)
	}
}

func TestViajeItemIndexIsResyncedButFixedForStaff(t *testing.T) {
	assert.Contains(t, ViajeColumns.SyncedColumns(), "item_index")
	assert.Contains(t, ViajeColumns.InsertColumns(), "item_index")
	assert.NotContains(t, ViajeColumns.SyncedColumns(), "tipo")
	assert.False(t, ViajeColumns.IsLocal("item_index"))
}

func TestAmountDecoding(t *testing.T) {
	var doc struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	err := jsonUnmarshal(`{"a":"12.50","b":7,"c":null}`, &doc)
	assert.NoError(t, err)
	assert.Equal(t, "12.5", doc.A.Decimal().String())
	assert.Equal(t, "7", doc.B.Decimal().String())
	assert.True(t, doc.C.Decimal().IsZero())
	assert.Equal(t, Amount("3.10"), AmountFromFloat(3.1))
}

func TestMetaStringValue(t *testing.T) {
	assert.Equal(t, "3", WooMeta{Value: float64(3)}.StringValue())
	assert.Equal(t, "x", WooMeta{Value: "x"}.StringValue())
	assert.Equal(t, "", WooMeta{Value: nil}.StringValue())
	assert.Equal(t, `{"a":1}`, WooMeta{Value: map[string]any{"a": 1}}.StringValue())
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
