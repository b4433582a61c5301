package service

import (
	"context"
	"errors"
	"testing"

	apperrors "liberia/internal/errors"
	"liberia/internal/mapping"
	"liberia/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func seed(t *testing.T, f *fixture, id int64) {
	t.Helper()
	_, err := f.svc.Sync.SaveOrder(context.Background(), roundTripOrder(id, "processing"), models.SourceWebhook)
	require.NoError(t, err)
}

func TestReservaUpdatePushesUpstreamOwnedChanges(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 900)

	resp, err := f.svc.Reservas.Update(context.Background(), 900, &models.ReservaUpdateRequest{
		Status: strp("completed"),
		MetaData: []models.WooMeta{
			{Key: mapping.KeyArrivalFlight, Value: "AA 100"},
			{Key: mapping.KeyHotelManual, Value: "Riu Guanacaste"},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.WooSync.Attempted)
	assert.True(t, resp.WooSync.Success)
	assert.Equal(t, "completed", resp.Reserva.Status)

	require.Len(t, f.woo.updates, 1)
	push := f.woo.updates[0]
	assert.Equal(t, "completed", push.Status)
	for _, m := range push.MetaData {
		assert.NotEqual(t, mapping.KeyHotelManual, m.Key)
	}

	stored, err := f.repos.Reservas.GetByID(context.Background(), 900)
	require.NoError(t, err)
	require.NotNil(t, stored.HotelManual)
	assert.Equal(t, "Riu Guanacaste", *stored.HotelManual)
}

func TestReservaUpdateKeepsLocalWriteWhenPushFails(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 901)
	f.woo.updateErr = errors.New("gateway timeout")

	resp, err := f.svc.Reservas.Update(context.Background(), 901, &models.ReservaUpdateRequest{Status: strp("on-hold")})
	require.NoError(t, err)
	assert.True(t, resp.WooSync.Attempted)
	assert.False(t, resp.WooSync.Success)
	assert.Contains(t, resp.WooSync.Error, "gateway timeout")

	stored, err := f.repos.Reservas.GetByID(context.Background(), 901)
	require.NoError(t, err)
	assert.Equal(t, "on-hold", stored.Status)
	assert.Equal(t, 1, f.bus.count(models.EventPushBackFailed))
}

func TestReservaUpdateLocalOnlySkipsPush(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 902)

	resp, err := f.svc.Reservas.Update(context.Background(), 902, &models.ReservaUpdateRequest{
		MetaData: []models.WooMeta{{Key: mapping.KeyHotelManual, Value: "Casa Conde"}},
	})
	require.NoError(t, err)
	assert.False(t, resp.WooSync.Attempted)
	assert.Empty(t, f.woo.updates)
}

func TestReservaUpdateUnknownID(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Reservas.Update(context.Background(), 1, &models.ReservaUpdateRequest{Status: strp("completed")})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestReservaDeleteUpstream(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 903)

	require.NoError(t, f.svc.Reservas.Delete(context.Background(), 903, true))
	assert.Equal(t, []int64{903}, f.woo.deleted)
	assert.Equal(t, 0, f.reservaCount(t))

	err := f.svc.Reservas.Delete(context.Background(), 903, false)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestReservaNewSince(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 904)

	resp, err := f.svc.Reservas.NewSince(context.Background(), "2026-01-01T00:00:00")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Latest, 1)
	assert.Equal(t, int64(904), resp.Latest[0].ID)
	assert.NotNil(t, resp.LastSync)

	resp, err = f.svc.Reservas.NewSince(context.Background(), "2026-02-01T00:00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
}

func TestViajeUpdatePushesLegKeys(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 905)
	ctx := context.Background()

	viajes, err := f.svc.Viajes.ListByReserva(ctx, 905)
	require.NoError(t, err)
	var arrival models.ViajeWithReserva
	for _, v := range viajes {
		if v.Leg == models.LegArrival {
			arrival = v
		}
	}
	require.NotZero(t, arrival.ID)

	resp, err := f.svc.Viajes.Update(ctx, arrival.ID, &models.ViajeUpdateRequest{Chofer: strp("Luis")})
	require.NoError(t, err)
	assert.True(t, resp.WooSync.Success)
	require.NotNil(t, resp.Viaje.Chofer)
	assert.Equal(t, "Luis", *resp.Viaje.Chofer)

	require.Len(t, f.woo.updates, 1)
	keys := map[string]any{}
	for _, m := range f.woo.updates[0].MetaData {
		keys[m.Key] = m.Value
	}
	assert.Equal(t, "Luis", keys["viaje_905_0_chofer"])
	assert.Equal(t, "Luis", keys[mapping.KeyArrivalDriver])
}

func TestViajeListByUnknownReserva(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.svc.Viajes.ListByReserva(context.Background(), 12345)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = f.svc.Viajes.Get(context.Background(), 12345)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestLocalEditsRepublishReserva(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 906)
	ctx := context.Background()
	synced := f.bus.count(models.EventReservaSynced)

	_, err := f.svc.Reservas.Update(ctx, 906, &models.ReservaUpdateRequest{
		MetaData: []models.WooMeta{{Key: mapping.KeyHotelManual, Value: "Casa Conde"}},
	})
	require.NoError(t, err)
	assert.Equal(t, synced+1, f.bus.count(models.EventReservaSynced))

	viajes, err := f.svc.Viajes.ListByReserva(ctx, 906)
	require.NoError(t, err)
	require.Len(t, viajes, 2)

	_, err = f.svc.Viajes.Update(ctx, viajes[0].ID, &models.ViajeUpdateRequest{Chofer: strp("Luis")})
	require.NoError(t, err)
	assert.Equal(t, synced+2, f.bus.count(models.EventReservaSynced))

	require.NoError(t, f.svc.Viajes.Delete(ctx, viajes[1].ID))
	assert.Equal(t, synced+3, f.bus.count(models.EventReservaSynced))

	last := f.bus.payloads[len(f.bus.payloads)-1].(models.ReservaSyncedEvent)
	assert.Equal(t, int64(906), last.ReservaID)
	assert.Equal(t, models.SourceLocal, last.Source)
	assert.Equal(t, 1, last.Viajes)
}

func TestFailedEditPublishesNothing(t *testing.T) {
	f := newFixture(t, Options{})
	seed(t, f, 907)
	synced := f.bus.count(models.EventReservaSynced)

	_, err := f.svc.Reservas.Update(context.Background(), 907, &models.ReservaUpdateRequest{})
	require.Error(t, err)
	assert.Equal(t, synced, f.bus.count(models.EventReservaSynced))
}
