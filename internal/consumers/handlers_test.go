package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"liberia/internal/database"
	"liberia/internal/models"
	"liberia/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	indexed []int64
	removed []int64
	err     error
}

func (f *fakeIndex) IndexReserva(_ context.Context, r *models.Reserva) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, r.ID)
	return nil
}

func (f *fakeIndex) DeleteReserva(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, id)
	return nil
}

func newTestHandlers(t *testing.T) (*Handlers, *fakeIndex, *repository.Repositories) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "consumers.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	repos := repository.NewRepositories(db)
	index := &fakeIndex{}
	return NewHandlers(repos, index), index, repos
}

func event(t *testing.T, v interface{}) []byte {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestReindexLoadsFromStore(t *testing.T) {
	h, index, repos := newTestHandlers(t)
	ctx := context.Background()
	require.NoError(t, repos.Reservas.Upsert(ctx, &models.Reserva{ID: 31, Status: "processing", RawData: "{}"}))

	assert.True(t, h.reindex(ctx, event(t, models.ReservaSyncedEvent{ReservaID: 31})))
	assert.Equal(t, []int64{31}, index.indexed)
}

func TestReindexAcksMissingReserva(t *testing.T) {
	h, index, _ := newTestHandlers(t)

	assert.True(t, h.reindex(context.Background(), event(t, models.ReservaSyncedEvent{ReservaID: 404})))
	assert.Empty(t, index.indexed)
}

func TestReindexLeavesMessageOnIndexFailure(t *testing.T) {
	h, index, repos := newTestHandlers(t)
	ctx := context.Background()
	require.NoError(t, repos.Reservas.Upsert(ctx, &models.Reserva{ID: 32, Status: "processing", RawData: "{}"}))
	index.err = errors.New("cluster red")

	assert.False(t, h.reindex(ctx, event(t, models.ReservaSyncedEvent{ReservaID: 32})))
}

func TestUnindex(t *testing.T) {
	h, index, _ := newTestHandlers(t)

	assert.True(t, h.unindex(context.Background(), event(t, models.ReservaDeletedEvent{ReservaID: 8})))
	assert.Equal(t, []int64{8}, index.removed)

	assert.True(t, h.unindex(context.Background(), []byte("garbage")))
}
