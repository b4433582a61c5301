package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"liberia/internal/database"
	apperrors "liberia/internal/errors"
	"liberia/internal/external"
	"liberia/internal/mapping"
	"liberia/internal/models"
	"liberia/internal/repository"

	"github.com/stretchr/testify/require"
)

type fakeWoo struct {
	mu           sync.Mutex
	unconfigured bool
	pages        [][]json.RawMessage
	failPage     int
	orders       map[int64][]byte
	updateErr    error
	updates      []models.OrderUpdate
	deleted      []int64
	listed       []external.ListOrdersParams
}

func (f *fakeWoo) Configured() bool { return !f.unconfigured }

func (f *fakeWoo) ListOrders(_ context.Context, p external.ListOrdersParams) (*external.OrderPage, error) {
	f.mu.Lock()
	f.listed = append(f.listed, p)
	f.mu.Unlock()
	if p.Page == f.failPage {
		return nil, fmt.Errorf("%w: connection refused", apperrors.ErrUpstreamUnavailable)
	}
	if p.Page > len(f.pages) {
		return &external.OrderPage{TotalPages: len(f.pages)}, nil
	}
	return &external.OrderPage{Orders: f.pages[p.Page-1], TotalPages: len(f.pages)}, nil
}

func (f *fakeWoo) GetOrder(_ context.Context, id int64) (*models.WooOrder, []byte, error) {
	raw, ok := f.orders[id]
	if !ok {
		return nil, nil, fmt.Errorf("order %d: %w", id, apperrors.ErrNotFound)
	}
	var o models.WooOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, nil, err
	}
	return &o, raw, nil
}

func (f *fakeWoo) UpdateOrder(_ context.Context, _ int64, update models.OrderUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return f.updateErr
}

func (f *fakeWoo) DeleteOrder(_ context.Context, id int64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBus struct {
	mu       sync.Mutex
	subjects []string
	payloads []interface{}
}

func (b *fakeBus) Publish(subject string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subjects = append(b.subjects, subject)
	b.payloads = append(b.payloads, data)
	return nil
}

func (b *fakeBus) count(subject string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

type fixture struct {
	svc   *Services
	repos *repository.Repositories
	woo   *fakeWoo
	bus   *fakeBus
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "svc.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	repos := repository.NewRepositories(db)
	woo := &fakeWoo{orders: map[int64][]byte{}}
	bus := &fakeBus{}
	return &fixture{svc: NewServices(repos, woo, bus, opts), repos: repos, woo: woo, bus: bus}
}

func (f *fixture) reservaCount(t *testing.T) int {
	t.Helper()
	page, err := f.repos.Reservas.List(context.Background(), models.ReservaFilter{})
	require.NoError(t, err)
	return page.Total
}

// roundTripOrder is an order whose first line item yields an arrival and a
// departure leg.
func roundTripOrder(id int64, status string) []byte {
	o := models.WooOrder{
		ID:          id,
		Status:      status,
		DateCreated: "2026-01-05T10:20:30",
		Billing:     models.WooAddress{FirstName: "Ana", LastName: "López", Email: "ana@example.com"},
		LineItems: []models.WooLineItem{{
			Name:     "Hotel Riu Palace",
			Quantity: 1,
			Subtotal: "80.00",
			MetaData: []models.WooMeta{
				{Key: mapping.KeyTripType, Value: "Hotel to Airport - Roundtrip"},
				{Key: mapping.KeyArrivalDate, Value: "02/10/2026"},
				{Key: mapping.KeyArrivalTime, Value: "14:30"},
				{Key: mapping.KeyDepartureDate, Value: "02/15/2026"},
				{Key: mapping.KeyPassengers, Value: "3"},
			},
		}},
		Total: "80.00",
	}
	b, _ := json.Marshal(o)
	return b
}
