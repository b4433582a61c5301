package external

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "liberia/internal/errors"
	"liberia/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *WooCommerceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWooCommerceClient(WooCommerceConfig{
		BaseURL:        srv.URL + "/",
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Timeout:        2 * time.Second,
	})
}

func TestListOrders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ck_test", user)
		assert.Equal(t, "cs_test", pass)
		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "2026-03-18T00:00:00", r.URL.Query().Get("after"))
		assert.Equal(t, "date", r.URL.Query().Get("orderby"))

		w.Header().Set("X-WP-Total", "101")
		w.Header().Set("X-WP-TotalPages", "2")
		w.Write([]byte(`[{"id":1,"status":"processing"},{"id":2,"status":"on-hold"}]`))
	})

	page, err := client.ListOrders(context.Background(), ListOrdersParams{
		Page:    2,
		PerPage: 100,
		After:   time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
		OrderBy: "date",
		Order:   "desc",
	})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, 101, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.JSONEq(t, `{"id":2,"status":"on-hold"}`, string(page.Orders[1]))
}

func TestListOrdersUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListOrders(context.Background(), ListOrdersParams{Page: 1, PerPage: 100})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestGetOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/wp-json/wc/v3/orders/404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":42,"status":"completed","total":"10.00"}`))
	})

	order, raw, err := client.GetOrder(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, models.Amount("10.00"), order.Total)
	assert.Contains(t, string(raw), `"completed"`)

	_, _, err = client.GetOrder(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateOrderSendsMeta(t *testing.T) {
	var got models.OrderUpdate
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/wp-json/wc/v3/orders/7", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"id":7}`))
	})

	err := client.UpdateOrder(context.Background(), 7, models.OrderUpdate{
		MetaData: []models.WooMeta{{Key: "chofer_llegada", Value: "Luis"}},
	})
	require.NoError(t, err)
	require.Len(t, got.MetaData, 1)
	assert.Equal(t, "chofer_llegada", got.MetaData[0].Key)
	assert.Equal(t, "Luis", got.MetaData[0].StringValue())
}

func TestDeleteOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("force"))
		w.Write([]byte(`{}`))
	})
	assert.NoError(t, client.DeleteOrder(context.Background(), 9, true))
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewWooCommerceClient(WooCommerceConfig{}).Configured())
	assert.True(t, NewWooCommerceClient(WooCommerceConfig{BaseURL: "https://x", ConsumerKey: "k", ConsumerSecret: "s"}).Configured())
}

func TestWebhookSignature(t *testing.T) {
	body := []byte(`{"id":1}`)
	sig := SignWebhook(body, "s3cret")

	assert.True(t, VerifyWebhookSignature(body, "s3cret", sig))
	assert.False(t, VerifyWebhookSignature(body, "other", sig))
	assert.False(t, VerifyWebhookSignature([]byte(`{"id":2}`), "s3cret", sig))
	assert.False(t, VerifyWebhookSignature(body, "s3cret", ""))
}
