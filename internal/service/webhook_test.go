package service

import (
	"context"
	"errors"
	"testing"

	apperrors "liberia/internal/errors"
	"liberia/internal/external"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPingsDoNotTouchTheStore(t *testing.T) {
	f := newFixture(t, Options{Webhook: WebhookOptions{Secret: "s3cret", Mode: external.SignatureStrict}})

	for name, d := range map[string]WebhookDelivery{
		"empty object":     {Topic: "order.updated", Body: []byte(`{}`)},
		"empty body":       {Topic: "order.updated", Body: nil},
		"empty array":      {Topic: "order.updated", Body: []byte(` [] `)},
		"webhook id only":  {Topic: "order.created", Body: []byte(`{"webhook_id": 12}`)},
		"form encoded":     {Body: []byte(`webhook_id=12`)},
		"ping topic":       {Topic: "action.woocommerce_webhook_ping", Body: []byte(`{"id": 3}`)},
		"webhook resource": {Resource: "webhook", Body: []byte(`{"id": 3}`)},
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := f.svc.Webhooks.Handle(context.Background(), d)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, WebhookPing, resp.Action)
		})
	}
	assert.Equal(t, 0, f.reservaCount(t))
}

func TestWebhookWithoutOrderIDIsIgnored(t *testing.T) {
	f := newFixture(t, Options{})

	resp, err := f.svc.Webhooks.Handle(context.Background(), WebhookDelivery{Topic: "order.updated", Body: []byte(`{"status":"processing"}`)})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, WebhookIgnored, resp.Action)

	resp, err = f.svc.Webhooks.Handle(context.Background(), WebhookDelivery{Topic: "order.updated", Body: []byte(`not json`)})
	require.NoError(t, err)
	assert.Equal(t, WebhookIgnored, resp.Action)
	assert.Equal(t, 0, f.reservaCount(t))
}

func TestWebhookSavesAndDeletes(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	resp, err := f.svc.Webhooks.Handle(ctx, WebhookDelivery{Topic: "order.created", Body: roundTripOrder(700, "processing")})
	require.NoError(t, err)
	assert.Equal(t, WebhookSaved, resp.Action)
	assert.Equal(t, int64(700), resp.OrderID)
	assert.Equal(t, 1, f.reservaCount(t))

	resp, err = f.svc.Webhooks.Handle(ctx, WebhookDelivery{Topic: "order.deleted", Body: []byte(`{"id":700}`)})
	require.NoError(t, err)
	assert.Equal(t, WebhookDeleted, resp.Action)
	assert.Equal(t, 0, f.reservaCount(t))
}

func TestWebhookTrashStatusDeletes(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.Webhooks.Handle(ctx, WebhookDelivery{Topic: "order.created", Body: roundTripOrder(701, "processing")})
	require.NoError(t, err)

	resp, err := f.svc.Webhooks.Handle(ctx, WebhookDelivery{Topic: "order.updated", Body: roundTripOrder(701, "trash")})
	require.NoError(t, err)
	assert.Equal(t, WebhookDeleted, resp.Action)
	assert.Equal(t, 0, f.reservaCount(t))
}

func TestWebhookSignatureModes(t *testing.T) {
	body := roundTripOrder(800, "processing")

	t.Run("permissive processes a mismatch", func(t *testing.T) {
		f := newFixture(t, Options{Webhook: WebhookOptions{Secret: "s3cret"}})
		resp, err := f.svc.Webhooks.Handle(context.Background(), WebhookDelivery{Topic: "order.created", Signature: "bogus", Body: body})
		require.NoError(t, err)
		assert.Equal(t, WebhookSaved, resp.Action)
	})

	t.Run("strict rejects a mismatch", func(t *testing.T) {
		f := newFixture(t, Options{Webhook: WebhookOptions{Secret: "s3cret", Mode: external.SignatureStrict}})
		_, err := f.svc.Webhooks.Handle(context.Background(), WebhookDelivery{Topic: "order.created", Signature: "bogus", Body: body})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidSignature))
		assert.Equal(t, 0, f.reservaCount(t))
	})

	t.Run("strict accepts a valid signature", func(t *testing.T) {
		f := newFixture(t, Options{Webhook: WebhookOptions{Secret: "s3cret", Mode: external.SignatureStrict}})
		resp, err := f.svc.Webhooks.Handle(context.Background(), WebhookDelivery{
			Topic:     "order.created",
			Signature: external.SignWebhook(body, "s3cret"),
			Body:      body,
		})
		require.NoError(t, err)
		assert.Equal(t, WebhookSaved, resp.Action)
	})
}
