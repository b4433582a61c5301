package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "liberia/internal/errors"
	"liberia/internal/external"
	"liberia/internal/logger"
	"liberia/internal/metrics"
	"liberia/internal/models"
)

// Webhook outcomes, reported in WebhookResponse.Action and the metrics label.
const (
	WebhookPing     = "ping"
	WebhookIgnored  = "ignored"
	WebhookSaved    = "saved"
	WebhookDeleted  = "deleted"
	WebhookRejected = "rejected"
	WebhookFailed   = "failed"
)

type WebhookOptions struct {
	// Secret verifies X-WC-Webhook-Signature. Empty skips verification.
	Secret string
	Mode   external.SignatureMode
}

// WebhookDelivery is one inbound delivery with the headers that matter.
type WebhookDelivery struct {
	Topic      string
	Resource   string
	DeliveryID string
	Signature  string
	Body       []byte
}

type WebhookService struct {
	sync *SyncService
	opts WebhookOptions
}

func NewWebhookService(sync *SyncService, opts WebhookOptions) *WebhookService {
	if opts.Mode == "" {
		opts.Mode = external.SignaturePermissive
	}
	return &WebhookService{sync: sync, opts: opts}
}

// Handle routes a delivery. Pings and payloads without an order id succeed
// without touching the store. Only a strict-mode signature failure or a store
// error yields an error.
func (s *WebhookService) Handle(ctx context.Context, d WebhookDelivery) (*models.WebhookResponse, error) {
	log := logger.WithContext(ctx).With("topic", d.Topic, "delivery_id", d.DeliveryID)

	if isPing(d) {
		metrics.WebhookDeliveries.WithLabelValues(WebhookPing).Inc()
		log.Info("Webhook ping acknowledged")
		return &models.WebhookResponse{Success: true, Message: "Webhook verified", Action: WebhookPing}, nil
	}

	if !s.signatureAccepted(d) {
		metrics.WebhookDeliveries.WithLabelValues(WebhookRejected).Inc()
		return nil, apperrors.ErrInvalidSignature
	}

	var payload struct {
		ID     json.Number `json:"id"`
		Status string      `json:"status"`
	}
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		metrics.WebhookDeliveries.WithLabelValues(WebhookIgnored).Inc()
		log.Warn("Ignoring webhook with unreadable body", "error", err)
		return &models.WebhookResponse{Success: true, Message: "Payload ignored", Action: WebhookIgnored}, nil
	}
	id, err := payload.ID.Int64()
	if err != nil || id <= 0 {
		metrics.WebhookDeliveries.WithLabelValues(WebhookIgnored).Inc()
		log.Warn("Ignoring webhook without order id")
		return &models.WebhookResponse{Success: true, Message: "No order id in payload", Action: WebhookIgnored}, nil
	}

	if isDeletion(d.Topic, payload.Status) {
		if _, err := s.sync.DeleteOrder(ctx, id, models.SourceWebhook); err != nil {
			metrics.WebhookDeliveries.WithLabelValues(WebhookFailed).Inc()
			return nil, fmt.Errorf("failed to delete order %d: %w", id, err)
		}
		metrics.WebhookDeliveries.WithLabelValues(WebhookDeleted).Inc()
		return &models.WebhookResponse{Success: true, Message: "Order deleted", OrderID: id, Action: WebhookDeleted}, nil
	}

	if _, err := s.sync.SaveOrder(ctx, d.Body, models.SourceWebhook); err != nil {
		metrics.WebhookDeliveries.WithLabelValues(WebhookFailed).Inc()
		return nil, fmt.Errorf("failed to save order %d: %w", id, err)
	}
	metrics.WebhookDeliveries.WithLabelValues(WebhookSaved).Inc()
	return &models.WebhookResponse{Success: true, Message: "Order synced", OrderID: id, Action: WebhookSaved}, nil
}

func (s *WebhookService) signatureAccepted(d WebhookDelivery) bool {
	if s.opts.Secret == "" {
		return true
	}
	if external.VerifyWebhookSignature(d.Body, s.opts.Secret, d.Signature) {
		return true
	}

	metrics.SignatureMismatches.Inc()
	if s.opts.Mode == external.SignatureStrict {
		logger.Get().Warn("Rejecting webhook with invalid signature",
			"topic", d.Topic,
			"delivery_id", d.DeliveryID)
		return false
	}
	logger.Get().Warn("Webhook signature mismatch, processing anyway",
		"topic", d.Topic,
		"delivery_id", d.DeliveryID,
		"signature_present", d.Signature != "")
	return true
}

// isPing recognises delivery verification requests. The store sends the
// ping form-encoded as webhook_id=N.
func isPing(d WebhookDelivery) bool {
	if d.Resource == "webhook" || strings.Contains(d.Topic, "ping") {
		return true
	}

	body := bytes.TrimSpace(d.Body)
	switch string(body) {
	case "", "{}", "[]", "null":
		return true
	}
	if bytes.HasPrefix(body, []byte("webhook_id=")) {
		return true
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	_, hasWebhookID := probe["webhook_id"]
	_, hasID := probe["id"]
	return hasWebhookID && !hasID
}

func isDeletion(topic, status string) bool {
	return strings.HasSuffix(topic, ".deleted") ||
		strings.HasSuffix(topic, ".trashed") ||
		status == statusTrash
}
