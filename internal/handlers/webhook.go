package handlers

import (
	"errors"
	"io"
	"net/http"

	apperrors "liberia/internal/errors"
	"liberia/internal/external"
	"liberia/internal/logger"
	"liberia/internal/service"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 5 << 20

// WooCommerceWebhook - POST /api/webhook/woocommerce
// Принимает доставки вебхуков магазина. Пинги и доставки без id заказа
// всегда подтверждаются, чтобы магазин не отключил подписку.
func (h *Handlers) WooCommerceWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WithContext(c.Request.Context()).Warn("Webhook body over limit",
				"limit", tooLarge.Limit,
				"topic", c.GetHeader(external.HeaderWebhookTopic),
				"delivery_id", c.GetHeader(external.HeaderWebhookDeliveryID))
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "webhook body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	delivery := service.WebhookDelivery{
		Topic:      c.GetHeader(external.HeaderWebhookTopic),
		Resource:   c.GetHeader(external.HeaderWebhookResource),
		DeliveryID: c.GetHeader(external.HeaderWebhookDeliveryID),
		Signature:  c.GetHeader(external.HeaderWebhookSignature),
		Body:       body,
	}

	resp, err := h.services.Webhooks.Handle(c.Request.Context(), delivery)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid signature"})
			return
		}
		logger.WithContext(c.Request.Context()).Error("Webhook processing failed",
			"error", err,
			"topic", delivery.Topic,
			"delivery_id", delivery.DeliveryID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
