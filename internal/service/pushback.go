package service

import (
	"context"
	"time"

	"liberia/internal/logger"
	"liberia/internal/metrics"
	"liberia/internal/models"
)

const defaultPushTimeout = 30 * time.Second

// pusher writes committed local edits back to the upstream order. A failed
// push never undoes the local write; it is reported to the caller and
// published for a later retry.
type pusher struct {
	woo     OrderSource
	bus     EventPublisher
	timeout time.Duration
	now     func() time.Time
}

func newPusher(woo OrderSource, bus EventPublisher, timeout time.Duration) *pusher {
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	return &pusher{woo: woo, bus: bus, timeout: timeout, now: time.Now}
}

func (p *pusher) push(ctx context.Context, orderID int64, update models.OrderUpdate) models.PushResult {
	if update.Empty() {
		return models.PushResult{}
	}
	if p.woo == nil || !p.woo.Configured() {
		metrics.PushBacks.WithLabelValues("skipped").Inc()
		return models.PushResult{Error: "upstream store is not configured"}
	}

	pushCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.woo.UpdateOrder(pushCtx, orderID, update); err != nil {
		metrics.PushBacks.WithLabelValues("failed").Inc()
		logger.WithContext(ctx).Warn("Push-back failed, local change kept",
			"error", err,
			"order_id", orderID)
		publish(ctx, p.bus, models.EventPushBackFailed, models.PushBackFailedEvent{
			OrderID:   orderID,
			Update:    update,
			Error:     err.Error(),
			Timestamp: p.now(),
		})
		return models.PushResult{Attempted: true, Error: err.Error()}
	}

	metrics.PushBacks.WithLabelValues("success").Inc()
	return models.PushResult{Attempted: true, Success: true}
}
