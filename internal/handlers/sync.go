package handlers

import (
	"context"
	"net/http"

	"liberia/internal/logger"

	"github.com/gin-gonic/gin"
)

// TriggerSync - POST /api/sync
// Полная синхронизация; разрыв соединения клиентом не прерывает проход
func (h *Handlers) TriggerSync(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.services.Sync.PullSync(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn("Pull sync aborted", "error", err, "processed", result.Processed)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SyncStatus - GET /api/sync/status
func (h *Handlers) SyncStatus(c *gin.Context) {
	status, err := h.services.Sync.Status(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to read sync status")
		return
	}
	c.JSON(http.StatusOK, status)
}
