package handlers

import (
	"net/http"

	"liberia/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CurrentSession - GET /api/session
func (h *Handlers) CurrentSession(c *gin.Context) {
	session, ok := c.Get(middleware.ContextSession)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout - DELETE /api/session
func (h *Handlers) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextSessionToken)
	if token == "" || h.sessions == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	if err := h.sessions.Expire(c.Request.Context(), token); err != nil {
		respondError(c, err, "Failed to end session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
