package handlers

import (
	"net/http"
	"strconv"

	"liberia/internal/models"

	"github.com/gin-gonic/gin"
)

// ListViajes - GET /api/viajes
// Фильтры: fecha, fecha_desde, fecha_hasta, tipo, chofer, status
func (h *Handlers) ListViajes(c *gin.Context) {
	viajes, err := h.services.Viajes.List(c.Request.Context(), models.ViajeFilter{
		Fecha:      c.Query("fecha"),
		FechaDesde: c.Query("fecha_desde"),
		FechaHasta: c.Query("fecha_hasta"),
		Tipo:       c.Query("tipo"),
		Chofer:     c.Query("chofer"),
		Status:     c.Query("status"),
	})
	if err != nil {
		respondError(c, err, "Failed to list viajes")
		return
	}

	c.Header("X-WP-Total", strconv.Itoa(len(viajes)))
	c.JSON(http.StatusOK, viajes)
}

// ListChoferes - GET /api/choferes
// Справочник водителей, собранный из назначений на viajes
func (h *Handlers) ListChoferes(c *gin.Context) {
	choferes, err := h.services.Viajes.Choferes(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list choferes")
		return
	}
	c.JSON(http.StatusOK, choferes)
}

// GetViaje - GET /api/viajes/:id
func (h *Handlers) GetViaje(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	viaje, err := h.services.Viajes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get viaje")
		return
	}
	c.JSON(http.StatusOK, viaje)
}

// UpdateViaje - PUT /api/viajes/:id
// Назначение chofer и правки расписания
func (h *Handlers) UpdateViaje(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.ViajeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Viajes.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update viaje")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteViaje - DELETE /api/viajes/:id
func (h *Handlers) DeleteViaje(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Viajes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete viaje")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}
