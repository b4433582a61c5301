package handlers

import (
	"net/http"
	"strconv"

	"liberia/internal/models"

	"github.com/gin-gonic/gin"
)

const maxPerPage = 100

// ListReservas - GET /api/reservas
// Список бронирований в форме заказа WooCommerce
func (h *Handlers) ListReservas(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if perPage < 1 || perPage > maxPerPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "per_page must be between 1 and 100"})
		return
	}

	result, err := h.services.Reservas.List(c.Request.Context(), models.ReservaFilter{
		Page:    page,
		PerPage: perPage,
		After:   c.Query("after"),
		OrderBy: c.Query("orderby"),
		Order:   c.Query("order"),
	})
	if err != nil {
		respondError(c, err, "Failed to list reservas")
		return
	}

	setTotals(c, result.Total, result.TotalPages)
	c.JSON(http.StatusOK, result.Items)
}

// GetReserva - GET /api/reservas/:id
func (h *Handlers) GetReserva(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.services.Reservas.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get reserva")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateReserva - PUT /api/reservas/:id
// Сохраняет правку локально и отправляет ее в WooCommerce
func (h *Handlers) UpdateReserva(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.ReservaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Reservas.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update reserva")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteReserva - DELETE /api/reservas/:id[?upstream=true]
func (h *Handlers) DeleteReserva(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	upstream, _ := strconv.ParseBool(c.DefaultQuery("upstream", "false"))

	if err := h.services.Reservas.Delete(c.Request.Context(), id, upstream); err != nil {
		respondError(c, err, "Failed to delete reserva")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// NewReservas - GET /api/reservas/new?since=
// Опрос новых бронирований для уведомлений в панели
func (h *Handlers) NewReservas(c *gin.Context) {
	resp, err := h.services.Reservas.NewSince(c.Request.Context(), c.Query("since"))
	if err != nil {
		respondError(c, err, "Failed to check new reservas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshReserva - POST /api/reservas/:id/refresh
func (h *Handlers) RefreshReserva(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.services.Reservas.Refresh(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to refresh reserva")
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListReservaViajes - GET /api/reservas/:id/viajes
func (h *Handlers) ListReservaViajes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	viajes, err := h.services.Viajes.ListByReserva(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list viajes")
		return
	}
	c.JSON(http.StatusOK, viajes)
}

// SearchReservas - GET /api/reservas/search?q=&date=
func (h *Handlers) SearchReservas(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 || perPage < 1 || perPage > maxPerPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	result, err := h.search.Search(c.Request.Context(), c.Query("q"), c.Query("date"), page, perPage)
	if err != nil {
		respondError(c, err, "Failed to search reservas")
		return
	}

	setTotals(c, int(result.Total), (int(result.Total)+perPage-1)/perPage)
	c.JSON(http.StatusOK, result.Hits)
}
