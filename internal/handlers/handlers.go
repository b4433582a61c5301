package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"liberia/internal/cache"
	apperrors "liberia/internal/errors"
	"liberia/internal/logger"
	"liberia/internal/search"
	"liberia/internal/service"

	"github.com/gin-gonic/gin"
)

// ReservaSearcher is the full-text index over reservas.
type ReservaSearcher interface {
	Search(ctx context.Context, query, date string, page, pageSize int) (*search.SearchResult, error)
}

type Handlers struct {
	services *service.Services
	search   ReservaSearcher
	sessions cache.SessionStore
}

// NewHandlers собирает обработчики; searcher может быть nil, если поиск не настроен
func NewHandlers(services *service.Services, searcher ReservaSearcher, sessions cache.SessionStore) *Handlers {
	return &Handlers{
		services: services,
		search:   searcher,
		sessions: sessions,
	}
}

// respondError maps domain errors to status codes. Unexpected errors are
// logged and hidden behind msg.
func respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidSignature), errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		logger.WithContext(c.Request.Context()).Warn(msg, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error(msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// setTotals mirrors the upstream pagination headers.
func setTotals(c *gin.Context, total, totalPages int) {
	c.Header("X-WP-Total", strconv.Itoa(total))
	c.Header("X-WP-TotalPages", strconv.Itoa(totalPages))
}

