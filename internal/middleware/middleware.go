package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"liberia/internal/cache"
	"liberia/internal/logger"
	"liberia/internal/metrics"

	"github.com/gin-gonic/gin"
)

const (
	HeaderRequestID    = "X-Request-ID"
	HeaderSessionToken = "X-Session-Token"
	SessionCookie      = "session_token"

	// Keys set on the gin context by SessionAuth.
	ContextSession      = "session"
	ContextSessionToken = "session_token"
)

// CORS middleware для обработки CORS запросов
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+HeaderSessionToken)
		c.Header("Access-Control-Expose-Headers", "X-WP-Total, X-WP-TotalPages, "+HeaderRequestID)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// Logger middleware для структурированного логирования запросов.
// Присваивает каждому запросу request id и считает запросы в метриках.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = logger.NewRequestID()
		}
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		logFields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if s, ok := c.Get(ContextSession); ok {
			logFields = append(logFields, "user", s.(*cache.Session).User)
		}

		switch {
		case status >= 500:
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		case status >= 400:
			slog.Warn("Request rejected", logFields...)
		default:
			slog.Debug("Request completed", logFields...)
		}
	}
}

// Recovery middleware для восстановления после паники с детальным логированием
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"request_id", logger.RequestIDFromContext(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// SessionToken extracts the session token from the header, a bearer
// Authorization header or the session cookie, in that order.
func SessionToken(c *gin.Context) string {
	if token := c.GetHeader(HeaderSessionToken); token != "" {
		return token
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if token, err := c.Cookie(SessionCookie); err == nil {
		return token
	}
	return ""
}

// SessionAuth пропускает только запросы с действующей сессией. Сессии
// создает внешний слой входа; здесь они только читаются и продлеваются.
func SessionAuth(store cache.SessionStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()
		session, err := store.Get(ctx, token)
		if err != nil {
			logger.WithContext(ctx).Error("Session store unavailable", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		if ttl > 0 {
			if err := store.Set(ctx, token, session, ttl); err != nil {
				logger.WithContext(ctx).Warn("Failed to extend session", "error", err)
			}
		}

		c.Set(ContextSession, session)
		c.Set(ContextSessionToken, token)
		c.Request = c.Request.WithContext(logger.ContextWithSessionUser(ctx, session.User))
		c.Next()
	}
}
