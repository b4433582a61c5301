package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"liberia/internal/cache"
	"liberia/internal/config"
	"liberia/internal/database"
	"liberia/internal/external"
	"liberia/internal/handlers"
	"liberia/internal/logger"
	"liberia/internal/messaging"
	"liberia/internal/middleware"
	"liberia/internal/repository"
	"liberia/internal/search"
	"liberia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	sessions cache.SessionStore
	searcher handlers.ReservaSearcher
	services *service.Services
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	if err := db.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		logger.Get().Warn("Database pool metrics not registered", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	sessions, err := cache.NewSessionStore(cfg.Sessions)
	if err != nil {
		logger.Fatal("Failed to connect to session store", "error", err)
	}

	// Поиск необязателен: без Elasticsearch /api/reservas/search отвечает 503
	var searcher handlers.ReservaSearcher
	if cfg.Elasticsearch.Enabled() {
		es, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			logger.Get().Warn("Reserva search disabled", "error", err)
		} else {
			searcher = es
		}
	}

	woo := external.NewWooCommerceClient(cfg.WooCommerce)
	if !woo.Configured() {
		logger.Get().Warn("WooCommerce credentials not set, pull sync and push-back are disabled")
	}
	if cfg.WooCommerce.WebhookSecret == "" {
		logger.Get().Warn("WOO_WEBHOOK_SECRET not set, webhook signatures are not verified")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, woo, natsClient, service.Options{
		Sync: cfg.Sync,
		Webhook: service.WebhookOptions{
			Secret: cfg.WooCommerce.WebhookSecret,
			Mode:   cfg.WooCommerce.SignatureMode,
		},
		PushTimeout: cfg.WooCommerce.Timeout,
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		sessions: sessions,
		searcher: searcher,
		services: services,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.searcher, s.sessions)

	// Вебхук магазина без сессии: подлинность проверяется подписью
	s.router.POST("/api/webhook/woocommerce", h.WooCommerceWebhook)

	api := s.router.Group("/api")
	if s.config.AuthEnabled {
		api.Use(middleware.SessionAuth(s.sessions, s.config.Sessions.TTL))
	} else {
		logger.Get().Warn("AUTH_ENABLED=false, /api is open")
	}
	{
		api.GET("/session", h.CurrentSession)
		api.DELETE("/session", h.Logout)

		reservas := api.Group("/reservas")
		{
			reservas.GET("", h.ListReservas)
			reservas.GET("/new", h.NewReservas)
			reservas.GET("/search", h.SearchReservas)
			reservas.GET("/:id", h.GetReserva)
			reservas.PUT("/:id", h.UpdateReserva)
			reservas.DELETE("/:id", h.DeleteReserva)
			reservas.POST("/:id/refresh", h.RefreshReserva)
			reservas.GET("/:id/viajes", h.ListReservaViajes)
		}

		viajes := api.Group("/viajes")
		{
			viajes.GET("", h.ListViajes)
			viajes.GET("/:id", h.GetViaje)
			viajes.PUT("/:id", h.UpdateViaje)
			viajes.DELETE("/:id", h.DeleteViaje)
		}

		api.GET("/choferes", h.ListChoferes)

		sync := api.Group("/sync")
		{
			sync.POST("", h.TriggerSync)
			sync.GET("/status", h.SyncStatus)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck отвечает состоянием пула соединений с БД
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := s.db.HealthCheck(ctx)
	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   health.Status,
		"service":  "liberia-api",
		"database": health,
		"nats":     s.nats.Enabled(),
		"search":   s.searcher != nil,
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if closer, ok := s.sessions.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Get().Error("Error closing session store", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
