package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"liberia/internal/cache"
	"liberia/internal/database"
	"liberia/internal/external"
	"liberia/internal/messaging"
	"liberia/internal/service"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// AuthEnabled guards /api with the session store.
	AuthEnabled bool

	Database      database.Config
	NATS          messaging.Config
	WooCommerce   external.WooCommerceConfig
	Sync          service.SyncOptions
	Sessions      cache.Config
	Elasticsearch ElasticsearchConfig
}

// Load загружает конфигурацию из .env и переменных окружения
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		AuthEnabled:    getEnvBool("AUTH_ENABLED", true),

		Database: database.Config{
			Driver:             getEnv("DB_DRIVER", "postgres"),
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "liberia"),
			Password:           getEnv("DB_PASSWORD", ""),
			DBName:             getEnv("DB_NAME", "liberia"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			Path:               getEnv("DB_PATH", "liberia.db"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			Enabled:   getEnvBool("NATS_ENABLED", false),
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "liberia"),
			ClientID:  getEnv("NATS_CLIENT_ID", "liberia-api"),
		},

		WooCommerce: external.WooCommerceConfig{
			BaseURL:        getEnv("WOO_SITE_URL", ""),
			ConsumerKey:    getEnv("WOO_CONSUMER_KEY", ""),
			ConsumerSecret: getEnv("WOO_CONSUMER_SECRET", ""),
			Timeout:        time.Duration(getEnvInt("WOO_TIMEOUT_SEC", 30)) * time.Second,
			WebhookSecret:  getEnv("WOO_WEBHOOK_SECRET", ""),
			SignatureMode:  external.SignatureMode(getEnv("WOO_WEBHOOK_SIGNATURE_MODE", string(external.SignaturePermissive))),
		},

		Sync: service.SyncOptions{
			PageSize:          getEnvInt("SYNC_PAGE_SIZE", 100),
			MaxPages:          getEnvInt("SYNC_MAX_PAGES", 50),
			LookbackMonths:    getEnvInt("SYNC_LOOKBACK_MONTHS", 7),
			Interval:          time.Duration(getEnvInt("SYNC_INTERVAL_MIN", 0)) * time.Minute,
			TypeAuthoritative: getEnvBool("SYNC_TRIP_TYPE_AUTHORITATIVE", false),
		},

		Sessions: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
			TTL:      time.Duration(getEnvInt("SESSION_TTL_MIN", 480)) * time.Minute,
		},

		Elasticsearch: LoadElasticsearchConfig(),
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
