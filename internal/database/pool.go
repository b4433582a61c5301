package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PoolStats struct {
	MaxOpenConns      int           `json:"max_open_connections"`
	OpenConns         int           `json:"open_connections"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

type HealthCheck struct {
	Status       string        `json:"status"`
	Driver       string        `json:"driver"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	Stats        PoolStats     `json:"stats"`
	Timestamp    time.Time     `json:"timestamp"`
}

func (db *DB) GetPoolStats() PoolStats {
	stats := db.Stats()
	return PoolStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

func (db *DB) HealthCheck(ctx context.Context) HealthCheck {
	start := time.Now()
	healthCheck := HealthCheck{
		Driver:    db.DriverName(),
		Timestamp: start,
		Stats:     db.GetPoolStats(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.PingContext(pingCtx)
	healthCheck.ResponseTime = time.Since(start)

	if err != nil {
		healthCheck.Status = "unhealthy"
		healthCheck.Error = err.Error()
		slog.Error("Database health check failed", "error", err)
	} else {
		healthCheck.Status = "healthy"
	}

	db.warnOnPressure()
	return healthCheck
}

// warnOnPressure logs pool saturation and long waits.
func (db *DB) warnOnPressure() {
	stats := db.Stats()

	if stats.MaxOpenConnections > 0 && stats.InUse > int(float64(stats.MaxOpenConnections)*0.9) {
		slog.Warn("High connection usage detected",
			"in_use", stats.InUse, "max_open", stats.MaxOpenConnections)
	}

	if stats.WaitCount > 0 && stats.WaitDuration > time.Second {
		slog.Warn("High database wait times detected",
			"wait_count", stats.WaitCount, "wait_duration", stats.WaitDuration)
	}
}

// RegisterMetrics exposes the pool counters as gauges sampled at scrape time.
func (db *DB) RegisterMetrics(reg prometheus.Registerer) error {
	gauges := map[string]func(PoolStats) float64{
		"open":   func(s PoolStats) float64 { return float64(s.OpenConns) },
		"in_use": func(s PoolStats) float64 { return float64(s.InUse) },
		"idle":   func(s PoolStats) float64 { return float64(s.Idle) },
		"max":    func(s PoolStats) float64 { return float64(s.MaxOpenConns) },
	}
	for state, read := range gauges {
		g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "liberia_db_connections",
			Help:        "Database pool connections by state",
			ConstLabels: prometheus.Labels{"state": state},
		}, func() float64 { return read(db.GetPoolStats()) })
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
