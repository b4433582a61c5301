package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type DB struct {
	*sqlx.DB
}

type Config struct {
	Driver             string
	Host               string
	Port               int
	User               string
	Password           string
	DBName             string
	SSLMode            string
	Path               string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	ConnMaxIdleTimeMin int
}

func (cfg Config) dsn() string {
	if cfg.Driver == DriverSQLite {
		return cfg.Path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

func Connect(cfg Config) (*DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if cfg.Driver != DriverPostgres && cfg.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMin) * time.Minute)
		db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMin) * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		slog.Info("Connected to database", "driver", cfg.Driver, "path", cfg.Path)
	} else {
		slog.Info("Connected to database",
			"driver", cfg.Driver, "host", cfg.Host, "port", cfg.Port, "dbname", cfg.DBName,
			"max_open_conns", cfg.MaxOpenConns, "max_idle_conns", cfg.MaxIdleConns)
	}

	return &DB{db}, nil
}

// IsSQLite reports whether the connection uses the embedded driver.
func (db *DB) IsSQLite() bool {
	return db.DriverName() == DriverSQLite
}
