package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Session is what the login layer stores for a staff member.
type Session struct {
	User      string    `json:"user"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps staff sessions keyed by token. Get returns (nil, nil)
// for unknown or expired tokens.
type SessionStore interface {
	Get(ctx context.Context, token string) (*Session, error)
	Set(ctx context.Context, token string, s *Session, ttl time.Duration) error
	Expire(ctx context.Context, token string) error
}

// NewSessionStore returns a Valkey-backed store, or an in-process one when no
// address is configured.
func NewSessionStore(cfg Config) (SessionStore, error) {
	if cfg.Addr == "" {
		slog.Warn("VALKEY_ADDR not set, sessions are kept in process memory")
		return NewMemorySessionStore(), nil
	}
	client, err := NewValkeyClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type ValkeyClient struct {
	client *redis.Client
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	slog.Info("Connected to Valkey session store", "addr", cfg.Addr)
	return &ValkeyClient{client: rdb}, nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (v *ValkeyClient) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := v.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup error: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("invalid session payload: %w", err)
	}
	return &s, nil
}

func (v *ValkeyClient) Set(ctx context.Context, token string, s *Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := v.client.Set(ctx, sessionKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (v *ValkeyClient) Expire(ctx context.Context, token string) error {
	if err := v.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to expire session: %w", err)
	}
	return nil
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
