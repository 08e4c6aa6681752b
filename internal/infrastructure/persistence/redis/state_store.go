// Package redis implements Redis-backed storage for bot registration
// sessions. Keys expire with the session TTL, so abandoned dialogs clean
// themselves up and survive process restarts.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Roy42022p/Backend/internal/application/registration"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewClient creates a Redis client and verifies it with a ping.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to ping: %w", err)
	}
	return client, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION STATE STORE
// ══════════════════════════════════════════════════════════════════════════════

// StateStore implements registration.StateStore on Redis. Sessions are
// JSON blobs keyed by chat ID; eviction is delegated to key TTL.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewStateStore creates a store. A non-positive ttl falls back to
// registration.SessionTTL.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = registration.SessionTTL
	}
	return &StateStore{
		client: client,
		ttl:    ttl,
		prefix: "registration:session:",
	}
}

func (s *StateStore) key(chatID int64) string {
	return fmt.Sprintf("%s%d", s.prefix, chatID)
}

// Get returns the chat's session or registration.ErrNoSession.
func (s *StateStore) Get(ctx context.Context, chatID int64) (*registration.Session, error) {
	data, err := s.client.Get(ctx, s.key(chatID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, registration.ErrNoSession
		}
		return nil, fmt.Errorf("redis: failed to get session: %w", err)
	}

	var session registration.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("redis: failed to decode session: %w", err)
	}
	return &session, nil
}

// Put stores the session and refreshes its TTL.
func (s *StateStore) Put(ctx context.Context, chatID int64, session *registration.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(chatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to store session: %w", err)
	}
	return nil
}

// Delete removes the chat's session. A missing session is not an error.
func (s *StateStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, s.key(chatID)).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete session: %w", err)
	}
	return nil
}
