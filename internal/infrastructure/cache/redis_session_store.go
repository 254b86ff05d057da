package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore implements SessionStore using Redis.
// Every write refreshes the key's TTL.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSessionStore connects to Redis and verifies the connection
func NewRedisSessionStore(ctx context.Context, cfg config.RedisConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSessionStoreWithClient(client, "", cfg.SessionTTL), nil
}

// NewRedisSessionStoreWithClient creates a store with an existing Redis client
func NewRedisSessionStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSessionStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// ForSession returns the KV of one session
func (s *RedisSessionStore) ForSession(sessionID string) session.KV {
	return &redisKV{store: s, sessionID: sessionID}
}

// Ping checks the Redis connection
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client
func (s *RedisSessionStore) GetClient() *redis.Client {
	return s.client
}

type redisKV struct {
	store     *RedisSessionStore
	sessionID string
}

func (kv *redisKV) key(k string) string {
	return sessionKey(kv.store.keyPrefix, kv.sessionID, k)
}

func (kv *redisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := kv.store.client.Get(ctx, kv.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return val, nil
}

func (kv *redisKV) Set(ctx context.Context, key, value string) error {
	if err := kv.store.client.Set(ctx, kv.key(key), value, kv.store.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

func (kv *redisKV) Delete(ctx context.Context, key string) error {
	if err := kv.store.client.Del(ctx, kv.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session key %s: %w", key, err)
	}
	return nil
}

var _ SessionStore = (*RedisSessionStore)(nil)
