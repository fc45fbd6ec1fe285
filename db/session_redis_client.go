package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// SessionRedisClient struct holds the Redis client and context
type SessionRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewSessionRedisClient wraps an existing go-redis client.
func NewSessionRedisClient(ctx context.Context, client *redis.Client) *SessionRedisClient {
	return &SessionRedisClient{
		client: client,
		ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis
func (r *SessionRedisClient) Set(key, value string, ttl time.Duration) error {
	return r.client.Set(r.ctx, key, value, ttl).Err()
}

// Get retrieves the value for a given key from Redis
func (r *SessionRedisClient) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNil
	}
	return val, err
}

// Del removes a key. Removing a missing key is not an error.
func (r *SessionRedisClient) Del(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// Expire refreshes the time to live of a key.
func (r *SessionRedisClient) Expire(key string, ttl time.Duration) error {
	return r.client.Expire(r.ctx, key, ttl).Err()
}

// Keys lists keys matching a glob pattern.
func (r *SessionRedisClient) Keys(pattern string) ([]string, error) {
	keys, err := r.client.Keys(r.ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys %q: %w", pattern, err)
	}
	return keys, nil
}

func (r *SessionRedisClient) GetContext() context.Context {
	return r.ctx
}

func (r *SessionRedisClient) Ping() error {
	_, err := r.client.Ping(r.ctx).Result()
	if err == nil {
		log.Debug().Str("component", "redis").Msg("redis reachable")
	}
	return err
}
