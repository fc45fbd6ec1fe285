package db

import (
	"context"
	"errors"
	"time"
)

// ErrNil is returned by Get when the key does not exist (or has expired).
var ErrNil = errors.New("redis: key not found")

// RedisClient defines the methods the portal needs from Redis.
// A zero ttl means the key never expires.
type RedisClient interface {
	Set(key, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Del(key string) error
	Expire(key string, ttl time.Duration) error
	Keys(pattern string) ([]string, error)
	GetContext() context.Context
	Ping() error
}
