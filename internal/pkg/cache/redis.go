// Package cache keeps short-lived replies keyed by idempotency key.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns "" and no error when the key does not exist.
	Get(ctx context.Context, key string) (string, error)
	// Reserve stores value only when key is absent and reports whether it did.
	Reserve(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	GenerateKey(operation, key string) string
}

type RedisCache struct {
	client      *redis.Client
	serviceName string
}

func NewRedisCache(addr, serviceName string) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisCache) Reserve(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, ttl).Result()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCache) GenerateKey(operation, key string) string {
	return generateKey(r.serviceName, operation, key)
}

func generateKey(service, operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", service, operation, key)
}
