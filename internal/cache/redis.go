package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces every key this service writes.
const RedisKeyPrefix = "frictrak:"

// RedisCache stores analyses in Redis so several API nodes share hits.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache dials Redis and verifies the connection.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, tenantID, key string) ([]byte, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}
	val, err := c.client.Get(ctx, redisKey(tenantID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, tenantID, key string, value []byte, ttl time.Duration) error {
	if tenantID == "" {
		return ErrTenantRequired
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, redisKey(tenantID, key), value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, tenantID, key string) error {
	if tenantID == "" {
		return ErrTenantRequired
	}
	return c.client.Del(ctx, redisKey(tenantID, key)).Err()
}

func (c *RedisCache) GetAnalysis(ctx context.Context, tenantID, fingerprint string) (*domain.Analysis, error) {
	return loadAnalysis(ctx, c, tenantID, fingerprint)
}

func (c *RedisCache) SetAnalysis(ctx context.Context, tenantID, fingerprint string, a *domain.Analysis, ttl time.Duration) error {
	return storeAnalysis(ctx, c, tenantID, fingerprint, a, ttl)
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func redisKey(tenantID, key string) string {
	return RedisKeyPrefix + tenantID + ":" + key
}
