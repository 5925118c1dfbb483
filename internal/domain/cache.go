package domain

import (
	"context"
	"time"
)

// Cache is the keyed result store handed to the analyzer by its caller.
// Keys are scoped by tenant. A miss is (nil, nil), not an error.
type Cache interface {
	Get(ctx context.Context, tenantID, key string) ([]byte, error)
	Set(ctx context.Context, tenantID, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, tenantID, key string) error

	// GetAnalysis returns the analysis stored under a batch fingerprint.
	GetAnalysis(ctx context.Context, tenantID, fingerprint string) (*Analysis, error)
	SetAnalysis(ctx context.Context, tenantID, fingerprint string, a *Analysis, ttl time.Duration) error

	Ping(ctx context.Context) error
	Close() error
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Type string // "memory" (default) or "redis"

	// In-process LRU, also the L1 of the two-phase cache.
	LocalMaxSize int
	LocalTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// EnableTwoPhase puts the LRU in front of Redis.
	EnableTwoPhase bool
}
