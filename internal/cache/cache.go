// Package cache stores finished analyses keyed by batch fingerprint so a
// resubmitted statement is answered without re-running detection.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
)

// ErrTenantRequired is returned when a call omits the tenant.
var ErrTenantRequired = errors.New("cache: tenantID is required")

const analysisPrefix = "analysis:"

// New builds the cache described by cfg.
// "memory" gives a process-local LRU, "redis" a shared Redis cache,
// optionally fronted by an LRU when EnableTwoPhase is set.
func New(cfg domain.CacheConfig) (domain.Cache, error) {
	switch cfg.Type {
	case "", "memory":
		return NewLRUCache(cfg.LocalMaxSize), nil
	case "redis":
		if cfg.EnableTwoPhase {
			return NewTwoPhaseCache(cfg)
		}
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}

// byteStore is the raw key/value half shared by every implementation.
type byteStore interface {
	Get(ctx context.Context, tenantID, key string) ([]byte, error)
	Set(ctx context.Context, tenantID, key string, value []byte, ttl time.Duration) error
}

func loadAnalysis(ctx context.Context, s byteStore, tenantID, fingerprint string) (*domain.Analysis, error) {
	data, err := s.Get(ctx, tenantID, analysisPrefix+fingerprint)
	if err != nil || data == nil {
		return nil, err
	}
	var a domain.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode cached analysis: %w", err)
	}
	return &a, nil
}

func storeAnalysis(ctx context.Context, s byteStore, tenantID, fingerprint string, a *domain.Analysis, ttl time.Duration) error {
	if a == nil {
		return errors.New("cache: nil analysis")
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return s.Set(ctx, tenantID, analysisPrefix+fingerprint, data, ttl)
}

// TwoPhaseCache reads through a local LRU before going to Redis.
// Writes land in both; the local copy never outlives LocalTTL.
type TwoPhaseCache struct {
	local  *LRUCache
	remote *RedisCache
	l1TTL  time.Duration
}

// NewTwoPhaseCache connects to Redis and pairs it with a local LRU.
func NewTwoPhaseCache(cfg domain.CacheConfig) (*TwoPhaseCache, error) {
	remote, err := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis cache: %w", err)
	}
	return newTwoPhase(NewLRUCache(cfg.LocalMaxSize), remote, cfg.LocalTTL), nil
}

func newTwoPhase(local *LRUCache, remote *RedisCache, l1TTL time.Duration) *TwoPhaseCache {
	if l1TTL <= 0 {
		l1TTL = 5 * time.Minute
	}
	return &TwoPhaseCache{local: local, remote: remote, l1TTL: l1TTL}
}

func (c *TwoPhaseCache) localTTL(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < c.l1TTL {
		return ttl
	}
	return c.l1TTL
}

// Get checks L1, then L2, warming L1 on a remote hit.
func (c *TwoPhaseCache) Get(ctx context.Context, tenantID, key string) ([]byte, error) {
	val, err := c.local.Get(ctx, tenantID, key)
	if err != nil || val != nil {
		return val, err
	}

	val, err = c.remote.Get(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	if val != nil {
		_ = c.local.Set(ctx, tenantID, key, val, c.l1TTL)
	}
	return val, nil
}

// Set writes through to both layers.
func (c *TwoPhaseCache) Set(ctx context.Context, tenantID, key string, value []byte, ttl time.Duration) error {
	if err := c.local.Set(ctx, tenantID, key, value, c.localTTL(ttl)); err != nil {
		return err
	}
	return c.remote.Set(ctx, tenantID, key, value, ttl)
}

// Delete removes the key from both layers.
func (c *TwoPhaseCache) Delete(ctx context.Context, tenantID, key string) error {
	if err := c.local.Delete(ctx, tenantID, key); err != nil {
		return err
	}
	return c.remote.Delete(ctx, tenantID, key)
}

func (c *TwoPhaseCache) GetAnalysis(ctx context.Context, tenantID, fingerprint string) (*domain.Analysis, error) {
	return loadAnalysis(ctx, c, tenantID, fingerprint)
}

func (c *TwoPhaseCache) SetAnalysis(ctx context.Context, tenantID, fingerprint string, a *domain.Analysis, ttl time.Duration) error {
	return storeAnalysis(ctx, c, tenantID, fingerprint, a, ttl)
}

// Ping reports the first unhealthy layer.
func (c *TwoPhaseCache) Ping(ctx context.Context) error {
	if err := c.local.Ping(ctx); err != nil {
		return fmt.Errorf("L1 ping failed: %w", err)
	}
	if err := c.remote.Ping(ctx); err != nil {
		return fmt.Errorf("L2 ping failed: %w", err)
	}
	return nil
}

func (c *TwoPhaseCache) Close() error {
	_ = c.local.Close()
	return c.remote.Close()
}

// Stats returns L1 occupancy.
func (c *TwoPhaseCache) Stats() (size int, capacity int) {
	return c.local.Stats()
}
