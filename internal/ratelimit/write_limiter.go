package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pulsetrail/pulsetrail/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyWriteGlobal = "activity:write:global"
	keyWriteTenant = "activity:write:tenant:%s"
)

// WriteLimiter throttles activity writes with a global bucket plus one
// bucket per tenant. A nil limiter allows everything.
type WriteLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	globalRate  float64
	globalBurst int
	tenantRate  float64
	tenantBurst int
}

func NewWriteLimiter(cfg config.Config) (*WriteLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.WriteRate <= 0 || limitCfg.WriteBurst <= 0 {
		return nil, errors.New("global write rate limit must be positive")
	}
	if limitCfg.TenantWriteRate <= 0 || limitCfg.TenantWriteBurst <= 0 {
		return nil, errors.New("tenant write rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &WriteLimiter{
		enabled:     true,
		bucket:      NewTokenBucket(client),
		locker:      NewLocker(client),
		globalRate:  limitCfg.WriteRate,
		globalBurst: limitCfg.WriteBurst,
		tenantRate:  limitCfg.TenantWriteRate,
		tenantBurst: limitCfg.TenantWriteBurst,
	}, nil
}

func (l *WriteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowGlobal checks the shared write bucket.
func (l *WriteLimiter) AllowGlobal(ctx context.Context) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, keyWriteGlobal, l.globalRate, l.globalBurst)
}

// AllowTenant checks the per-tenant write bucket.
func (l *WriteLimiter) AllowTenant(ctx context.Context, tenantID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyWriteTenant, strings.TrimSpace(tenantID))
	return l.bucket.Allow(ctx, key, l.tenantRate, l.tenantBurst)
}

// Locker exposes the shared redis lock, used to coordinate one-shot jobs
// across replicas. Nil when the limiter is disabled.
func (l *WriteLimiter) Locker() *Locker {
	if !l.Enabled() {
		return nil
	}
	return l.locker
}
