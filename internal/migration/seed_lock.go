package migration

import (
	"context"
	"time"

	"github.com/pulsetrail/pulsetrail/internal/seed"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedLockKey = "pulsetrail:seed:demo"
	seedLockTTL = 30 * time.Second
)

type bootLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

// seedWithLock runs the demo seeder, coordinating across replicas when a
// redis lock is available. Lock failures fall back to seeding directly; the
// seeder itself is idempotent.
func seedWithLock(ctx context.Context, conn *gorm.DB, lock bootLock, log *zap.Logger) error {
	if lock == nil {
		return seed.EnsureDemoActivities(conn)
	}

	token, ok, err := lock.TryLock(ctx, seedLockKey, seedLockTTL)
	if err != nil {
		log.Warn("seed lock unavailable, seeding without it", zap.Error(err))
		return seed.EnsureDemoActivities(conn)
	}
	if !ok {
		log.Info("demo seeding held by another replica, skipping")
		return nil
	}
	defer func() {
		if err := lock.Release(ctx, seedLockKey, token); err != nil {
			log.Warn("failed to release seed lock", zap.Error(err))
		}
	}()

	return seed.EnsureDemoActivities(conn)
}
