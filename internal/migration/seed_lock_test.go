package migration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLock struct {
	held         bool
	tryErr       error
	tryCalls     int
	releaseCalls int
	releasedKey  string
	releasedTok  string
}

func (f *fakeLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	f.tryCalls++
	if f.tryErr != nil {
		return "", false, f.tryErr
	}
	if f.held {
		return "", false, nil
	}
	return "tok-1", true, nil
}

func (f *fakeLock) Release(ctx context.Context, key, token string) error {
	f.releaseCalls++
	f.releasedKey = key
	f.releasedTok = token
	return nil
}

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Activity{}))
	return db
}

func demoCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.Activity{}).Where("tenant_id = ?", "demo").Count(&count).Error)
	return count
}

func TestSeedWithLockAcquiresAndReleases(t *testing.T) {
	db := setupSeedDB(t)
	lock := &fakeLock{}

	require.NoError(t, seedWithLock(context.Background(), db, lock, zap.NewNop()))

	require.Equal(t, int64(len(domain.Types())), demoCount(t, db))
	require.Equal(t, 1, lock.tryCalls)
	require.Equal(t, 1, lock.releaseCalls)
	require.Equal(t, seedLockKey, lock.releasedKey)
	require.Equal(t, "tok-1", lock.releasedTok)
}

func TestSeedWithLockSkipsWhenHeldElsewhere(t *testing.T) {
	db := setupSeedDB(t)
	lock := &fakeLock{held: true}

	require.NoError(t, seedWithLock(context.Background(), db, lock, zap.NewNop()))

	require.Zero(t, demoCount(t, db), "losing the lock must leave seeding to the holder")
	require.Zero(t, lock.releaseCalls)
}

func TestSeedWithLockFailsOpenOnLockError(t *testing.T) {
	db := setupSeedDB(t)
	lock := &fakeLock{tryErr: errors.New("redis unreachable")}

	require.NoError(t, seedWithLock(context.Background(), db, lock, zap.NewNop()))

	require.Equal(t, int64(len(domain.Types())), demoCount(t, db))
}

func TestSeedWithLockNilLockSeedsDirectly(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, seedWithLock(context.Background(), db, nil, zap.NewNop()))
	require.Equal(t, int64(len(domain.Types())), demoCount(t, db))

	// Idempotent across repeats.
	require.NoError(t, seedWithLock(context.Background(), db, nil, zap.NewNop()))
	require.Equal(t, int64(len(domain.Types())), demoCount(t, db))
}
