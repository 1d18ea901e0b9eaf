package migration

import (
	"context"

	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"github.com/pulsetrail/pulsetrail/internal/config"
	"github.com/pulsetrail/pulsetrail/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Conn    *gorm.DB
	Cfg     config.Config
	Log     *zap.Logger
	Limiter *ratelimit.WriteLimiter `optional:"true"`
}

var Module = fx.Module("migrations",
	fx.Invoke(func(p Params) error {
		// Versioned SQL migrations are postgres-only; sqlite and mysql
		// (dev/test targets) build the schema from the model instead.
		if p.Cfg.DBType == "postgres" {
			sqlDB, err := p.Conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := p.Conn.AutoMigrate(&domain.Activity{}); err != nil {
				return err
			}
		}

		if p.Cfg.SeedDemoData {
			var lock bootLock
			if locker := p.Limiter.Locker(); locker != nil {
				lock = locker
			}
			return seedWithLock(context.Background(), p.Conn, lock, p.Log)
		}
		return nil
	}),
)
