// feedwatch tails one tenant's activity feed against a running server,
// logging new records as the background poller picks them up.
package main

import (
	"context"
	"net/http"

	"github.com/pulsetrail/pulsetrail/internal/config"
	"github.com/pulsetrail/pulsetrail/internal/feed"
	"github.com/pulsetrail/pulsetrail/internal/observability"
	"github.com/pulsetrail/pulsetrail/pkg/client"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newFeedClient),
		feed.Module,
		fx.Invoke(initialLoad),
	)
	app.Run()
}

func newFeedClient(cfg config.Config, holder *config.FeedConfigHolder) (feed.API, error) {
	timeout := holder.Current().RequestTimeout
	return client.New(cfg.FeedBaseURL, cfg.FeedTenantID,
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
}

func initialLoad(lc fx.Lifecycle, f *feed.Feed, cfg config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := f.Load(ctx); err != nil {
				return err
			}
			snap := f.Snapshot()
			log.Info("feed loaded",
				zap.String("tenant_id", cfg.FeedTenantID),
				zap.Int("entries", len(snap.Entries)),
				zap.Bool("has_more", snap.HasMore),
			)
			return nil
		},
	})
}
