package feed

import (
	"context"
	"time"

	"github.com/pulsetrail/pulsetrail/internal/config"
	"go.uber.org/zap"
)

// Poller keeps a Feed in sync with the server on a fixed interval.
type Poller struct {
	feed *Feed
	log  *zap.Logger
	cfg  *config.FeedConfigHolder
}

func NewPoller(feed *Feed, log *zap.Logger, cfg *config.FeedConfigHolder) *Poller {
	return &Poller{
		feed: feed,
		log:  log.Named("feed.poller"),
		cfg:  cfg,
	}
}

// RunForever refreshes until ctx is cancelled. The interval is re-read every
// cycle so config hot reloads take effect without a restart.
func (p *Poller) RunForever(ctx context.Context) {
	for {
		interval := p.cfg.Current().RefreshInterval
		timer := time.NewTimer(interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := p.RunOnce(ctx); err != nil {
			p.log.Warn("background refresh failed", zap.Error(err))
		}
	}
}

// RunOnce performs a single refresh bounded by the configured request timeout.
func (p *Poller) RunOnce(parentCtx context.Context) error {
	ctx, cancel := context.WithTimeout(parentCtx, p.cfg.Current().RequestTimeout)
	defer cancel()
	return p.feed.Refresh(ctx)
}
