package feed

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("feed",
	fx.Provide(New),
	fx.Provide(NewPoller),
	fx.Invoke(runPoller),
)

func runPoller(lc fx.Lifecycle, poller *Poller) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go poller.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
