// Command stack runs all three fulfillment services in one process for local
// development. Each service keeps its own listener and in-memory state, so
// the behavior matches running the three binaries separately.
package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appkg "github.com/ordersvc/fulfillment/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return appkg.RunDirectory(ctx, lg.Named("directory"), cfg)
		})
		g.Go(func() error {
			return appkg.RunCatalog(ctx, lg.Named("catalog"), cfg)
		})
		g.Go(func() error {
			return appkg.RunOrder(ctx, lg.Named("order"), cfg)
		})
		return g.Wait()
	})
}
