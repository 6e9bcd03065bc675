package app

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ordersvc/fulfillment/internal/handler"
	"github.com/ordersvc/fulfillment/internal/storage/memory"
	"github.com/ordersvc/fulfillment/pkg/health"
	"github.com/ordersvc/fulfillment/pkg/httpmiddleware"
)

// RunDirectory wires and runs the user directory service.
func RunDirectory(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	lg.Info("Initializing directory service", zap.String("addr", cfg.Directory.Addr))

	healthSvc := health.New("user-service")
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	store := memory.NewDirectoryStore()

	router := chi.NewRouter()
	handler.NewDirectoryHandler(store).Register(router)
	router.Get("/health", healthSvc.HealthEndpoint)
	router.Get("/livez", healthSvc.LiveEndpoint)
	router.Get("/readyz", healthSvc.ReadyEndpoint)

	h := httpmiddleware.Wrap(router,
		httpmiddleware.Recovery(),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.LogRequests(),
	)

	return serve(ctx, lg, cfg.Graceful, healthSvc, cfg.Directory.Addr, h)
}
