package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ordersvc/fulfillment/internal/client"
	"github.com/ordersvc/fulfillment/internal/domain/order"
	"github.com/ordersvc/fulfillment/internal/handler"
	"github.com/ordersvc/fulfillment/internal/storage/memory"
	"github.com/ordersvc/fulfillment/pkg/health"
	"github.com/ordersvc/fulfillment/pkg/httpmiddleware"
)

// RunOrder wires and runs the order service: remote clients, ledger,
// orchestrator, HTTP surface, probes, and metrics.
func RunOrder(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	lg.Info("Initializing order service",
		zap.String("addr", cfg.Order.Addr),
		zap.String("directory_url", cfg.Order.DirectoryURL),
		zap.String("catalog_url", cfg.Order.CatalogURL))

	healthSvc := health.New("order-service")
	probeClient := &http.Client{Timeout: cfg.Order.ClientTimeout}
	healthSvc.AddReadinessCheck("directory", cfg.Order.ClientTimeout,
		health.HTTPCheck(probeClient, cfg.Order.DirectoryURL+"/health"))
	healthSvc.AddReadinessCheck("catalog", cfg.Order.ClientTimeout,
		health.HTTPCheck(probeClient, cfg.Order.CatalogURL+"/health"))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Collaborator clients and the ledger.
	directory := client.NewDirectoryClient(cfg.Order.DirectoryURL, cfg.Order.ClientTimeout)
	inventory := client.NewInventoryClient(cfg.Order.CatalogURL, cfg.Order.ClientTimeout)
	ledger := memory.NewLedger(cfg.Order.LedgerCapacity)

	// The orchestration core.
	orderService := order.NewService(directory, inventory, ledger)

	router := chi.NewRouter()
	router.Use(
		httpmiddleware.Recovery(),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Metrics(httpmiddleware.MetricsConfig{
			Namespace:    "order_service",
			RoutePattern: chiRoutePattern,
		}),
		httpmiddleware.LogRequests(),
	)

	handler.NewOrderHandler(orderService, ledger).Register(router)
	router.Get("/health", healthSvc.HealthEndpoint)
	router.Get("/livez", healthSvc.LiveEndpoint)
	router.Get("/readyz", healthSvc.ReadyEndpoint)
	router.Handle("/metrics", promhttp.Handler())

	return serve(ctx, lg, cfg.Graceful, healthSvc, cfg.Order.Addr, router)
}

// chiRoutePattern resolves the matched chi route pattern for metric labels,
// falling back to the raw path before routing happened.
func chiRoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
