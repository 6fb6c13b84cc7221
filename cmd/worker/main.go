package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/quickmeds/pharmacy-api/internal/app/seed"
	cartmemory "github.com/quickmeds/pharmacy-api/internal/domains/cart/adapters/memory"
	cartredis "github.com/quickmeds/pharmacy-api/internal/domains/cart/adapters/redis"
	cartports "github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
	catalogmemory "github.com/quickmeds/pharmacy-api/internal/domains/catalog/adapters/memory"
	inventorymemory "github.com/quickmeds/pharmacy-api/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/quickmeds/pharmacy-api/internal/domains/inventory/adapters/persistence/postgres"
	inventoryports "github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
	ordersmemory "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/memory"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/notify"
	orderspostgres "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/quickmeds/pharmacy-api/internal/domains/orders/application"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	ordersports "github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
	platformobservability "github.com/quickmeds/pharmacy-api/internal/platform/observability"
	platformpostgres "github.com/quickmeds/pharmacy-api/internal/platform/postgres"
	orderactivities "github.com/quickmeds/pharmacy-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/quickmeds/pharmacy-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "pharmacy-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, stock, cleanupRepo := buildOrderStores(ctx, logger)
	defer cleanupRepo()

	var verifier *payments.Verifier
	if secret := strings.TrimSpace(os.Getenv("PAYMENT_SECRET")); secret != "" {
		verifier = payments.NewVerifier(secret)
	} else {
		logger.Warn("PAYMENT_SECRET not set, gateway payments will be rejected")
	}

	// The persist activity runs without a notifier; the notification activity
	// announces the order with its own retry policy. Catalog, promos, stock,
	// and cart deps must mirror the API process: with Temporal enabled every
	// checkout executes here, not inline.
	persistService := ordersapp.NewService(ordersapp.Deps{
		Repo:     orderRepo,
		Catalog:  catalogmemory.NewReader(seed.Catalog()...),
		Stock:    stock,
		Promos:   ordersmemory.NewPromoTable(seed.Promos()...),
		Carts:    buildCartRepository(ctx, logger),
		Verifier: verifier,
		Pharmacy: pharmacyPin(),
		Logger:   logger,
	})
	notifier := notify.NewLogNotifier(logger)
	orderActivities := orderactivities.NewActivities(persistService, orderRepo, notifier)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderFulfillmentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderFulfillmentWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderFulfillmentWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	w.RegisterActivityWithOptions(orderActivities.NotifyOrderConfirmed, activity.RegisterOptions{Name: orderactivities.NotifyOrderConfirmedActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderFulfillmentTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderStores(ctx context.Context, logger *slog.Logger) (ordersports.Repository, inventoryports.Ledger, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		logger.Warn("worker running on in-memory stores; orders will not survive restarts")
		ledger := inventorymemory.NewLedger()
		for itemID, qty := range seed.StockLevels() {
			ledger.Seed(itemID, qty)
		}
		return ordersmemory.NewRepository(), ledger, cleanup
	}
	logger.Info("worker order stores configured with postgres")
	return orderspostgres.NewRepository(db), inventorypostgres.NewLedger(db), cleanup
}

// buildCartRepository mirrors the API wiring so the worker clears the same
// cart store after a successful checkout. Without redis the two processes
// hold separate in-memory carts and the clear is a no-op here.
func buildCartRepository(ctx context.Context, logger *slog.Logger) cartports.Repository {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		logger.Warn("REDIS_ADDR not set, worker cannot clear API-side carts after checkout")
		return cartmemory.NewRepository()
	}
	client, err := cartredis.Connect(ctx, addr)
	if err != nil {
		logger.Warn("failed to connect to redis, worker cannot clear API-side carts after checkout", slog.String("error", err.Error()))
		return cartmemory.NewRepository()
	}
	logger.Info("worker cart repository configured with redis", slog.String("addr", addr))
	return cartredis.NewRepository(client)
}

func pharmacyPin() *ordersdomain.GeoPoint {
	lat := envFloatOrDefault("PHARMACY_LAT", 28.6139)
	lng := envFloatOrDefault("PHARMACY_LNG", 77.2090)
	return &ordersdomain.GeoPoint{Lat: lat, Lng: lng, UpdatedAt: time.Now().UTC()}
}

func envFloatOrDefault(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
