package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/quickmeds/pharmacy-api/internal/app/seed"
	gatewayclient "github.com/quickmeds/pharmacy-api/internal/clients/http/gateway"
	cartmemory "github.com/quickmeds/pharmacy-api/internal/domains/cart/adapters/memory"
	cartredis "github.com/quickmeds/pharmacy-api/internal/domains/cart/adapters/redis"
	cartapp "github.com/quickmeds/pharmacy-api/internal/domains/cart/application"
	cartports "github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
	catalogmemory "github.com/quickmeds/pharmacy-api/internal/domains/catalog/adapters/memory"
	deliverymemory "github.com/quickmeds/pharmacy-api/internal/domains/delivery/adapters/memory"
	deliverypostgres "github.com/quickmeds/pharmacy-api/internal/domains/delivery/adapters/persistence/postgres"
	deliveryapp "github.com/quickmeds/pharmacy-api/internal/domains/delivery/application"
	deliverydomain "github.com/quickmeds/pharmacy-api/internal/domains/delivery/domain"
	deliveryports "github.com/quickmeds/pharmacy-api/internal/domains/delivery/ports"
	inventorymemory "github.com/quickmeds/pharmacy-api/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/quickmeds/pharmacy-api/internal/domains/inventory/adapters/persistence/postgres"
	inventoryports "github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
	ordersmemory "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/memory"
	"github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/notify"
	ordersobs "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/quickmeds/pharmacy-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/quickmeds/pharmacy-api/internal/domains/orders/application"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
	ordersports "github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
	"github.com/quickmeds/pharmacy-api/internal/httpapi"
	platformmigrations "github.com/quickmeds/pharmacy-api/internal/platform/migrations"
	platformobservability "github.com/quickmeds/pharmacy-api/internal/platform/observability"
	platformpostgres "github.com/quickmeds/pharmacy-api/internal/platform/postgres"
)

// Run boots the pharmacy HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "pharmacy-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := platformmigrations.Run(db); err != nil {
			logger.Error("schema migration failed", slog.String("error", err.Error()))
			return err
		}
	}

	catalog := catalogmemory.NewReader(seed.Catalog()...)

	var stock inventoryports.Ledger
	var orderRepo ordersports.Repository
	var agentRepo deliveryports.Repository
	if db != nil {
		stock = inventorypostgres.NewLedger(db)
		orderRepo = orderspostgres.NewRepository(db)
		agentRepo = deliverypostgres.NewRepository(db)
	} else {
		memStock := inventorymemory.NewLedger()
		seedStock(memStock)
		stock = memStock
		orderRepo = ordersmemory.NewRepository()
		memAgents := deliverymemory.NewRepository()
		seedAgents(ctx, memAgents, logger)
		agentRepo = memAgents
	}

	cartRepo := buildCartRepository(ctx, cfg, logger)
	promos := ordersmemory.NewPromoTable(seed.Promos()...)
	notifier := notify.NewLogNotifier(logger)

	var verifier *payments.Verifier
	if cfg.PaymentSecret != "" {
		verifier = payments.NewVerifier(cfg.PaymentSecret)
	} else {
		logger.Warn("PAYMENT_SECRET not set, gateway payments will be rejected")
	}
	paymentGateway := buildPaymentGateway(cfg, verifier, logger)

	pharmacy := &ordersdomain.GeoPoint{Lat: cfg.PharmacyLat, Lng: cfg.PharmacyLng, UpdatedAt: time.Now().UTC()}

	deliveryService := deliveryapp.NewService(agentRepo, orderRepo, notifier, logger)
	coreOrderService := ordersapp.NewService(ordersapp.Deps{
		Repo:     orderRepo,
		Catalog:  catalog,
		Stock:    stock,
		Promos:   promos,
		Carts:    cartRepo,
		Verifier: verifier,
		Releaser: deliveryService,
		Notifier: notifier,
		Pharmacy: pharmacy,
		Logger:   logger,
	})
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline order creation", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	cartService := cartapp.NewService(cartRepo, catalog, stock)

	handlers := httpapi.Handlers{
		CartAPI:     httpapi.NewCartAPI(cartService),
		OrderAPI:    httpapi.NewOrderAPI(orderService, orderWorkflows),
		DeliveryAPI: httpapi.NewDeliveryAPI(deliveryService),
		PaymentsAPI: httpapi.NewPaymentsAPI(paymentGateway),
	}
	router := httpapi.NewRouter(handlers, otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("pharmacy API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("pharmacy API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildPaymentGateway prefers the remote gateway when one is configured. With
// only a shared secret the local stub serves checkout smoke tests; with
// neither, gateway-order creation fails loudly instead of fabricating IDs.
func buildPaymentGateway(cfg Config, verifier *payments.Verifier, logger *slog.Logger) payments.Gateway {
	if cfg.PaymentGatewayURL != "" {
		client, err := gatewayclient.NewClient(cfg.PaymentGatewayURL, nil)
		if err == nil {
			logger.Info("payment gateway configured", slog.String("url", cfg.PaymentGatewayURL))
			return client
		}
		logger.Warn("failed to build payment gateway client, falling back to stub", slog.String("error", err.Error()))
	}
	if verifier != nil {
		return payments.StubGateway{}
	}
	return payments.UnavailableGateway{}
}

func buildCartRepository(ctx context.Context, cfg Config, logger *slog.Logger) cartports.Repository {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, falling back to in-memory cart repository")
		return cartmemory.NewRepository()
	}
	redisClient, err := cartredis.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("failed to connect to redis, falling back to in-memory cart repository", slog.String("error", err.Error()))
		return cartmemory.NewRepository()
	}
	logger.Info("cart repository configured with redis", slog.String("addr", cfg.RedisAddr))
	return cartredis.NewRepository(redisClient)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func seedStock(ledger *inventorymemory.Ledger) {
	for itemID, qty := range seed.StockLevels() {
		ledger.Seed(itemID, qty)
	}
}

func seedAgents(ctx context.Context, repo deliveryports.Repository, logger *slog.Logger) {
	now := time.Now().UTC()
	agents := []*deliverydomain.Agent{
		{Name: "Ravi Kumar", Phone: "+91-98100-11111", Vehicle: "bike", Status: deliverydomain.StatusAvailable,
			Location: &ordersdomain.GeoPoint{Lat: 28.61, Lng: 77.21, UpdatedAt: now}, Rating: 4.7},
		{Name: "Sunita Devi", Phone: "+91-98100-22222", Vehicle: "scooter", Status: deliverydomain.StatusAvailable,
			Location: &ordersdomain.GeoPoint{Lat: 28.63, Lng: 77.22, UpdatedAt: now}, Rating: 4.9},
		{Name: "Imran Shaikh", Phone: "+91-98100-33333", Vehicle: "bike", Status: deliverydomain.StatusOffline, Rating: 4.4},
	}
	for _, agent := range agents {
		if _, err := repo.Create(ctx, agent); err != nil {
			logger.Warn("failed to seed delivery agent", slog.String("name", agent.Name), slog.String("error", err.Error()))
		}
	}
}
