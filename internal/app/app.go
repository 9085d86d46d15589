// Package app wires the FoodFleet API together and manages its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	carthandler "github.com/foodfleet/api/internal/cart/handler/http"
	cartredis "github.com/foodfleet/api/internal/cart/repository/redis"
	cartservice "github.com/foodfleet/api/internal/cart/service"
	cataloghandler "github.com/foodfleet/api/internal/catalog/handler/http"
	catalogpg "github.com/foodfleet/api/internal/catalog/repository/postgres"
	catalogservice "github.com/foodfleet/api/internal/catalog/service"
	checkouthandler "github.com/foodfleet/api/internal/checkout/handler/http"
	checkoutredis "github.com/foodfleet/api/internal/checkout/repository/redis"
	checkoutservice "github.com/foodfleet/api/internal/checkout/service"
	"github.com/foodfleet/api/internal/config"
	"github.com/foodfleet/api/internal/event"
	orderhandler "github.com/foodfleet/api/internal/order/handler/http"
	orderpg "github.com/foodfleet/api/internal/order/repository/postgres"
	orderservice "github.com/foodfleet/api/internal/order/service"
	"github.com/foodfleet/api/internal/payment"
	"github.com/foodfleet/api/internal/pricing"
	profilehandler "github.com/foodfleet/api/internal/profile/handler/http"
	profilepg "github.com/foodfleet/api/internal/profile/repository/postgres"
	profileservice "github.com/foodfleet/api/internal/profile/service"
	"github.com/foodfleet/api/migrations"
	"github.com/foodfleet/api/pkg/database"
	"github.com/foodfleet/api/pkg/health"
	"github.com/foodfleet/api/pkg/httpclient"
	pkgkafka "github.com/foodfleet/api/pkg/kafka"
	"github.com/foodfleet/api/pkg/middleware"
)

const serviceName = "foodfleet-api"

// App holds the assembled application and its long-lived resources.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server      *http.Server
	redisClient *redis.Client
	pgPool      *pgxpool.Pool
	producer    *pkgkafka.Producer
	checkoutSvc *checkoutservice.CheckoutService

	// cancelBase stops in-flight order submissions on shutdown.
	cancelBase context.CancelFunc
}

// NewApp builds the application from configuration, connecting to Postgres,
// Redis and Kafka and running schema migrations.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgCfg := cfg.PostgresConfig()
	pgPool, err := database.NewPostgresPoolWithLogger(initCtx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := database.RunMigrations(initCtx, pgPool, migrations.FS, logger); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(initCtx, cfg.RedisConfig())
	if err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	events := event.NewProducer(kafkaProducer, logger)

	sessionTTL := time.Duration(cfg.SessionTTL) * time.Hour
	pricer := pricing.NewCalculator(cfg.TaxRateBps, cfg.DeliveryFeeCents)

	catalogRepo := catalogpg.NewCatalogRepository(pgPool)
	catalogSvc := catalogservice.NewCatalogService(catalogRepo, logger)

	cartRepo := cartredis.NewCartRepository(redisClient, sessionTTL)
	cartSvc := cartservice.NewCartService(cartRepo, catalogSvc, events, logger, sessionTTL)

	orderRepo := orderpg.NewOrderRepository(pgPool)
	orderSvc := orderservice.NewOrderService(orderRepo, events, logger)

	profileRepo := profilepg.NewAddressRepository(pgPool)
	profileSvc := profileservice.NewProfileService(profileRepo, logger)

	baseCtx, cancelBase := context.WithCancel(context.Background())

	checkoutRepo := checkoutredis.NewSessionRepository(redisClient, sessionTTL)
	checkoutSvc := checkoutservice.NewCheckoutService(
		baseCtx,
		checkoutRepo,
		cartSvc,
		orderSvc,
		newAuthorizer(cfg, logger),
		pricer,
		events,
		logger,
		time.Duration(cfg.SubmitTimeoutSeconds)*time.Second,
	)

	prometheus.MustRegister(database.NewPoolStatsCollector(pgPool, serviceName))

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pgPool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return kafkaProducer.Ping(ctx)
	})

	router := newRouter(cfg, logger, healthHandler,
		cataloghandler.NewCatalogHandler(catalogSvc, logger),
		carthandler.NewCartHandler(cartSvc, pricer, logger),
		checkouthandler.NewCheckoutHandler(checkoutSvc, logger),
		orderhandler.NewOrderHandler(orderSvc, logger),
		profilehandler.NewProfileHandler(profileSvc, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		server:      server,
		redisClient: redisClient,
		pgPool:      pgPool,
		producer:    kafkaProducer,
		checkoutSvc: checkoutSvc,
		cancelBase:  cancelBase,
	}, nil
}

// newAuthorizer selects the payment backend. A configured gateway URL enables
// the HTTP gateway behind a circuit breaker; otherwise the simulator is used.
func newAuthorizer(cfg *config.Config, logger *slog.Logger) payment.Authorizer {
	if cfg.PaymentGatewayURL == "" {
		return payment.NewSimulator(
			time.Duration(cfg.PaymentSimDelayMS)*time.Millisecond,
			cfg.PaymentSimFailRate,
			logger,
		)
	}

	client := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("payment-gateway"), logger)
	return payment.NewGateway(cb, cfg.PaymentGatewayURL, logger)
}

func newRouter(
	cfg *config.Config,
	logger *slog.Logger,
	healthHandler *health.Handler,
	catalog *cataloghandler.CatalogHandler,
	cart *carthandler.CartHandler,
	checkout *checkouthandler.CheckoutHandler,
	orders *orderhandler.OrderHandler,
	profile *profilehandler.ProfileHandler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment
	r.Use(middleware.CORS(corsCfg))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", catalog.Routes)
		r.Route("/cart", cart.Routes)
		r.Route("/checkout", checkout.Routes)
		r.Route("/orders", orders.Routes)
		r.Route("/profile", profile.Routes)
	})

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// Shutdown stops the HTTP server, cancels in-flight order submissions and
// closes all connections.
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown", "error", err)
	}

	a.cancelBase()
	a.checkoutSvc.Wait()

	if err := a.producer.Close(); err != nil {
		a.logger.Error("close kafka producer", "error", err)
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("close redis client", "error", err)
	}
	a.pgPool.Close()

	a.logger.Info("shutdown complete")
}
