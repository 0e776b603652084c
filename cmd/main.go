package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloud-wave-best-zizon/inventory-service/internal/cache"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/domain"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/events"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/forecast"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/handler"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/report"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/repository"
	"github.com/cloud-wave-best-zizon/inventory-service/internal/service"
	"github.com/cloud-wave-best-zizon/inventory-service/pkg/config"
	"github.com/cloud-wave-best-zizon/inventory-service/pkg/logger"
	"github.com/cloud-wave-best-zizon/inventory-service/pkg/middleware"
	pkgtls "github.com/cloud-wave-best-zizon/inventory-service/pkg/tls"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LocalMode)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	decimal.MarshalJSONWithoutQuotes = true
	if !cfg.LocalMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialise store", zap.Error(err))
	}

	// Event fan-out: SSE clients always, Kafka when enabled.
	broadcaster := events.NewBroadcaster(64, zlog)
	publishers := events.MultiPublisher{broadcaster}
	var healthChecks []handler.HealthCheck

	var producer *events.KafkaProducer
	if cfg.KafkaEnabled {
		producer = events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, zlog)
		publishers = append(publishers, producer)
	}

	var statsCache cache.StatsCache = cache.NopStatsCache{}
	if cfg.RedisEnabled {
		redisCache := cache.NewRedisStatsCache(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.StatsCacheTTL, zlog)
		if err := redisCache.Ping(ctx); err != nil {
			zlog.Warn("Redis is unreachable, dashboard stats will be computed per request", zap.Error(err))
		}
		statsCache = redisCache
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Check: redisCache.Ping})
	}

	forecasts := forecast.NewStaticProvider(time.Now, uuid.NewString)

	var inventory *service.InventoryService
	generator := report.NewAsyncGenerator(store.Reports, report.DeferredRenderer{}, cfg.ReportWorkers, zlog,
		report.WithIDs(uuid.NewString),
		report.WithOnFinish(func(r domain.Report) { inventory.ReportFinished(r) }))

	inventory = service.NewInventoryService(store, forecasts, generator, publishers, statsCache, zlog, service.Options{
		Source:        cfg.ServiceName,
		Location:      cfg.Location(),
		ReorderPolicy: domain.ReorderPolicy{SafetyMargin: cfg.ReorderSafetyMargin},
	})

	products, err := inventory.ListProducts(ctx)
	if err != nil {
		zlog.Fatal("Failed to load products", zap.Error(err))
	}
	forecast.SeedFromProducts(forecasts, products)
	if err := inventory.ReconcileAll(ctx); err != nil {
		zlog.Error("Failed to reconcile alerts at startup", zap.Error(err))
	}

	var consumer *events.KafkaConsumer
	if cfg.KafkaEnabled {
		consumer = events.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, cfg.ServiceName, inventory, zlog)
		consumer.Start(ctx)
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "kafka", Check: consumer.HealthCheck})
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zlog))
	if cfg.RateLimit != "" {
		limit, err := middleware.RateLimit(cfg.RateLimit)
		if err != nil {
			zlog.Fatal("Invalid rate limit", zap.Error(err))
		}
		router.Use(limit)
	}

	health := handler.NewHealthHandler(cfg.ServiceName, zlog, healthChecks...)
	handler.RegisterRoutes(router, handler.NewHandlers(inventory, broadcaster, health, zlog))

	tlsConfig, tlsSource, err := pkgtls.LoadTLSConfig(ctx, pkgtls.TLSConfig{
		Enabled:    cfg.TLSEnabled,
		SocketPath: cfg.SpireSocketPath,
	}, zlog)
	if err != nil {
		zlog.Fatal("Failed to load TLS config", zap.Error(err))
	}
	defer tlsSource.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.Bool("tls", tlsConfig != nil),
			zap.Bool("local_mode", cfg.LocalMode))

		var err error
		if tlsConfig != nil {
			go tlsSource.WatchCertificates(ctx)
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// SSE streams only end when their subscription closes.
	broadcaster.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	if consumer != nil {
		consumer.Stop()
	}
	generator.Close()
	if producer != nil {
		if err := producer.Close(); err != nil {
			zlog.Error("Failed to close Kafka producer", zap.Error(err))
		}
	}
	zlog.Info("Server exited")
}

// newStore picks the in-memory store for local runs and DynamoDB otherwise.
func newStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (repository.Store, error) {
	if !cfg.LocalMode {
		client, err := repository.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return repository.Store{}, err
		}
		zlog.Info("Using DynamoDB store",
			zap.String("region", cfg.AWSRegion),
			zap.String("endpoint", cfg.AWSEndpoint))
		return repository.NewDynamoStore(client, repository.Tables{
			Products:     cfg.ProductTableName,
			Transactions: cfg.TransactionTableName,
			Alerts:       cfg.AlertTableName,
			Reports:      cfg.ReportTableName,
		}), nil
	}

	store := repository.NewMemoryStore().Store()
	if cfg.SeedDemoData {
		products, err := repository.Seed(ctx, store, time.Now(), uuid.NewString)
		if err != nil {
			return repository.Store{}, err
		}
		zlog.Info("Seeded demo data", zap.Int("products", len(products)))
	}
	zlog.Info("Using in-memory store")
	return store, nil
}
