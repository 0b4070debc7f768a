package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/landedcost-api/internal/application/service"
	"github.com/sangkips/landedcost-api/internal/config"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/infrastructure/cache"
	"github.com/sangkips/landedcost-api/internal/infrastructure/database"
	"github.com/sangkips/landedcost-api/internal/infrastructure/export"
	"github.com/sangkips/landedcost-api/internal/infrastructure/messaging"
	"github.com/sangkips/landedcost-api/internal/infrastructure/repository"
	"github.com/sangkips/landedcost-api/internal/presentation/http/handler"
	"github.com/sangkips/landedcost-api/internal/presentation/http/middleware"
	"github.com/sangkips/landedcost-api/internal/presentation/http/routes"
	"github.com/sangkips/landedcost-api/pkg/logger"
	"github.com/sangkips/landedcost-api/pkg/money"
	"github.com/sangkips/landedcost-api/pkg/utils"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.App.Env, cfg.App.Debug)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := database.SeedDefaultData(db, &cfg.Seed); err != nil {
		logger.Warn().Err(err).Msg("failed to seed default data")
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)

	// Repositories
	agencyRepo := repository.NewShippingAgencyRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	orderRepo := repository.NewSupplierOrderRepository(db)
	lineRepo := repository.NewSupplierOrderLineRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	reportCache := cache.NewNopReportCache()
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, cost reports will not be cached")
		} else {
			defer rdb.Close()
			reportCache = cache.NewRedisReportCache(rdb, cfg.Redis.TTL)
		}
	}

	publisher := messaging.NewNopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing supplier order events")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	engine := costing.NewEngine(cfg.Costing.LocalCurrency)
	formatter := money.NewFormatter(cfg.Costing.DisplayLocale, cfg.Costing.LocalCurrency)

	// Services
	agencyService := service.NewShippingAgencyService(agencyRepo, deliveryRepo, orderRepo, engine)
	shippingService := service.NewShippingService(engine, agencyRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	orderService := service.NewSupplierOrderService(orderRepo, lineRepo, deliveryRepo, supplierRepo, agencyRepo, engine, publisher)
	reportService := service.NewCostReportService(orderRepo, engine, reportCache, export.NewCostReportXLSX(formatter))
	dashboardService := service.NewDashboardService(orderRepo, supplierRepo, agencyRepo, engine)

	handlers := &routes.Handlers{
		ShippingAgency: handler.NewShippingAgencyHandler(agencyService),
		Shipping:       handler.NewShippingHandler(shippingService),
		Supplier:       handler.NewSupplierHandler(supplierService),
		SupplierOrder:  handler.NewSupplierOrderHandler(orderService),
		CostReport:     handler.NewCostReportHandler(reportService),
		Dashboard:      handler.NewDashboardHandler(dashboardService),
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to access database pool")
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Ping:            sqlDB.PingContext,
		BaseCtx:         ctx,
	})

	go middleware.PurgeExpiredKeys(ctx, idempotencyRepo, time.Hour)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("app", cfg.App.Name).Str("env", cfg.App.Env).Str("port", cfg.App.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close database")
	}
}
