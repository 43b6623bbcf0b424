package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	partnerapp "github.com/teasupply/backend/internal/application/partner"
	paymentapp "github.com/teasupply/backend/internal/application/payment"
	stockapp "github.com/teasupply/backend/internal/application/stock"
	supplyapp "github.com/teasupply/backend/internal/application/supply"
	"github.com/teasupply/backend/internal/domain/shared"
	"github.com/teasupply/backend/internal/infrastructure/auth"
	"github.com/teasupply/backend/internal/infrastructure/cache"
	"github.com/teasupply/backend/internal/infrastructure/config"
	"github.com/teasupply/backend/internal/infrastructure/event"
	"github.com/teasupply/backend/internal/infrastructure/logger"
	"github.com/teasupply/backend/internal/infrastructure/mail"
	"github.com/teasupply/backend/internal/infrastructure/persistence"
	"github.com/teasupply/backend/internal/infrastructure/scheduler"
	"github.com/teasupply/backend/internal/interfaces/http/handler"
	"github.com/teasupply/backend/internal/interfaces/http/middleware"
	"github.com/teasupply/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting tea supply backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// SQL statement logging only in debug runs
	gormLogLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	supplyRepo := persistence.NewGormSupplyRecordRepository(db.DB)
	lotRepo := persistence.NewGormInventoryLotRepository(db.DB)
	productionRepo := persistence.NewGormProductionRecordRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	reconciliationRepo := persistence.NewGormReconciliationRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Webhook idempotency store. Redis is shared across instances; the
	// in-memory fallback keeps a single-node deployment working.
	var idempotencyStore shared.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = redisStore
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Application services
	supplyService := supplyapp.NewSupplyService(supplyRepo, supplierRepo)
	stockService := stockapp.NewStockService(supplyRepo, lotRepo, productionRepo, txScope)
	paymentService := paymentapp.NewPaymentService(paymentRepo, supplyRepo, idempotencyStore)
	reconciliationService := paymentapp.NewReconciliationService(reconciliationRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)

	// Event bus and cross-cutting handlers
	eventBus := event.NewInMemoryEventBus(log)

	var notifier mail.Notifier = mail.NoopNotifier{}
	if cfg.Mail.Enabled {
		notifier = mail.NewSMTPNotifier(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.From, cfg.Mail.To)
		log.Info("Mail notifications enabled", zap.String("host", cfg.Mail.Host))
	}
	paymentFailureHandler := mail.NewPaymentFailureHandler(notifier, log)
	eventBus.Subscribe(paymentFailureHandler)

	supplyService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	stockService.SetLogger(log)
	paymentService.SetEventPublisher(eventBus)
	paymentService.SetLogger(log)
	supplierService.SetEventPublisher(eventBus)
	supplierService.SetLogger(log)

	// Background dormancy sweep
	if cfg.Scheduler.Enabled {
		sweeper := scheduler.NewDormancySweeper(scheduler.DormancySweeperConfig{
			Interval:   cfg.Scheduler.SweepInterval,
			RunAtStart: cfg.Scheduler.RunAtStart,
		}, supplierService, log)
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start dormancy sweeper", zap.Error(err))
		}
		defer sweeper.Stop()
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middlewareStack(log)...)

	router.Setup(engine, router.Handlers{
		System:   handler.NewSystemHandler(db),
		Supply:   handler.NewSupplyHandler(supplyService),
		Stock:    handler.NewStockHandler(stockService),
		Payment:  handler.NewPaymentHandler(paymentService, reconciliationService),
		Supplier: handler.NewSupplierHandler(supplierService),
	}, jwtService)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// middlewareStack is the global middleware chain, outermost first:
// request IDs before everything, panic recovery before logging.
func middlewareStack(log *zap.Logger) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
	}
}
