package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcatalog "github.com/mjpos/backend/internal/application/catalog"
	appfinance "github.com/mjpos/backend/internal/application/finance"
	appidentity "github.com/mjpos/backend/internal/application/identity"
	appinventory "github.com/mjpos/backend/internal/application/inventory"
	apppartner "github.com/mjpos/backend/internal/application/partner"
	"github.com/mjpos/backend/internal/application/report"
	apptrade "github.com/mjpos/backend/internal/application/trade"
	"github.com/mjpos/backend/internal/infrastructure/auth"
	"github.com/mjpos/backend/internal/infrastructure/config"
	"github.com/mjpos/backend/internal/infrastructure/logger"
	"github.com/mjpos/backend/internal/infrastructure/persistence"
	"github.com/mjpos/backend/internal/infrastructure/storage"
	"github.com/mjpos/backend/internal/infrastructure/telemetry"
	"github.com/mjpos/backend/internal/interfaces/http/handler"
	"github.com/mjpos/backend/internal/interfaces/http/middleware"
	"github.com/mjpos/backend/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment))

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabaseWithCustomLogger(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled,
		DBName:          cfg.Database.Name,
		SlowQueryThresh: 200 * time.Millisecond,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	scope := persistence.NewGormTransactionScope(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	rollRepo := persistence.NewGormRollRepository(db.DB)
	unitRepo := persistence.NewGormInventoryUnitRepository(db.DB)
	returnRepo := persistence.NewGormReturnRecordRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	statsRepo := persistence.NewGormStatsRepository(db.DB)

	// Photo storage, S3-compatible when configured
	var photoStorage appcatalog.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(context.Background(), storage.Options{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		photoStorage = s3Storage
	} else {
		log.Info("Object storage disabled, photo uploads will be rejected")
		photoStorage = storage.NewStubObjectStorage()
	}

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unreachable, using in-memory token blacklist", zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			blacklist = auth.NewRedisTokenBlacklist(redisClient)
		}
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Application services
	itemService := appcatalog.NewItemService(itemRepo, rollRepo, unitRepo, photoStorage)
	unitService := appinventory.NewUnitService(unitRepo, itemRepo, returnRepo, txRepo)
	returnService := appinventory.NewReturnService(scope)
	saleService := apptrade.NewSaleService(scope)
	restockService := apptrade.NewRestockService(scope)
	partnerService := apppartner.NewPartnerService(customerRepo, supplierRepo)
	debtService := apppartner.NewDebtService(scope, statsRepo)
	cashboxService := appfinance.NewCashboxService(scope)
	statsService := report.NewStatsService(statsRepo)
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, log)

	// Handlers
	itemHandler := handler.NewItemHandler(itemService)
	inventoryHandler := handler.NewInventoryHandler(unitService, returnService)
	saleHandler := handler.NewSaleHandler(saleService)
	restockHandler := handler.NewRestockHandler(restockService)
	partnerHandler := handler.NewPartnerHandler(partnerService, debtService)
	cashboxHandler := handler.NewCashboxHandler(cashboxService)
	statsHandler := handler.NewStatsHandler(statsService)
	authHandler := handler.NewAuthHandler(authService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.BodyLimitBytes()))

	engine.GET("/health", healthHandler(db))
	engine.GET("/healthz", handler.Health)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	r.Use(middleware.TracingAttributeInjector())

	// Identity
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.POST("/users", authHandler.CreateUser)

	// Catalog
	itemRoutes := router.NewDomainGroup("items", "/items")
	itemRoutes.GET("", itemHandler.List)
	itemRoutes.POST("", itemHandler.Create)
	itemRoutes.GET("/low-stock", itemHandler.LowStock)
	itemRoutes.GET("/:id", itemHandler.Get)
	itemRoutes.PUT("/:id", itemHandler.Update)
	itemRoutes.DELETE("/:id", itemHandler.Delete)
	itemRoutes.POST("/:id/photo", itemHandler.UploadPhoto)

	rollRoutes := router.NewDomainGroup("rolls", "/rolls")
	rollRoutes.GET("/item/:itemId", itemHandler.ListRolls)
	rollRoutes.POST("", itemHandler.AddRoll)
	rollRoutes.DELETE("/:id", itemHandler.DeleteRoll)

	// Inventory units and returns
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("/items/:itemId/units", inventoryHandler.ListUnits)
	inventoryRoutes.GET("/barcodes/:barcode", inventoryHandler.LookupBarcode)
	inventoryRoutes.PATCH("/units/:unitId/barcode", inventoryHandler.AssignBarcode)
	inventoryRoutes.PATCH("/units/:unitId/status", inventoryHandler.UpdateStatus)
	inventoryRoutes.GET("/units/:unitId/history", inventoryHandler.UnitHistory)
	inventoryRoutes.POST("/units/:unitId/return", inventoryHandler.RequestReturn)
	inventoryRoutes.GET("/returns", inventoryHandler.ListReturns)
	inventoryRoutes.PATCH("/returns/:id", inventoryHandler.ResolveReturn)

	// Trade
	transactionRoutes := router.NewDomainGroup("transactions", "/transactions")
	transactionRoutes.POST("", saleHandler.Checkout)
	transactionRoutes.GET("/recent", saleHandler.Recent)
	transactionRoutes.GET("/:id/receipt", saleHandler.Receipt)
	transactionRoutes.PATCH("/:id", saleHandler.Edit)

	restockRoutes := router.NewDomainGroup("restocks", "/restocks")
	restockRoutes.POST("", restockHandler.Create)
	restockRoutes.GET("/history", restockHandler.History)
	restockRoutes.GET("/:id", restockHandler.Get)
	restockRoutes.GET("/:id/receipt", restockHandler.Get)

	receiptRoutes := router.NewDomainGroup("receipts", "/receipts")
	receiptRoutes.GET("/history", statsHandler.Receipts)

	// Partners
	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.GET("", partnerHandler.ListCustomers)
	customerRoutes.POST("", partnerHandler.CreateCustomer)
	customerRoutes.GET("/:id", partnerHandler.GetCustomer)
	customerRoutes.PUT("/:id", partnerHandler.UpdateCustomer)

	supplierRoutes := router.NewDomainGroup("suppliers", "/suppliers")
	supplierRoutes.GET("", partnerHandler.ListSuppliers)
	supplierRoutes.POST("", partnerHandler.CreateSupplier)
	supplierRoutes.GET("/debt", partnerHandler.ListDebts)
	supplierRoutes.GET("/:id/debt", partnerHandler.GetDebt)
	supplierRoutes.POST("/:id/payments", partnerHandler.RecordPayment)

	// Finance
	cashboxRoutes := router.NewDomainGroup("cashboxes", "/cashboxes")
	cashboxRoutes.GET("", cashboxHandler.List)
	cashboxRoutes.GET("/entries", cashboxHandler.Entries)
	cashboxRoutes.POST("/entries", cashboxHandler.RecordEntry)

	// Reporting
	statsRoutes := router.NewDomainGroup("stats", "/stats")
	statsRoutes.GET("/overview", statsHandler.Overview)

	r.Register(authRoutes).
		Register(itemRoutes).
		Register(rollRoutes).
		Register(inventoryRoutes).
		Register(transactionRoutes).
		Register(restockRoutes).
		Register(receiptRoutes).
		Register(customerRoutes).
		Register(supplierRoutes).
		Register(cashboxRoutes).
		Register(statsRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(c.Request.Context()); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
