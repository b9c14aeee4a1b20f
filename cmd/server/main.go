package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	alertapp "github.com/ferrepos/backend/internal/application/alert"
	catalogapp "github.com/ferrepos/backend/internal/application/catalog"
	identityapp "github.com/ferrepos/backend/internal/application/identity"
	partnerapp "github.com/ferrepos/backend/internal/application/partner"
	rateapp "github.com/ferrepos/backend/internal/application/rate"
	saleapp "github.com/ferrepos/backend/internal/application/sale"
	"github.com/ferrepos/backend/internal/domain/identity"
	"github.com/ferrepos/backend/internal/infrastructure/auth"
	"github.com/ferrepos/backend/internal/infrastructure/config"
	"github.com/ferrepos/backend/internal/infrastructure/event"
	"github.com/ferrepos/backend/internal/infrastructure/logger"
	"github.com/ferrepos/backend/internal/infrastructure/persistence"
	"github.com/ferrepos/backend/internal/infrastructure/push"
	"github.com/ferrepos/backend/internal/infrastructure/rate"
	"github.com/ferrepos/backend/internal/infrastructure/scheduler"
	"github.com/ferrepos/backend/internal/infrastructure/telemetry"
	"github.com/ferrepos/backend/internal/interfaces/http/dto"
	"github.com/ferrepos/backend/internal/interfaces/http/handler"
	"github.com/ferrepos/backend/internal/interfaces/http/middleware"
	"github.com/ferrepos/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FerrePOS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Tracing
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		if cfg.Telemetry.DBTraceEnabled {
			dbTraceCfg := telemetry.DefaultDBTracingConfig()
			dbTraceCfg.Enabled = true
			dbTracing := telemetry.NewDBTracingPlugin(dbTraceCfg, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			}
		}
	}

	// Redis backs the token blacklist and the exchange-rate cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Event bus with the low-stock alert handler
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(alertapp.NewLowStockHandler(notificationRepo, push.NewRedisPublisher(redisClient), log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(ctx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Exchange rate providers. The sale path uses the cached provider
	// directly so a dead upstream refuses sales instead of mispricing
	// them; only the informational endpoint gets the configured fallback.
	rateClient := rate.NewClient(cfg.Rate)
	cachedRates := rate.NewCachedProvider(rateClient, redisClient, cfg.Rate.CacheTTL, log)
	publicRates := rate.NewFallbackProvider(cachedRates, decimal.NewFromFloat(cfg.Rate.FallbackRate), log)

	// Auth services
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklistWithClient(redisClient)
	dailyCodes := auth.NewDailyCodeService(cfg.Sales.AdminCodeSeed)

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	productService := catalogapp.NewProductService(productRepo, saleRepo, eventBus, log)
	customerService := partnerapp.NewCustomerService(customerRepo, saleRepo, eventBus, log)
	saleService := saleapp.NewSaleService(saleRepo, productRepo, customerRepo, cachedRates, txManager, eventBus, dailyCodes, cfg.Sales, log)
	alertService := alertapp.NewAlertService(notificationRepo, log)
	rateService := rateapp.NewRateService(publicRates, log)

	// Seasonal demand sweep on the daily scheduler
	seasonalSweep := alertapp.NewSeasonalSweepService(userRepo, notificationRepo, log)
	dailyScheduler, err := scheduler.NewDailyScheduler(cfg.Scheduler, seasonalSweep, log)
	if err != nil {
		log.Fatal("Invalid scheduler configuration", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		if err := dailyScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := dailyScheduler.Stop(ctx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Seasonal sweep scheduler started",
			zap.String("schedule", cfg.Scheduler.DailyCronSchedule),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService, cfg.Sales)
	customerHandler := handler.NewCustomerHandler(customerService)
	saleHandler := handler.NewSaleHandler(saleService)
	alertHandler := handler.NewAlertHandler(alertService)
	rateHandler := handler.NewRateHandler(rateService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterValidations(); err != nil {
		log.Fatal("Failed to register request validations", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, recovery, request logging, security
	// headers, CORS, body limit, then rate limiting.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
			"/api/v1/rates/current",
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth domain
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/profile", authHandler.Profile)

	// Catalog domain. Stock and price edits stay with the back office.
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/low-stock", productHandler.LowStock)
	catalogRoutes.GET("/products/:id", productHandler.Get)
	catalogRoutes.POST("/products", middleware.RequireRole(identity.RoleAdmin, identity.RoleWarehouse), productHandler.Create)
	catalogRoutes.PUT("/products/:id", middleware.RequireRole(identity.RoleAdmin, identity.RoleWarehouse), productHandler.Update)
	catalogRoutes.DELETE("/products/:id", middleware.RequireAdmin(), productHandler.Delete)

	// Partner domain
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.Get)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.DELETE("/customers/:id", middleware.RequireAdmin(), customerHandler.Delete)

	// Sales domain
	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.POST("", saleHandler.Create)
	salesRoutes.GET("", saleHandler.List)
	salesRoutes.GET("/credits/pending", saleHandler.PendingCredits)
	salesRoutes.GET("/admin/security-code", middleware.RequireAdmin(), saleHandler.DailyCode)
	salesRoutes.GET("/:id", saleHandler.Get)
	salesRoutes.POST("/:id/payments", saleHandler.SettleCredit)
	salesRoutes.POST("/:id/security-code", saleHandler.IssueSecurityCode)
	salesRoutes.POST("/:id/security-code/validate", saleHandler.ValidateSecurityCode)

	// Alerts domain
	alertRoutes := router.NewDomainGroup("alerts", "/alerts")
	alertRoutes.GET("/notifications", alertHandler.Unread)
	alertRoutes.POST("/notifications/read", alertHandler.MarkRead)
	alertRoutes.GET("/seasonal", alertHandler.SeasonalOutlook)

	// Rates domain (public, skipped by JWT middleware)
	rateRoutes := router.NewDomainGroup("rates", "/rates")
	rateRoutes.GET("/current", rateHandler.Current)

	r.Register(authRoutes).
		Register(catalogRoutes).
		Register(partnerRoutes).
		Register(salesRoutes).
		Register(alertRoutes).
		Register(rateRoutes)

	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		resp := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		}
		if stats, err := db.Stats(); err == nil {
			resp["pool"] = gin.H{
				"open":   stats.OpenConnections,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
