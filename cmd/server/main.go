package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	identityapp "github.com/shopfront/backend/internal/application/identity"
	"github.com/shopfront/backend/internal/application/importapp"
	notificationapp "github.com/shopfront/backend/internal/application/notification"
	tradeapp "github.com/shopfront/backend/internal/application/trade"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/feed"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/notify"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/storage"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopfront/backend/internal/infrastructure/worker"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/shopfront/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Shopfront API
//	@version		1.0
//	@description	Multi-vendor marketplace: catalog feeds, baskets and orders

//	@license.name	MIT

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Shopfront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = !cfg.App.IsProduction()
	db, err := persistence.Open(ctx, &cfg.Database, persistence.Options{
		Logger: logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond),
		Setup:  []func(*gorm.DB) error{telemetry.NewDBTracingPlugin(dbTracing, log).Register},
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is optional; without it the blacklist and idempotency keys live in memory
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		redisClient = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	idempotency := cache.NewIdempotencyStore(redisClient, "shopfront:notify:", log)

	accountRepo := persistence.NewGormAccountRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	tokenRepo := persistence.NewGormTokenRepository(db.DB)
	shopRepo := persistence.NewGormShopRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	provider, err := notify.NewProviderFromConfig(ctx, cfg.Notify, log)
	if err != nil {
		log.Fatal("Failed to configure email providers", zap.Error(err))
	}
	dispatcher := notify.NewDispatcher(provider, idempotency, notify.NewDispatcherConfig(cfg.Notify), log)
	if err := dispatcher.Start(ctx); err != nil {
		log.Fatal("Failed to start email dispatcher", zap.Error(err))
	}

	pool := worker.NewPool(worker.Config{
		Workers:       cfg.Worker.Workers,
		QueueSize:     cfg.Worker.QueueSize,
		JobTimeout:    cfg.Worker.JobTimeout,
		RetryAttempts: cfg.Worker.RetryAttempts,
		RetryDelay:    cfg.Worker.RetryDelay,
	}, log.Named("worker"))
	if err := pool.Start(ctx); err != nil {
		log.Fatal("Failed to start worker pool", zap.Error(err))
	}

	// Domain events fan out to the mail handlers
	eventBus := event.NewInMemoryEventBus(log)
	mailConfig := notificationapp.Config{SiteName: cfg.App.Name, AdminEmail: cfg.Notify.AdminEmail}
	eventBus.Subscribe(notificationapp.NewAccountMailHandler(accountRepo, tokenRepo, dispatcher, mailConfig, log))
	eventBus.Subscribe(notificationapp.NewCatalogImportedHandler(accountRepo, dispatcher, log))
	eventBus.Subscribe(notificationapp.NewOrderMailHandler(orderRepo, accountRepo, contactRepo, dispatcher, mailConfig, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(accountRepo, tokenRepo, jwtService, blacklist, log)
	authService.SetEventPublisher(eventBus)
	accountService := identityapp.NewAccountService(accountRepo, contactRepo, tokenRepo, log)
	accountService.SetEventPublisher(eventBus)

	catalogService := catalogapp.NewCatalogService(shopRepo, categoryRepo, listingRepo, log)
	catalogService.SetEventPublisher(eventBus)

	importer := importapp.NewFeedImporter(
		persistence.NewGormTransactionScope(db.DB),
		accountRepo,
		feed.NewHTTPFetcher(feed.FetcherConfig{
			Timeout:   cfg.Feed.FetchTimeout,
			MaxSize:   cfg.Feed.MaxSize,
			UserAgent: cfg.Feed.UserAgent,
			Retries:   feed.DefaultFetcherConfig().Retries,
		}),
		feed.NewYAMLParser(),
		log,
	)
	importer.SetEventPublisher(eventBus)
	importer.SetQueue(pool)
	if cfg.Feed.Archive {
		store, err := storage.New(ctx, &cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize feed archive storage", zap.Error(err))
		}
		importer.SetArchive(feed.NewArchive(store, "feeds"))
		log.Info("Feed archive enabled", zap.String("storage", cfg.Storage.Type))
	}

	basketService := tradeapp.NewBasketService(orderRepo, listingRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, contactRepo, shopRepo, log)
	orderService.SetEventPublisher(eventBus)
	if cfg.Trade.StrictTransitions {
		orderService.SetTransitionPolicy(trade.TransitionStrict)
	}

	scheduler := worker.NewScheduler(pool, log.Named("scheduler"))
	if spec := cfg.Worker.TokenPurgeSchedule; spec != "-" {
		if err := scheduler.Add(spec, "token-purge", accountService.PurgeExpiredTokens); err != nil {
			log.Fatal("Failed to schedule token purge", zap.Error(err))
		}
	}
	if cfg.Feed.RefreshSchedule != "" {
		refresher := importapp.NewRefresher(shopRepo, importer, log)
		if err := scheduler.Add(cfg.Feed.RefreshSchedule, "feed-refresh", refresher.Run); err != nil {
			log.Fatal("Failed to schedule feed refresh", zap.Error(err))
		}
	}
	scheduler.Start()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	if cfg.App.DevAccountHeader {
		corsConfig.AllowHeaders = append(slices.Clone(corsConfig.AllowHeaders), middleware.DevAccountHeader)
	}

	// Order matters: request ID first so every later log line and span carries it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var apiLimit, authLimit gin.HandlerFunc
	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		apiLimit = middleware.RateLimit(limiter, middleware.ClientIPKey)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, limiter)
		authLimit = middleware.RateLimit(limiter, middleware.AuthKey)
	}

	authConfig := middleware.AuthConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}
	if cfg.App.DevAccountHeader {
		authConfig.DevAccounts = accountRepo
		log.Warn("X-Account-ID header authentication is enabled")
	}

	// Outside the API group: no security headers, which the swagger UI cannot load under
	engine.GET("/health", handler.NewHealthHandler(db).Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()

	handlers := router.Handlers{
		User:    handler.NewUserHandler(authService, accountService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Basket:  handler.NewBasketHandler(basketService, orderService),
		Partner: handler.NewPartnerHandler(importer, catalogService, orderService),
		Admin:   handler.NewAdminHandler(importer, orderService),
	}
	guards := router.Guards{
		Authenticate: middleware.Authenticate(authConfig),
		AuthLimit:    authLimit,
	}
	router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.Secure(security), apiLimit),
	).Register(router.Groups(handlers, guards)...).Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// HTTP first so no new work arrives, then the producers before their consumers
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownWait)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop in time", zap.Error(err))
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Warn("Worker pool did not drain in time", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain in time", zap.Error(err))
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn("Email dispatcher did not drain in time", zap.Error(err))
	}
	for _, limiter := range limiters {
		limiter.Stop()
	}
	if err := idempotency.Close(); err != nil {
		log.Warn("Error closing idempotency store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Error closing redis", zap.Error(err))
		}
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing traces", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
