package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"archie-core-facebook-layer/internal/application"
	"archie-core-facebook-layer/internal/config"
	apiinfra "archie-core-facebook-layer/internal/infrastructure/api"
	"archie-core-facebook-layer/internal/infrastructure/facebook"
	"archie-core-facebook-layer/internal/infrastructure/lock"
	"archie-core-facebook-layer/internal/infrastructure/metrics"
	"archie-core-facebook-layer/internal/infrastructure/repository"
	"archie-core-facebook-layer/internal/infrastructure/session"
	"archie-core-facebook-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	securitymiddleware "archie-core-facebook-layer/internal/infrastructure/middleware"
)

const (
	lockKeyPrefix    = "facebook-layer:account-lock:"
	sessionKeyPrefix = "facebook-layer:oauth-session:"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger = logger.Level(cfg.LogLevel)

	ctx := context.Background()

	// Storage
	var accountRepo ports.AccountRepository
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn().Msg("Using in-memory account storage, data is lost on restart")
		accountRepo = repository.NewMemoryAccountRepository()
	default:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())

		mongoRepo := repository.NewMongoAccountRepository(client.Database(cfg.MongoDatabase))
		indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = mongoRepo.EnsureIndexes(indexCtx)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create account indexes")
		}
		accountRepo = mongoRepo
	}

	// Locking and OAuth sessions: Redis when configured, process memory otherwise
	var locker ports.KeyLocker
	var sessions ports.SessionStore
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Invalid REDIS_URL")
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}

		locker = lock.NewRedisKeyLocker(redisClient, lockKeyPrefix, cfg.LockTTL, cfg.LockWait, logger)
		sessions = session.NewRedisSessionStore(redisClient, sessionKeyPrefix)
	} else {
		logger.Warn().Msg("REDIS_URL not set, account locks and OAuth sessions are local to this process")
		locker = lock.NewLocalKeyLocker(cfg.LockWait)
		sessions = session.NewMemorySessionStore()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Facebook Graph API client
	facebookClient := facebook.NewClient(cfg.FacebookConfig(), appMetrics, logger)
	if !cfg.OAuthConfigured() {
		logger.Warn().Msg("FACEBOOK_APP_ID or FACEBOOK_APP_SECRET not set, OAuth authorize/callback are disabled")
	}

	// Application services
	reconciler := application.NewAccountReconciler(accountRepo, locker, appMetrics, logger)
	accountService := application.NewFacebookAccountService(facebookClient, reconciler, logger)
	oauthService := application.NewOAuthService(
		facebookClient,
		sessions,
		accountService,
		facebook.DefaultScopes,
		cfg.FrontendURL,
		logger,
	)

	facebookHandler := apiinfra.NewFacebookHandler(accountService, oauthService, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.AuditLoggingMiddleware(logger))
	r.Use(appMetrics.RecordHTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Facebook account routes
	facebookHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("Starting API server")
		logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
