// Package main is the entrypoint for the Tickline API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tickline/tickline/internal/auth"
	"github.com/tickline/tickline/internal/cache"
	"github.com/tickline/tickline/internal/config"
	"github.com/tickline/tickline/internal/handler"
	"github.com/tickline/tickline/internal/metrics"
	"github.com/tickline/tickline/internal/middleware"
	"github.com/tickline/tickline/internal/server"
	"github.com/tickline/tickline/internal/service"
	"github.com/tickline/tickline/internal/store"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize document store
	st, err := store.New(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.StoreTimeout)
	if err != nil {
		logger.Error(
			"failed to connect to mongo",
			slog.String("error", sanitizeError(err, cfg.MongoURL)),
			slog.String("mongo_url", redactURL(cfg.MongoURL)),
		)
		os.Exit(1)
	}
	defer func() { _ = st.Close(ctx) }()
	logger.Info("connected to mongo")

	if err := st.EnsureIndexes(ctx); err != nil {
		logger.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer func() { _ = cacheClient.Close() }()
	logger.Info("connected to Redis")

	// Initialize services
	recorder := metrics.NewInMemory()
	tokens := auth.NewTokenManager([]byte(cfg.TokenSecret), cfg.TokenTTL)
	userService := service.NewUserService(st, tokens)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(st, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	todoHandler := handler.NewTodoHandler(st, logger, recorder)
	userHandler := handler.NewUserHandler(userService, logger, recorder)

	// Setup router
	r := setupRouter(routerDeps{
		base:    h,
		health:  healthHandler,
		metrics: metricsHandler,
		todos:   todoHandler,
		users:   userHandler,
		store:   st,
		cache:   cacheClient,
		tokens:  tokens,
		rec:     recorder,
		cfg:     cfg,
		logger:  logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything the route tree needs.
type routerDeps struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	todos   *handler.TodoHandler
	users   *handler.UserHandler
	store   *store.Store
	cache   *cache.Cache
	tokens  *auth.TokenManager
	rec     metrics.Recorder
	cfg     *config.Config
	logger  *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(chimiddleware.RequestSize(d.cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	// Root info endpoint
	r.Get("/", d.base.Hello)

	authCfg := middleware.AuthConfig{
		Logger:  d.logger,
		Tokens:  d.tokens,
		Users:   d.store,
		Metrics: d.rec,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Cache:   d.cache,
		Enabled: d.cfg.RateLimitAuthEnabled,
		RPS:     d.cfg.RateLimitAuthRPS,
		Burst:   d.cfg.RateLimitAuthBurst,
	}

	// Todo collection (open surface, no owner field in this version)
	r.Route("/todos", func(r chi.Router) {
		r.Post("/", d.todos.Create)
		r.Get("/", d.todos.List)
		r.Get("/{id}", d.todos.Get)
		r.Delete("/{id}", d.todos.Delete)
		r.Patch("/{id}", d.todos.Update)
	})

	// Account endpoints
	r.Route("/users", func(r chi.Router) {
		// Credential endpoints are rate limited per client IP
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/", d.users.Signup)
		r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/login", d.users.Login)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Get("/me", d.users.Me)
			r.Delete("/me/token", d.users.Logout)
		})
	})

	// 404 and 405 handlers
	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return msg
}
