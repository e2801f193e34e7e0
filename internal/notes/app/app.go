package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/notes/internal/notes/http"
	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the notes service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       *sqlite.Store
	redis    *redis.Client // Optional: nil unless NOTES_REDIS_URL is set
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier

	// Services
	authService         *service.AuthService
	notesService        *service.NotesService
	sessions            *service.SessionGate
	revocations         *service.RevocationRegistry
	throttle            *service.LoginThrottle
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "notes-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initRedis(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("notes service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application. It must only be called
// after Run has started the background workers.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down notes service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("notes service stopped")
	return nil
}

func (app *Application) closeStores() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	_ = app.db.Close()
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.Open(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRedis connects to redis when configured. Without it the revocation
// registry and login throttle are per-process.
func (app *Application) initRedis() error {
	if app.cfg.RedisURL == "" {
		app.logger.Info("redis not configured, using in-memory revocation and throttle state")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := connectRedis(ctx, app.cfg.RedisURL)
	if err != nil {
		return err
	}
	app.redis = client
	app.logger.Info("redis connected, sharing revocation and throttle state")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	cipher, err := cryptox.NewFieldCipher(app.cfg.FieldKey)
	if err != nil {
		return fmt.Errorf("failed to initialize field cipher: %w", err)
	}
	app.signer, err = jwtx.NewSignerHS256(app.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.verifier, err = jwtx.NewVerifierHS256(app.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.NewMetrics(app.registry)

	var (
		revocationBackend service.RevocationBackend
		throttleBackend   service.ThrottleBackend
	)
	if app.redis != nil {
		revocationBackend = service.NewRedisRevocationBackend(app.redis, service.DefaultRevocationPrefix)
		throttleBackend = service.NewRedisThrottleBackend(app.redis, service.DefaultThrottlePrefix)
	} else {
		revocationBackend = service.NewMemoryRevocationBackend()
		memThrottle, err := service.NewMemoryThrottleBackend(app.cfg.LoginThrottleMaxTracked)
		if err != nil {
			return fmt.Errorf("failed to initialize login throttle: %w", err)
		}
		throttleBackend = memThrottle
	}

	app.sessions = &service.SessionGate{
		Store:       app.db,
		IdleTimeout: app.cfg.SessionIdleTimeout,
		Metrics:     app.metrics,
	}
	app.revocations = &service.RevocationRegistry{
		Backend: revocationBackend,
		Metrics: app.metrics,
	}
	app.throttle = &service.LoginThrottle{
		Backend: throttleBackend,
		Max:     app.cfg.LoginThrottleMax,
		Window:  app.cfg.LoginThrottleWindow,
		Metrics: app.metrics,
	}

	app.authService = &service.AuthService{
		Store:       app.db,
		Cipher:      cipher,
		Signer:      app.signer,
		TokenTTL:    app.cfg.AccessTokenTTL,
		Sessions:    app.sessions,
		Revocations: app.revocations,
		Metrics:     app.metrics,
	}
	app.notesService = &service.NotesService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.revocations,
		app.logger,
		app.cfg.RevocationSweepInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.NotesService = app.notesService
	router.Throttle = app.throttle
	router.Revocations = app.revocations
	router.Sessions = app.sessions
	router.Metrics = app.metrics
	router.Gatherer = app.registry
	router.SecureCookies = app.cfg.SecureCookies()
	if app.redis != nil {
		router.Redis = redisPinger{client: app.redis}
	}
	if app.cfg.TrustProxyHeaders {
		router.ClientKey = httpx.IPKeyExtractor
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
