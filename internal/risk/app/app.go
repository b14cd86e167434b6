package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/classifier"
	"github.com/aussiebroadwan/creditrisk/internal/risk/credentials"
	"github.com/aussiebroadwan/creditrisk/internal/risk/encoding"
	httpapi "github.com/aussiebroadwan/creditrisk/internal/risk/http"
	"github.com/aussiebroadwan/creditrisk/internal/risk/service"
	"github.com/aussiebroadwan/creditrisk/internal/risk/store"
	"github.com/aussiebroadwan/creditrisk/internal/risk/store/drivers/sqlite"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the credit-risk service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Artifacts, loaded once and shared read-only
	model       classifier.Classifier
	tables      *encoding.Tables
	credentials *credentials.Store // nil when authentication is disabled

	// Core dependencies
	db       store.Store // nil when auditing is disabled
	keys     *SessionKeys
	registry *prometheus.Registry
	metrics  *service.Metrics

	// Services
	authService         *service.AuthService // nil when authentication is disabled
	predictionService   *service.PredictionService
	housekeepingService *service.HousekeepingService // nil when auditing is disabled

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New loads every required artifact and wires the application. A missing
// or malformed artifact is returned as a *domain.StartupError.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "creditrisk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  cfg.LogOutput,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.loadArtifacts(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if cfg.AuthRequired {
		keys, err := InitSessionKeys(cfg, app.logger)
		if err != nil {
			app.closeDatabase()
			return nil, err
		}
		app.keys = keys
	}

	app.initMetrics()
	app.initServices()
	if err := app.initHTTP(); err != nil {
		app.closeDatabase()
		return nil, err
	}

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("creditrisk service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"backend", app.cfg.ModelBackend,
		"auth", app.cfg.AuthRequired,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down creditrisk service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	if err := app.closeDatabase(); err != nil {
		return err
	}

	app.logger.Info("creditrisk service stopped")
	return nil
}

// loadArtifacts reads the model, the encoder tables and the credential file.
// There are no fallbacks: the service refuses to start without them.
func (app *Application) loadArtifacts() error {
	model, err := classifier.Open(context.Background(), classifier.Config{
		Backend: classifier.Backend(app.cfg.ModelBackend),
		File:    app.cfg.ModelFile,
		URL:     app.cfg.ModelURL,
		Timeout: app.cfg.ModelTimeout,
	})
	if err != nil {
		return err
	}
	app.model = model
	app.logger.Info("model loaded", "backend", app.cfg.ModelBackend, "features", model.Schema().NFeatures)

	tables, err := encoding.LoadFile(app.cfg.EncodersFile)
	if err != nil {
		return err
	}
	app.tables = tables
	app.logger.Info("encoder tables loaded", "path", app.cfg.EncodersFile)

	if !app.cfg.AuthRequired {
		app.logger.Warn("authentication is disabled, the form and API are public")
		return nil
	}

	creds, err := credentials.LoadFile(app.cfg.UsersFile)
	if err != nil {
		return err
	}
	app.credentials = creds
	app.logger.Info("credentials loaded", "path", app.cfg.UsersFile, "users", creds.Len())

	return nil
}

// initDatabase opens the login audit database and applies migrations
func (app *Application) initDatabase() error {
	if app.cfg.AuditDatabaseFile == "" {
		app.logger.Info("login auditing disabled")
		return nil
	}

	dsn := app.cfg.AuditDatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.AuditDatabaseFile)
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.db = db

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) closeDatabase() error {
	if app.db == nil {
		return nil
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initMetrics creates a dedicated registry with the runtime collectors and
// the service metrics.
func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = service.NewMetrics(app.registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.predictionService = &service.PredictionService{
		Features:   app.tables,
		Classifier: app.model,
		Metrics:    app.metrics,
	}

	if app.cfg.AuthRequired {
		app.authService = &service.AuthService{
			Credentials: app.credentials,
			Signer:      app.keys.Signer,
			Metrics:     app.metrics,
			Issuer:      app.cfg.Issuer,
			Audience:    []string{sessionAudience},
			TTL:         app.cfg.SessionTTL,
		}
		if app.db != nil {
			app.authService.Audit = app.db.LoginAttempts()
		}
	}

	if app.db != nil {
		app.housekeepingService = service.NewHousekeepingService(
			app.db,
			app.logger,
			app.cfg.HousekeepingInterval,
			app.cfg.AuditRetention,
			app.metrics,
		)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	var router *httpapi.Router
	var err error
	if app.keys != nil {
		router, err = httpapi.NewRouter(app.keys.KeySet, app.keys.Verifier, BuildVersion, app.db, app.metrics, app.registry, app.cfg.UI, app.logger)
	} else {
		router, err = httpapi.NewRouter(nil, nil, BuildVersion, app.db, app.metrics, app.registry, app.cfg.UI, app.logger)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	// Wire services to router
	router.PredictionService = app.predictionService
	router.AuthService = app.authService // nil when authentication is disabled
	router.Tables = app.tables
	router.SecureCookie = app.cfg.SecureCookie
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
