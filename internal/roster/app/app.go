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

	httpapi "github.com/aussiebroadwan/roster/internal/roster/http"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/notify"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/internal/roster/store/drivers/sqlite"
	"github.com/aussiebroadwan/roster/pkg/cryptox"
	"github.com/aussiebroadwan/roster/pkg/jwtx"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the roster service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	media      *media.LocalStore
	dispatcher *notify.Dispatcher
	outbox     *notify.Outbox // Only in the test environment

	// Services
	tokenService        *service.TokenService
	otpService          *service.OTPService
	signupService       *service.SignupService
	lifecycleService    *service.LifecycleService
	moderatorService    *service.ModeratorService
	ledgerService       *service.LedgerService
	postService         *service.PostService
	directoryService    *service.DirectoryService
	bootstrapService    *service.BootstrapService
	killSwitch          *service.KillSwitch
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
			Service: "roster",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Load or create the pepper used for code and token hashing
	if err := cryptox.LoadPepper(app.cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitAuthKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	app.media, err = media.NewLocalStore(app.cfg.MediaDir, app.cfg.MediaBaseURL)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	app.initNotify()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.dispatcher.Start()
	if app.cfg.HousekeepingEnabled {
		app.housekeepingService.Start()
	}

	app.logger.Info("roster service starting", "port", app.cfg.Port, "version", BuildVersion)

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
		if err != nil && err != http.ErrServerClosed {
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
	app.logger.Info("shutting down roster service...")

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

	if app.cfg.HousekeepingEnabled {
		app.housekeepingService.Stop()
	}

	// Deliver whatever email is still queued
	app.dispatcher.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("roster service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
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

// initNotify picks the email sender. SMTP is used when configured, otherwise
// messages are only logged. The test environment also captures every message
// for the debug outbox.
func (app *Application) initNotify() {
	var sender notify.Sender = notify.LogSender{}
	if app.cfg.SMTP.Enabled() {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     app.cfg.SMTP.Host,
			Port:     app.cfg.SMTP.Port,
			Username: app.cfg.SMTP.Username,
			Password: app.cfg.SMTP.Password,
			From:     app.cfg.SMTP.From,
		})
		app.logger.Info("smtp delivery enabled", "host", app.cfg.SMTP.Host, "port", app.cfg.SMTP.Port)
	} else {
		app.logger.Warn("SMTP_HOST not set, email will only be logged")
	}

	if app.cfg.IsTest() {
		app.outbox = notify.NewOutbox()
		sender = notify.MultiSender{sender, app.outbox}
		app.logger.Warn("debug outbox enabled, login codes are readable over HTTP")
	}

	app.dispatcher = notify.NewDispatcher(sender, app.logger, app.cfg.NotifyQueueSize)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		KeyManager: app.keyManager,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}

	app.otpService = &service.OTPService{
		Store:    app.db,
		Tokens:   app.tokenService,
		Notifier: app.dispatcher,
	}
	app.signupService = &service.SignupService{Store: app.db, Media: app.media}
	app.lifecycleService = &service.LifecycleService{
		Store:      app.db,
		Media:      app.media,
		Notifier:   app.dispatcher,
		PendingTTL: app.cfg.PendingTTL,
	}
	app.moderatorService = &service.ModeratorService{Store: app.db}
	app.ledgerService = &service.LedgerService{Store: app.db, Media: app.media}
	app.postService = &service.PostService{Store: app.db, Media: app.media}
	app.directoryService = &service.DirectoryService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
	app.killSwitch = &service.KillSwitch{}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.lifecycleService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet(),
		app.keyManager.Verifier(),
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.Media = app.media
	router.Tokens = app.tokenService
	router.OTP = app.otpService
	router.Signup = app.signupService
	router.Lifecycle = app.lifecycleService
	router.Moderators = app.moderatorService
	router.Ledger = app.ledgerService
	router.Posts = app.postService
	router.Directory = app.directoryService
	router.Bootstrap = app.bootstrapService
	router.KillSwitch = app.killSwitch
	router.Outbox = app.outbox // nil outside ENV=test
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
