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

	httpapi "github.com/aussiebroadwan/tubetab/internal/auth/http"
	"github.com/aussiebroadwan/tubetab/internal/auth/media"
	"github.com/aussiebroadwan/tubetab/internal/auth/service"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/internal/auth/store/drivers/mongo"
	"github.com/aussiebroadwan/tubetab/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tubetab/pkg/cryptox"
	"github.com/aussiebroadwan/tubetab/pkg/httpx"
	"github.com/aussiebroadwan/tubetab/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags -X.
var BuildVersion = "v0.1.0"

const startupTimeout = 30 * time.Second

// Application encapsulates the account service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	uploader media.Uploader
	metrics  *httpx.Metrics

	// Services
	tokenService        *service.TokenService
	sessionService      *service.SessionService
	registrationService *service.RegistrationService
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
			Service: "tubetab-accounts",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initMedia(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("account service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"media", app.cfg.MediaBackend,
	)

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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down account service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}

// Handler exposes the fully wired router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.StoreDriver {
	case "mongo":
		db, err = mongo.NewStore(ctx, app.cfg.MongoURI, app.cfg.MongoDatabase)
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", app.cfg.StoreDriver, err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	attrs := []any{"driver", app.cfg.StoreDriver}
	if sq, ok := db.(*sqlite.Store); ok {
		if v, dirty, err := sq.SchemaVersion(); err == nil {
			attrs = append(attrs, "schema_version", v, "dirty", dirty)
		}
	}
	app.logger.Info("database migrations applied successfully", attrs...)
	return nil
}

// initMedia picks where uploaded images end up
func (app *Application) initMedia(ctx context.Context) error {
	if app.cfg.MediaTempDir != "" {
		if err := os.MkdirAll(app.cfg.MediaTempDir, 0o750); err != nil {
			return fmt.Errorf("failed to create media temp dir: %w", err)
		}
	}

	switch app.cfg.MediaBackend {
	case "s3":
		up, err := media.NewS3Uploader(ctx, media.S3Config{
			Region:        app.cfg.S3Region,
			Endpoint:      app.cfg.S3Endpoint,
			Bucket:        app.cfg.S3Bucket,
			AccessKey:     app.cfg.S3AccessKey,
			SecretKey:     app.cfg.S3SecretKey,
			PublicBaseURL: app.cfg.MediaPublicURL,
			Prefix:        app.cfg.MediaKeyPrefix,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 media: %w", err)
		}
		if app.cfg.S3CreateBucket {
			if err := up.EnsureBucket(ctx); err != nil {
				return err
			}
		}
		app.uploader = up

	default:
		up, err := media.NewDiskUploader(app.cfg.MediaDir, app.cfg.MediaPublicURL, app.cfg.MediaKeyPrefix)
		if err != nil {
			return fmt.Errorf("failed to initialize disk media: %w", err)
		}
		app.uploader = up
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	accessSecret, refreshSecret, err := app.tokenSecrets()
	if err != nil {
		return err
	}

	app.tokenService, err = service.NewTokenService(service.TokenConfig{
		Issuer:        app.cfg.Issuer,
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     app.cfg.AccessTokenExpiry,
		RefreshTTL:    app.cfg.RefreshTokenExpiry,
		Leeway:        5 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	app.sessionService = &service.SessionService{Store: app.db, Tokens: app.tokenService}
	app.registrationService = &service.RegistrationService{Store: app.db, Uploader: app.uploader}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// tokenSecrets returns the configured secrets. In dev, missing ones are
// generated so the service boots, tokens then die with the process.
func (app *Application) tokenSecrets() ([]byte, []byte, error) {
	access, refresh := app.cfg.AccessTokenSecret, app.cfg.RefreshTokenSecret

	for _, s := range []*string{&access, &refresh} {
		if *s != "" {
			continue
		}
		gen, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
		*s = gen
		app.logger.Warn("token secret not configured, using an ephemeral one")
	}

	return []byte(access), []byte(refresh), nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	app.metrics = httpx.NewMetrics("tubetab")

	router := httpapi.NewRouter(BuildVersion, app.db, app.logger, app.metrics)
	router.Sessions = app.sessionService
	router.Registration = app.registrationService
	router.Tokens = app.tokenService
	router.Cookies = httpapi.CookieConfig{Secure: app.cfg.CookieSecure}
	router.UploadDir = app.cfg.MediaTempDir
	router.MaxUploadBytes = app.cfg.MaxUploadBytes
	if disk, ok := app.uploader.(*media.DiskUploader); ok {
		router.Media = disk.Handler()
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
