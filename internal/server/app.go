// Package server wires storage backends, services and the gRPC transport
// together and runs them until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/logging"
	"github.com/dmitrijs2005/gophmarket/internal/server/auth"
	"github.com/dmitrijs2005/gophmarket/internal/server/cloud"
	"github.com/dmitrijs2005/gophmarket/internal/server/config"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/dmitrijs2005/gophmarket/internal/server/policy"
	"github.com/dmitrijs2005/gophmarket/internal/server/presence"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/ads"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/audit"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophmarket/internal/server/services"

	gs "github.com/dmitrijs2005/gophmarket/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	users      *services.UserService
	ads        *services.AdService
	discovery  *services.DiscoveryService
	moderation *services.ModerationService
	closers    []io.Closer
}

type sharedRepos struct {
	users         users.Repository
	audit         audit.Repository
	registrations registrations.Repository
}

// openShared returns the Postgres-backed repositories when a DSN is
// configured and in-memory ones otherwise.
func openShared(ctx context.Context, c *config.Config) (*sharedRepos, io.Closer, error) {
	if c.DatabaseDSN == "" {
		return &sharedRepos{
			users:         users.NewMemoryRepository(),
			audit:         audit.NewMemoryRepository(),
			registrations: registrations.NewMemoryRepository(),
		}, nil, nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}

	return &sharedRepos{
		users:         rm.Users(db),
		audit:         rm.Audit(db),
		registrations: rm.Registrations(db),
	}, db, nil
}

// openAdStore returns the per-owner SQLite store when a data directory is
// configured and an in-memory one otherwise.
func openAdStore(c *config.Config) (ads.Repository, io.Closer, error) {
	if c.DataDir == "" {
		return ads.NewMemoryRepository(), nil, nil
	}
	r, err := ads.NewSQLiteRepository(c.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("ad store init error: %w", err)
	}
	return r, r, nil
}

func newStorage(c *config.Config) cloud.Storage {
	if c.S3Bucket == "" {
		return cloud.NewMemoryStorage("gophmarket")
	}
	return cloud.NewS3Storage(cloud.S3Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, level))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	shared, dbCloser, err := openShared(ctx, c)
	if err != nil {
		return nil, err
	}
	if dbCloser != nil {
		app.closers = append(app.closers, dbCloser)
	}

	store, storeCloser, err := openAdStore(c)
	if err != nil {
		app.Close()
		return nil, err
	}
	if storeCloser != nil {
		app.closers = append(app.closers, storeCloser)
	}

	ttl := time.Duration(c.RegistrationTTLHours) * time.Hour
	signer := auth.NewListingSigner([]byte(c.SecretKey), ttl)
	tracker := presence.NewTracker()

	app.users = services.NewUserService(shared.users, tracker, c, logger)
	app.ads = services.NewAdService(store, newStorage(c), signer,
		services.NewRepositoryRegistrar(shared.registrations), c, logger)
	app.discovery = services.NewDiscoveryService(store, shared.users, tracker, c.DiscoveryWorkers, logger)
	app.moderation = services.NewModerationService(app.ads, app.discovery, shared.users, shared.audit,
		policy.Default(), c.ModerationTimeout, logger)

	if c.AdminUserName != "" {
		if err := app.users.EnsureUser(ctx, c.AdminUserName, c.AdminPassword, models.TierPrivileged); err != nil {
			app.Close()
			return nil, fmt.Errorf("admin bootstrap error: %w", err)
		}
	}

	return app, nil
}

// Close releases database handles.
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.users, app.ads, app.discovery, app.moderation, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.Close()
	app.logger.Info(ctx, "App stopped")
}
