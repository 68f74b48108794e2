// Package server wires configuration, storage and services together and runs
// the gRPC endpoint until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/config"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/notify"
	"github.com/dmitrijs2005/trophy/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/trophy/internal/server/services"
	"github.com/dmitrijs2005/trophy/internal/server/shared/db"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/trophy/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	redis      *redis.Client
	auth       *services.AuthService
	dispatcher *notify.Dispatcher
	grpcServer *gs.GRPCServer
}

// OpenStorage opens the configured database and applies migrations.
func OpenStorage(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	m, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	if err := m.RunMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}
	return conn, m, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	conn, m, err := OpenStorage(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: conn}
	app.dispatcher = app.newDispatcher(ctx)

	app.auth = services.NewAuthService(conn, m, c, logger)
	awarder := services.NewBadgeAwarder(conn, m, c.StorageTimeout, logger)

	app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Services{
		Auth:          app.auth,
		Projects:      services.NewProjectService(conn, m, c, awarder, logger),
		Ledger:        services.NewLedgerService(conn, m, c.StorageTimeout, logger),
		Notifications: services.NewNotificationService(conn, m, c.StorageTimeout, app.auth, app.dispatcher, logger),
	})

	return app, nil
}

// newDispatcher routes in-app notifications to Redis when it is configured
// and logs every other channel.
func (app *App) newDispatcher(ctx context.Context) *notify.Dispatcher {
	d := notify.NewDispatcher(app.logger)
	d.Register(models.ChannelEmail, notify.NewLogSink(models.ChannelEmail, app.logger))
	d.Register(models.ChannelSMS, notify.NewLogSink(models.ChannelSMS, app.logger))

	if app.config.RedisAddr == "" {
		d.Register(models.ChannelInApp, notify.NewLogSink(models.ChannelInApp, app.logger))
		return d
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
	})
	if err := app.redis.Ping(ctx).Err(); err != nil {
		app.logger.Warn(ctx, "redis is not reachable, in-app notifications will fail until it is", "addr", app.config.RedisAddr, "error", err.Error())
	}
	d.Register(models.ChannelInApp, notify.NewRedisSink(app.redis))
	return d
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
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a stop signal arrives, then releases
// every resource.
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
	app.logger.Info(context.Background(), "App stopped")
}

// Close waits for in-flight notification deliveries and closes connections.
func (app *App) Close() {
	app.dispatcher.Wait()
	app.auth.Close()
	if app.redis != nil {
		_ = app.redis.Close()
	}
	_ = app.db.Close()
}
