// Package server initializes and runs the draft service: it selects the
// storage backend, runs migrations, wires the publish export and serves
// gRPC until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/config"
	gs "github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/grpc"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/repositories/repomanager"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/services"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	draftService *services.DraftService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(slog.LevelInfo)

	app := &App{config: c, logger: logger}

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, drafts are kept in memory")
		app.repomanager = repomanager.NewMemoryRepositoryManager()
	} else {
		db, err := openDB(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		app.db = db
		app.repomanager = repomanager.NewPostgresRepositoryManager(db)
	}

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var exporter services.Exporter
	s3e, err := services.NewS3Exporter(ctx, c)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("export init error: %w", err)
	}
	if s3e != nil {
		exporter = s3e
		logger.Info(ctx, "publish export enabled", "bucket", c.S3Bucket)
	}

	app.draftService = services.NewDraftService(app.repomanager, listing.PartnerSchema, exporter, logger)
	return app, nil
}

// DraftService exposes the business logic to the admin tools.
func (app *App) DraftService() *services.DraftService {
	return app.draftService
}

// Close releases the database connection, if any.
func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
	}
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
	limiter := services.NewPartnerLimiter(app.config.SaveRatePerSecond, app.config.SaveBurst)
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.draftService, limiter, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
