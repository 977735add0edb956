// Package server wires the files service together: it opens the database
// and the configured session, content and queue backends, then runs the
// HTTP API, the gRPC health endpoint and the thumbnail workers until a
// signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/content"
	"github.com/dmitrijs2005/filesmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/filesmanager/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	rdb         *redis.Client
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
	content     content.Store
	queue       thumbnails.Queue
	auth        *services.AuthService
	files       *services.FileService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	app := &App{config: c, logger: logger}

	hasher, err := services.NewPasswordHasher(c.PasswordScheme)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, repomanager.DriverName, c.DatabaseDSN, dbx.PoolOptions{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	app.repomanager = repomanager.NewPostgresRepositoryManager()
	if c.MigrateOnStart {
		if err := app.repomanager.RunMigrations(ctx, db); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	if needsRedis(c) {
		app.rdb = newRedisClient(c)
	}

	if app.sessions, err = newSessionStore(c, app.rdb, logger); err != nil {
		app.Close()
		return nil, err
	}
	if app.content, err = newContentStore(ctx, c); err != nil {
		app.Close()
		return nil, err
	}
	if app.queue, err = newQueue(c, app.rdb); err != nil {
		app.Close()
		return nil, err
	}

	app.auth = services.NewAuthService(db, app.repomanager, app.sessions, hasher, c.TokenTTL, logger)
	app.files = services.NewFileService(db, app.repomanager, app.content, app.queue, app.auth,
		services.FileServiceOptions{PageSize: c.PageSize, EnforcePublishOwnership: c.EnforcePublishOwnership}, logger)

	return app, nil
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

func (app *App) dbPinger() httpapi.PingFunc {
	return func(ctx context.Context) error { return app.db.PingContext(ctx) }
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.auth, app.files, app.sessions, app.dbPinger(), app.logger)
	router := httpapi.NewRouter(h, app.config.MaxUploadBytes, app.logger)
	s := httpapi.NewServer(app.config.HTTPAddr, router, app.config.ShutdownTimeout, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	checks := map[string]gs.Pinger{
		"db":       app.dbPinger(),
		"sessions": app.sessions,
		"content":  app.content,
	}
	s := gs.NewHealthServer(app.config.GRPCHealthAddr, checks, 10*time.Second, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCHealthAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w := thumbnails.NewWorker(app.queue, app.repomanager.Files(app.db), app.content,
			app.config.ThumbnailSizes, app.config.Workers, app.logger)
		w.Run(ctx)
	}()

	if ms, ok := app.sessions.(*sessions.MemoryStore); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ms.RunSweeper(ctx, time.Minute)
		}()
	}

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

// Close releases every backend opened by NewApp.
func (app *App) Close() {
	ctx := context.Background()
	if app.queue != nil {
		if err := app.queue.Close(); err != nil {
			app.logger.Error(ctx, "queue close", "error", err)
		}
	}
	if app.sessions != nil {
		if err := app.sessions.Close(); err != nil {
			app.logger.Error(ctx, "sessions close", "error", err)
		}
	}
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err)
		}
	}
}
