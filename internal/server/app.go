// Package server initializes and runs the edutrack API server.
// It opens the database, applies migrations, optionally connects the
// exercise cache, and serves HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/edutrack/internal/logging"
	"github.com/dmitrijs2005/edutrack/internal/server/config"
	httpapi "github.com/dmitrijs2005/edutrack/internal/server/http"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/edutrack/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	repomanager repomanager.RepositoryManager
	server      *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var opts []repomanager.Option
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		opts = append(opts, repomanager.WithExerciseCache(rdb, cfg.ExerciseCacheTTL, logger.With("module", "cache")))
	}

	rm := repomanager.NewPostgresRepositoryManager(opts...)

	svc := httpapi.Services{
		Auth:     services.NewAuthService(db, rm, cfg),
		Progress: services.NewProgressService(db, rm),
		Grading:  services.NewGradingService(db, rm),
		Stats:    services.NewStatsService(db, rm),
	}

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       rdb,
		repomanager: rm,
		server:      httpapi.NewServer(svc, db, cfg, logger.With("module", "http")),
	}, nil
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

// Run blocks until the HTTP server stops. Storage handles are closed on
// return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close(ctx)

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if app.config.UsesDefaultSecret() {
		app.logger.Warn(ctx, "session signing secret is the built-in development default; set EDUTRACK_SECRET_KEY")
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return err
	}

	if app.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := app.redis.Ping(pingCtx).Err(); err != nil {
			// the cache falls through to the database when unreachable
			app.logger.Warn(ctx, "redis unreachable", "address", app.config.RedisAddr, "error", err)
		}
		cancel()
	}

	return app.server.Run(ctx, app.config.HTTPAddr, app.config.ShutdownTimeout)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "closing redis", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
}
