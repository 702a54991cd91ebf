package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/readtrack-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/readtrack-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/readtrack-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/readtrack-engine/internal/config"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/workers"
	"github.com/comitanigiacomo/readtrack-engine/internal/db"
)

const driverMemory = "memory"

type application struct {
	router *gin.Engine
	tokens *services.TokenService
	worker *workers.ProgressWorker
	db     *sqlx.DB
	redis  *redis.Client
}

// newApplication wires storage, caches, services and the router. The progress
// worker runs until ctx is cancelled.
func newApplication(ctx context.Context, cfg *config.Config, startTime time.Time) (*application, error) {
	app := &application{}

	var (
		goalRepo domain.GoalRepository
		logRepo  domain.GoalLogRepository
	)

	switch cfg.DBDriver {
	case driverMemory:
		goals := repository.NewInMemoryGoalRepository()
		goalRepo = goals
		logRepo = repository.NewInMemoryGoalLogRepository(goals)
		slog.Warn("using in-memory storage, data is lost on restart")
	default:
		database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
			database.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		app.db = database
		goalRepo = repository.NewSQLGoalRepository(database)
		logRepo = repository.NewSQLGoalLogRepository(database)
	}

	var reportCache domain.ReportCache
	if cfg.RedisEnabled() {
		rdb, err := cache.NewRedisClient(cache.RedisOptions{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			slog.Warn("redis unavailable, using in-process caches", "error", err)
		} else {
			app.redis = rdb
			goalRepo = repository.NewCachedGoalRepository(goalRepo, rdb)
			reportCache = cache.NewRedisReportCache(rdb, cache.ReportTTL)
		}
	}
	if reportCache == nil {
		reportCache = cache.NewMemoryReportCache(cache.ReportTTL)
	}

	progressService := services.NewProgressService(goalRepo, logRepo, reportCache)

	app.worker = workers.NewProgressWorker(progressService, reportCache, cfg.WorkerQueueSize)
	app.worker.Start(ctx)

	goalService := services.NewGoalService(goalRepo, reportCache, app.worker)
	logService := services.NewLogService(logRepo, goalRepo, reportCache, app.worker)
	statsService := services.NewStatsService(logRepo)
	app.tokens = services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)

	app.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		GoalHandler:     adapterHTTP.NewGoalHandler(goalService),
		LogHandler:      adapterHTTP.NewLogHandler(logService),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		TokenService:    app.tokens,
		DB:              app.db,
		Redis:           app.redis,
		RateLimiter:     adapterHTTP.NewRateLimiter(ctx, app.redis, cfg.RateLimit, cfg.RateWindow),
		TrustedProxies:  cfg.TrustedProxies,
		MetricsUser:     cfg.MetricsUser,
		MetricsPass:     cfg.MetricsPass,
		SwaggerEnabled:  cfg.SwaggerEnabled,
		StartTime:       startTime,
	})

	return app, nil
}

func (a *application) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, db.Close(a.db))
	return errors.Join(errs...)
}
