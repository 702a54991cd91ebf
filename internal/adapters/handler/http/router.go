package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/readtrack-engine/docs"
	"github.com/comitanigiacomo/readtrack-engine/internal/adapters/handler/http/middleware"
)

const (
	statusConnected   = "connected"
	statusUnreachable = "unreachable"
	statusDisabled    = "disabled"
)

type RouterDependencies struct {
	GoalHandler     *GoalHandler
	LogHandler      *LogHandler
	ProgressHandler *ProgressHandler
	StatsHandler    *StatsHandler
	TokenService    middleware.TokenValidator

	// DB and Redis are optional; nil reports "disabled" on /health.
	DB    *sqlx.DB
	Redis *redis.Client

	// RateLimiter is applied to every route when set.
	RateLimiter gin.HandlerFunc
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address is the client.
	TrustedProxies []string

	MetricsUser    string
	MetricsPass    string
	SwaggerEnabled bool
	StartTime      time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		slog.Error("Invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:          12 * time.Hour,
	}))

	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter)
	}

	router.GET("/health", healthHandler(deps))

	metricsHandler := gin.WrapH(promhttp.Handler())
	if deps.MetricsUser != "" {
		router.GET("/metrics", gin.BasicAuth(gin.Accounts{deps.MetricsUser: deps.MetricsPass}), metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}

	if deps.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.AuthMiddleware(deps.TokenService))
	{
		deps.GoalHandler.RegisterRoutes(apiV1)
		deps.LogHandler.RegisterRoutes(apiV1)
		deps.ProgressHandler.RegisterRoutes(apiV1)
		deps.StatsHandler.RegisterRoutes(apiV1)
	}

	return router
}

// NewRateLimiter returns the Redis limiter when a client is configured and the
// in-process limiter otherwise. The in-process limiter sweeps idle clients until ctx ends.
func NewRateLimiter(ctx context.Context, rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if rdb != nil {
		return middleware.RateLimiterMiddleware(rdb, limit, window)
	}
	local := middleware.NewLocalRateLimiter(limit, window)
	go local.Cleanup(ctx, time.Minute)
	return local.Middleware()
}

// healthHandler godoc
// @Summary      Liveness and dependency status
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func healthHandler(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		dbStatus := statusDisabled
		if deps.DB != nil {
			dbStatus = statusConnected
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = statusUnreachable
			}
		}

		redisStatus := statusDisabled
		if deps.Redis != nil {
			redisStatus = statusConnected
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = statusUnreachable
			}
		}

		statusCode := http.StatusOK
		status := "ok"
		if dbStatus == statusUnreachable || redisStatus == statusUnreachable {
			statusCode = http.StatusServiceUnavailable
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}
