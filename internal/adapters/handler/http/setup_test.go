package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/readtrack-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/readtrack-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/readtrack-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/readtrack-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
)

type testServices struct {
	goals    *services.GoalService
	logs     *services.LogService
	progress *services.ProgressService
	stats    *services.StatsService
}

func newTestServices() testServices {
	goalRepo := repository.NewInMemoryGoalRepository()
	logRepo := repository.NewInMemoryGoalLogRepository(goalRepo)
	reportCache := cache.NewMemoryReportCache(0)

	return testServices{
		goals:    services.NewGoalService(goalRepo, reportCache, nil),
		logs:     services.NewLogService(logRepo, goalRepo, reportCache, nil),
		progress: services.NewProgressService(goalRepo, logRepo, reportCache),
		stats:    services.NewStatsService(logRepo),
	}
}

// setupRouter mounts every handler behind a stand-in for the auth middleware
// that trusts the X-User-ID header.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svcs := newTestServices()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	adapterHTTP.NewGoalHandler(svcs.goals).RegisterRoutes(api)
	adapterHTTP.NewLogHandler(svcs.logs).RegisterRoutes(api)
	adapterHTTP.NewProgressHandler(svcs.progress).RegisterRoutes(api)
	adapterHTTP.NewStatsHandler(svcs.stats).RegisterRoutes(api)

	return r
}

func doRequest(r http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createGoal(t *testing.T, r http.Handler, userID, body string) domain.Goal {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/goals", userID, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.Goal](t, w)
}

func createLog(t *testing.T, r http.Handler, userID, body string) domain.GoalLog {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/logs", userID, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.GoalLog](t, w)
}
