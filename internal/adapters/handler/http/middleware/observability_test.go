package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/readtrack-engine/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Metrics())
	router.GET("/goals/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("/goals/:id", http.MethodGet, "200")
	before := testutil.ToFloat64(counter)

	serve(router, "/goals/abc", "")
	serve(router, "/goals/def", "")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	missing := metrics.HTTPRequestsTotal.WithLabelValues(unmatchedRoute, http.MethodGet, "404")
	beforeMissing := testutil.ToFloat64(missing)

	serve(router, "/nope", "")

	assert.Equal(t, beforeMissing+1, testutil.ToFloat64(missing))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ok", func(c *gin.Context) {
		c.Set(ContextUserIDKey, "reader-1")
		c.Status(http.StatusOK)
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	assert.Equal(t, http.StatusOK, serve(router, "/ok", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(router, "/boom", "").Code)
}
