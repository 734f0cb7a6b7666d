package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRecoveryAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	metrics := middleware.NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(middleware.RequestID(), metrics.Middleware(), middleware.Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) {
		panic("unexpected nil")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "unexpected nil")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	count, err := testutil.GatherAndCount(reg, "http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
