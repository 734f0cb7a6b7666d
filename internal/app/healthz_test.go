package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type healthBody struct {
	Ok    bool              `json:"ok"`
	Data  map[string]string `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func serveHealthz(t *testing.T, checks ...healthCheck) (int, healthBody, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", healthz(zap.NewNop(), checks...))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body, w.Body.String()
}

func TestHealthz_AllUp(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	code, body, _ := serveHealthz(t,
		healthCheck{name: "database", ping: func(context.Context) error { return nil }},
		healthCheck{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Ok)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, body.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthz_HidesFailureDetails(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("dial tcp 10.0.3.7:6379: connect: connection refused"))

	code, body, raw := serveHealthz(t,
		healthCheck{name: "database", ping: func(context.Context) error {
			return errors.New(`failed to connect to host=db.internal user=payroll database=payroll`)
		}},
		healthCheck{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, map[string]string{"database": "unavailable", "redis": "unavailable"}, body.Error.Details)
	assert.NotContains(t, raw, "db.internal")
	assert.NotContains(t, raw, "10.0.3.7")
}
