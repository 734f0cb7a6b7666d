package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/identity"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

type envelope struct {
	Ok    bool `json:"ok"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Authenticate(identity.NewTokenIssuer(testSecret)))
	r.GET("/whoami", func(c *gin.Context) {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		fromCtx, _ := identity.FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"role":     p.Role(),
			"user_id":  c.GetString(middleware.ContextUserID),
			"same_ctx": fromCtx == p,
		})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	issuer := identity.NewTokenIssuer(testSecret)
	valid, _, err := issuer.Generate(identity.NewClient(9, 5))
	require.NoError(t, err)

	expired, _, err := issuer.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Generate(identity.NewAccountant(1, 2))
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantCode   string
	}{
		{name: "valid bearer", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "valid cookie", cookie: valid, wantStatus: http.StatusOK},
		{name: "missing", wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_MISSING"},
		{name: "malformed", header: "Bearer abc.def", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			newAuthRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var env envelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.False(t, env.Ok)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "client", body["role"])
			assert.Equal(t, "9", body["user_id"])
			assert.Equal(t, true, body["same_ctx"])
		})
	}
}
