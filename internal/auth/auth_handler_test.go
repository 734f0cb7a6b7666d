package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/auth"
	autherrors "go-payroll/internal/auth/errors"
	authMock "go-payroll/internal/auth/mock"
	"go-payroll/internal/identity"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string                `json:"code"`
		Details []apperror.FieldError `json:"details"`
	} `json:"error"`
}

func setupAuthRouter(register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	register(r)
	return r
}

func post(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	r := setupAuthRouter(func(r *gin.Engine) { r.POST("/auth/register", handler.Register) })

	t.Run("Accountant", func(t *testing.T) {
		req := auth.RegisterRequest{Email: "ann@books.test", Password: "s3cret-pass", UserType: "accountant", FirstName: "Ann", LastName: "Lee"}
		mockService.EXPECT().Register(gomock.Any(), req).Return(auth.UserResponse{ID: 7, Email: "ann@books.test"}, nil)

		w := post(r, "/auth/register", req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decode(t, w).Ok)
	})

	t.Run("Client needs a company name", func(t *testing.T) {
		w := post(r, "/auth/register", map[string]string{"email": "o@acme.test", "password": "s3cret-pass", "user_type": "client"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "company_name", env.Error.Details[0].Field)
	})

	t.Run("Unknown user type", func(t *testing.T) {
		w := post(r, "/auth/register", map[string]string{"email": "o@acme.test", "password": "s3cret-pass", "user_type": "admin"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeValidationError, decode(t, w).Error.Code)
	})

	t.Run("Email taken", func(t *testing.T) {
		req := auth.RegisterRequest{Email: "ann@books.test", Password: "s3cret-pass", UserType: "client", CompanyName: "Acme"}
		mockService.EXPECT().Register(gomock.Any(), req).Return(auth.UserResponse{}, autherrors.ErrEmailAlreadyRegistered)

		w := post(r, "/auth/register", req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	r := setupAuthRouter(func(r *gin.Engine) { r.POST("/auth/login", handler.Login) })

	t.Run("Success", func(t *testing.T) {
		req := auth.LoginRequest{Email: "ann@books.test", Password: "s3cret-pass"}
		mockService.EXPECT().Login(gomock.Any(), req).Return(auth.LoginResponse{AccessToken: "jwt", TokenType: "Bearer"}, nil)

		w := post(r, "/auth/login", req)
		assert.Equal(t, http.StatusOK, w.Code)

		var data auth.LoginResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		assert.Equal(t, "jwt", data.AccessToken)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		req := auth.LoginRequest{Email: "ann@books.test", Password: "nope"}
		mockService.EXPECT().Login(gomock.Any(), req).Return(auth.LoginResponse{}, autherrors.ErrInvalidCredentials)

		w := post(r, "/auth/login", req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unverified", func(t *testing.T) {
		req := auth.LoginRequest{Email: "ann@books.test", Password: "s3cret-pass"}
		mockService.EXPECT().Login(gomock.Any(), req).Return(auth.LoginResponse{}, autherrors.ErrEmailNotVerified)

		w := post(r, "/auth/login", req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Bad request", func(t *testing.T) {
		w := post(r, "/auth/login", map[string]string{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_VerifyEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	r := setupAuthRouter(func(r *gin.Engine) { r.POST("/auth/verify-email", handler.VerifyEmail) })

	mockService.EXPECT().VerifyEmail(gomock.Any(), "tok").Return(nil)
	assert.Equal(t, http.StatusOK, post(r, "/auth/verify-email", auth.VerifyEmailRequest{Token: "tok"}).Code)

	mockService.EXPECT().VerifyEmail(gomock.Any(), "used").Return(autherrors.ErrInvalidVerificationToken)
	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/verify-email", auth.VerifyEmailRequest{Token: "used"}).Code)
}

func TestHandler_PasswordReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	r := setupAuthRouter(func(r *gin.Engine) {
		r.POST("/auth/reset-password-request", handler.RequestPasswordReset)
		r.POST("/auth/reset-password", handler.ResetPassword)
	})

	t.Run("Request always succeeds", func(t *testing.T) {
		mockService.EXPECT().RequestPasswordReset(gomock.Any(), "nobody@x.test").Return(nil)

		w := post(r, "/auth/reset-password-request", auth.ResetPasswordRequestRequest{Email: "nobody@x.test"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Reset", func(t *testing.T) {
		req := auth.ResetPasswordRequest{Token: "reset1", Password: "n3w-password"}
		mockService.EXPECT().ResetPassword(gomock.Any(), req).Return(nil)

		assert.Equal(t, http.StatusOK, post(r, "/auth/reset-password", req).Code)
	})

	t.Run("Short password", func(t *testing.T) {
		w := post(r, "/auth/reset-password", auth.ResetPasswordRequest{Token: "reset1", Password: "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	client := identity.NewClient(8, 5)

	r := setupAuthRouter(func(r *gin.Engine) {
		r.GET("/auth/me", func(c *gin.Context) {
			c.Set(middleware.ContextPrincipal, client)
			c.Next()
		}, handler.Me)
	})

	mockService.EXPECT().Me(gomock.Any(), client).Return(auth.UserResponse{ID: 8, Email: "owner@acme.test"}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
