package auth

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	authenticate gin.HandlerFunc,
	logger *zap.Logger,
) {
	auth := r.Group("/auth")
	auth.Use(middleware.ContextLogger(logger))
	{
		auth.POST("/register", middleware.RateLimitByIP(0.1, 3), handler.Register)
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/verify-email", middleware.RateLimitByIP(0.2, 5), handler.VerifyEmail)
		auth.POST("/reset-password-request", middleware.RateLimitByIP(0.05, 3), handler.RequestPasswordReset)
		auth.POST("/reset-password", middleware.RateLimitByIP(0.1, 3), handler.ResetPassword)
		auth.GET("/me", authenticate, middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
