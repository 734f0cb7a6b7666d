package company

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts /companies. Mutations also pass the role rule, so
// clients can only read.
func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	authenticate gin.HandlerFunc,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	companies := r.Group("/companies")
	companies.Use(authenticate)
	companies.Use(middleware.ContextLogger(logger))
	{
		companies.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.List,
		)

		companies.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			handler.GetByID,
		)

		companies.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "company"),
			handler.Create,
		)

		companies.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "company"),
			handler.Update,
		)

		companies.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "company"),
			handler.Delete,
		)

		companies.POST("/associate/:companyId",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "company"),
			handler.Associate,
		)
	}
}
