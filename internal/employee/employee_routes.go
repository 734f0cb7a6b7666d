package employee

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
	employees := r.Group("/employees")
	employees.Use(authenticate)
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("/company/:companyId",
			middleware.RateLimitByUser(5, 20),
			handler.ListByCompany,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 5),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			handler.Delete,
		)

		employees.POST("/:id/offboard",
			middleware.RateLimitByUser(0.5, 2),
			handler.Offboard,
		)

		employees.GET("/:id/offboarding",
			middleware.RateLimitByUser(5, 20),
			handler.GetOffboarding,
		)
	}
}
