package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RegisterRoutes mounts /payroll. POST replays responses for a repeated
// Idempotency-Key when rdb is set.
func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	authenticate gin.HandlerFunc,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	payroll := r.Group("/payroll")
	payroll.Use(authenticate)
	payroll.Use(middleware.ContextLogger(logger))
	{
		payroll.GET("/company/:companyId",
			middleware.RateLimitByUser(5, 20),
			handler.ListByCompany,
		)

		payroll.GET("/total/:companyId",
			middleware.RateLimitByUser(5, 20),
			handler.Totals,
		)

		payroll.GET("/export/:companyId",
			middleware.RateLimitByUser(0.2, 2),
			handler.Export,
		)

		payroll.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			handler.GetByID,
		)

		create := []gin.HandlerFunc{middleware.RateLimitByUser(1, 5)}
		if rdb != nil {
			create = append(create, middleware.Idempotency(rdb))
		}
		payroll.POST("", append(create, handler.Create)...)

		payroll.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			handler.Update,
		)

		payroll.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			handler.Delete,
		)
	}
}
