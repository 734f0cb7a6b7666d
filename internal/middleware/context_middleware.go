package middleware

import (
	"go-payroll/internal/identity"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger puts a logger carrying the request id and, after
// Authenticate, the caller's user id and role into the request context, so
// services and repositories can log without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if contextutil.GetRequestID(ctx) == "" {
			rid := requestIDFrom(c)
			c.Header(HeaderRequestID, rid)
			ctx = contextutil.WithRequestID(ctx, rid)
		}
		if p, ok := identity.FromContext(ctx); ok {
			ctx = contextutil.WithActor(ctx, p.UserID(), string(p.Role()))
		}

		ctx = contextutil.WithLogger(ctx, logger.With(contextutil.Fields(ctx)...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
