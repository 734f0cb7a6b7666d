package middleware

import (
	"regexp"

	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// Client supplied ids end up in logs and audit rows, so only short plain
// tokens are accepted.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

func requestIDFrom(c *gin.Context) string {
	if rid := c.GetHeader(HeaderRequestID); validRequestID.MatchString(rid) {
		return rid
	}
	return uuid.NewString()
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := requestIDFrom(c)
		c.Set("request_id", rid)
		c.Header(HeaderRequestID, rid)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
