package middleware

import (
	"strconv"
	"strings"

	"go-payroll/internal/identity"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextPrincipal = "principal"
	ContextUserID    = "user_id"
	ContextRole      = "role"
)

type TokenVerifier interface {
	Verify(token string) (identity.Principal, error)
}

// Authenticate resolves the bearer token into an identity.Principal and
// stores it on both the gin context and the request context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		principal, err := verifier.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Set(ContextUserID, strconv.FormatInt(principal.UserID(), 10))
		c.Set(ContextRole, string(principal.Role()))
		c.Request = c.Request.WithContext(identity.WithPrincipal(c.Request.Context(), principal))

		c.Next()
	}
}

// PrincipalFrom returns the principal placed by Authenticate.
func PrincipalFrom(c *gin.Context) (identity.Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return identity.Principal{}, false
	}
	p, ok := v.(identity.Principal)
	return p, ok
}
