package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/acadops/registrar-api/internal/models"
	appErrors "github.com/acadops/registrar-api/pkg/errors"
	"github.com/acadops/registrar-api/pkg/response"
)

// RequireCapability gates a route on the caller's role granting the
// capability. Authorization always consults the role table from the
// validated token, never a role string supplied by the request.
func RequireCapability(cap models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.Role.HasCapability(cap) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
