package rbac

import (
	"net/http"

	"place-review-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireRole allows access if the caller has any of the provided roles.
//
// It must run after auth.RequireUser. If no identity is attached — which
// means the route was misconfigured and the auth guard never ran — the
// request fails closed with 403 rather than passing silently.
func RequireRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		id, err := auth.IdentityFrom(c.Request.Context())
		if err != nil || id.Role == "" {
			forbidden(c)
			return
		}

		if _, ok := allowedSet[id.Role]; !ok {
			forbidden(c)
			return
		}
		c.Next()
	}
}

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}
