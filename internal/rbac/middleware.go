package rbac

import (
	"context"
	"net/http"

	"screening-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows access if the caller has any of the provided roles.
// service_role bypasses the check.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, err := auth.Role(c.Request.Context())
		if err != nil || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role required"})
			return
		}
		if IsServiceRole(role) {
			c.Next()
			return
		}
		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CanActFor reports whether the caller in ctx may act on behalf of userID.
// Without an identity in ctx (authentication disabled) everything is allowed.
func CanActFor(ctx context.Context, userID string) bool {
	role, err := auth.Role(ctx)
	if err != nil {
		return true
	}
	if IsServiceRole(role) {
		return true
	}
	sub, err := auth.UserID(ctx)
	return err == nil && sub == userID
}
