package rmiddleware

import (
	"errors"
	"strings"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RoleLookup resolves a user's current role from storage.
type RoleLookup interface {
	RoleOf(userID uint) (string, error)
}

// RoleMiddleware re-reads the caller's role instead of trusting the token.
// Must run after the auth middleware.
func RoleMiddleware(lookup RoleLookup, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := common.GetUserIDFromContext(c)
		if err != nil {
			responses.Unauthorized(c, "Unauthorized: "+err.Error())
			return
		}

		role, err := lookup.RoleOf(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.Forbidden(c, "User role not found")
				return
			}
			responses.InternalServerError(c, "Failed to get user role")
			return
		}

		for _, required := range requiredRoles {
			if strings.EqualFold(role, required) {
				c.Set(common.ContextUserRoleKey, role)
				c.Next()
				return
			}
		}
		responses.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware(lookup RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(lookup, common.RoleAdmin)
}
