package middleware

import (
	"strings"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/DhavalSuthar-24/arena/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const SessionCookie = "session_token"

type authUser struct {
	Role   string
	Banned bool
}

// AuthMiddleware accepts a bearer header, the session cookie, or a token query
// parameter (browser websockets cannot set headers), in that order.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := extractToken(c)
		if err != nil {
			responses.Unauthorized(c, err.Error())
			return
		}

		claims, err := token.ValidateJWT(raw, jwtSecret)
		if err != nil {
			responses.Unauthorized(c, "Invalid or expired token: "+err.Error())
			return
		}

		var u authUser
		res := db.Table("users").
			Select("role, banned").
			Where("id = ? AND deleted_at IS NULL", claims.UserID).
			Limit(1).
			Scan(&u)
		if res.Error != nil || res.RowsAffected == 0 {
			responses.Unauthorized(c, "User not found or inactive")
			return
		}
		if u.Banned {
			responses.Forbidden(c, "Account is banned")
			return
		}

		c.Set(common.ContextUserIDKey, claims.UserID)
		c.Set(common.ContextUserRoleKey, u.Role)
		c.Next()
	}
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

func extractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", tokenError("Invalid Authorization header format. Expected: Bearer <token>")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	if q := c.Query("token"); q != "" {
		return q, nil
	}
	return "", tokenError("Authorization header is required")
}
