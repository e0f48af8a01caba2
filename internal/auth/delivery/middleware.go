package delivery

import (
	"net/http"
	"strings"

	authdomain "edumee-backend/internal/auth/domain"
	"edumee-backend/internal/auth/usecase"
	"edumee-backend/pkg/httpx"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// CurrentUser is the identity decoded from a verified access token.
type CurrentUser struct {
	UserID string
	Email  string
	Role   authdomain.Role
}

// GetCurrentUser returns the caller set by AuthMiddleware, or nil on public routes.
func GetCurrentUser(c *gin.Context) *CurrentUser {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*CurrentUser)
	return user
}

func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.Abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpx.Abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			httpx.WriteError(c, err)
			return
		}

		c.Set(currentUserKey, &CurrentUser{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// RequireRoles lets the request through when the caller's role is one of roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claim authdomain.Role
		if user := GetCurrentUser(c); user != nil {
			claim = user.Role
		}

		if !authdomain.RoleAllowed(roles, claim) {
			httpx.Abort(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}
