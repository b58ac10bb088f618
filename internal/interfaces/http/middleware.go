package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	"github.com/yusufkoc/hr-intake/internal/application/service"
)

// contextUserKey is where the auth middleware stores the actor.
const contextUserKey = "currentUser"

// AuthMiddleware validates the bearer token and loads the actor onto
// the request context. The user is re-fetched on every request so a
// deleted or re-roled account takes effect immediately.
func AuthMiddleware(authService service.AuthService, userRepo port.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid authorization header format"})
			return
		}

		claims, err := authService.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid or expired token"})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "user not found"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}
