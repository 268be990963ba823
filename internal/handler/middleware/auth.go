package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tourtable/internal/domain/user"
	"tourtable/internal/usecase"

	"github.com/gin-gonic/gin"
)

const ctxAuthKey = "auth_context"

// AuthMiddleware normalizes every authenticated request into one
// usecase.AuthContext carried in the gin context; handlers never touch raw
// JWT claims.
type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Access token required",
			})
			c.Abort()
			return
		}

		auth, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxAuthKey, auth)
		c.Next()
	}
}

// RequirePartner gates the partner-only surface: partner role plus the admin
// approval flag. Must run after RequireAuth.
func (m *AuthMiddleware) RequirePartner() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuthContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Internal server error",
			})
			c.Abort()
			return
		}

		if auth.Role != user.RolePartner && auth.Role != user.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Partner access required",
			})
			c.Abort()
			return
		}
		if auth.Role == user.RolePartner && !auth.Approved {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Partner account not approved",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetAuthContext(c *gin.Context) (usecase.AuthContext, bool) {
	value, exists := c.Get(ctxAuthKey)
	if !exists {
		return usecase.AuthContext{}, false
	}
	auth, ok := value.(usecase.AuthContext)
	return auth, ok
}
