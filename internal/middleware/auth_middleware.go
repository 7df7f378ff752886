// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"fitcoach-service/internal/pkg/jwt"
	"fitcoach-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	verifier *jwt.Verifier
}

func NewAuthMiddleware(verifier *jwt.Verifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Auth validates the provider-issued bearer token locally and loads the
// claims into the request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID())
		c.Set("email", claims.Email)
		c.Set("user_type", claims.UserType())

		c.Next()
	}
}

// RequireUserType requires the caller to have one of the given user types.
// MUST be used after Auth()
func (m *AuthMiddleware) RequireUserType(types ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("user_type")
		if userType == "" {
			response.Forbidden(c, "profile completion required")
			return
		}

		for _, t := range types {
			if userType == t {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions", gin.H{
			"required_user_type": types,
		})
	}
}

// TrainerOnly returns middlewares for trainer-only routes
func (m *AuthMiddleware) TrainerOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireUserType("trainer"),
	}
}

// extractToken extracts a Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	// Try header first
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Fallback to query param (websocket upgrades can't set headers)
	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}
