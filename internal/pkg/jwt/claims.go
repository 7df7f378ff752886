// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims the auth provider puts into its access tokens.
// Subject carries the provider user ID.
type Claims struct {
	Email        string                 `json:"email,omitempty"`
	Role         string                 `json:"role,omitempty"` // provider role, e.g. "authenticated"
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the provider user ID.
func (c *Claims) UserID() string {
	return c.Subject
}

// UserType returns user_metadata.user_type, or "" when absent.
func (c *Claims) UserType() string {
	if c.UserMetadata == nil {
		return ""
	}
	t, _ := c.UserMetadata["user_type"].(string)
	return t
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		// If audience is required but missing
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
