// internal/authapi/types.go
package authapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Session is the provider-issued session. ExpiresAt is absolute unix seconds.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user,omitempty"`
}

// User is the provider's view of an account. Metadata is an open map; the only
// field this service depends on is user_type, read through UserType.
type User struct {
	ID            string                 `json:"id"`
	Email         string                 `json:"email"`
	EmailVerified bool                   `json:"email_verified"`
	Metadata      map[string]interface{} `json:"user_metadata"`
}

// UserType returns metadata.user_type, or "" when absent or not a string.
func (u *User) UserType() string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	t, _ := u.Metadata["user_type"].(string)
	return t
}

// Error is the typed failure half of every capability result. Expected auth
// failures carry the provider's HTTP status; transport faults carry Status 0.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("auth provider: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("auth provider unreachable: %s", e.Message)
}

// AsError unwraps err into a capability *Error if it is one.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsRateLimited reports whether err is a provider 429.
func IsRateLimited(err error) bool {
	ae, ok := AsError(err)
	return ok && ae.Status == http.StatusTooManyRequests
}

// IsAuthFailure reports whether err is an expected 4xx auth failure.
func IsAuthFailure(err error) bool {
	ae, ok := AsError(err)
	return ok && ae.Status >= 400 && ae.Status < 500
}
