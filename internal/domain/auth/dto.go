// internal/domain/auth/dto.go
package auth

import "fitcoach-service/internal/authapi"

// SignInRequest for email/password sign-in
type SignInRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
}

// SignUpRequest for account registration
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	UserType string `json:"user_type" binding:"omitempty,oneof=trainer client"`
}

// ResetPasswordRequest for initiating password recovery
type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SessionResponse is the session payload returned to clients
type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *UserSummary `json:"user,omitempty"`
}

// UserSummary is the caller-facing view of a provider user
type UserSummary struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	UserType      string `json:"user_type,omitempty"`
}

// NewSessionResponse maps a provider session onto the wire shape.
func NewSessionResponse(s *authapi.Session) *SessionResponse {
	resp := &SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    s.ExpiresAt,
	}
	if s.User != nil {
		resp.User = NewUserSummary(s.User)
	}
	return resp
}

// NewUserSummary maps a provider user onto the wire shape.
func NewUserSummary(u *authapi.User) *UserSummary {
	return &UserSummary{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		UserType:      u.UserType(),
	}
}
