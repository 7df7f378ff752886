// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"

	"fitcoach-service/internal/authapi"
	"fitcoach-service/internal/domain/auth"
	xerrors "fitcoach-service/internal/pkg/errors"
	"fitcoach-service/internal/pkg/session"

	"go.uber.org/zap"
)

// AuthService fronts the hosted identity provider for the credential flows.
// Everything stateful about the session lives in the coordinator; this layer
// adds rate limiting and request/response mapping.
type AuthService struct {
	api         authapi.Client
	coordinator *session.Coordinator
	rateLimiter *session.RateLimiter
	logger      *zap.Logger
}

func NewAuthService(
	api authapi.Client,
	coordinator *session.Coordinator,
	rateLimiter *session.RateLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		api:         api,
		coordinator: coordinator,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// SignIn authenticates with the provider. Attempts are rate limited per
// IP+email pair.
func (s *AuthService) SignIn(ctx context.Context, req *auth.SignInRequest) (*authapi.Session, error) {
	allowed, remaining, err := s.rateLimiter.CheckSignInAttempt(ctx, req.IPAddress, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	sess, err := s.api.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("sign-in failed",
			zap.String("email", req.Email),
			zap.Int64("attempts_remaining", remaining),
			zap.Error(err),
		)
		return nil, err
	}

	s.rateLimiter.ResetSignInAttempts(ctx, req.IPAddress, req.Email)
	return sess, nil
}

// SignUp registers an account. The user type selected at registration rides
// along in provider metadata; when absent, the account needs profile
// completion before the dashboard opens.
func (s *AuthService) SignUp(ctx context.Context, req *auth.SignUpRequest) (*authapi.Session, error) {
	metadata := map[string]interface{}{
		"full_name": req.FullName,
	}
	if req.UserType != "" {
		metadata["user_type"] = req.UserType
	}

	sess, err := s.api.SignUp(ctx, req.Email, req.Password, metadata)
	if err != nil {
		s.logger.Warn("sign-up failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	return sess, nil
}

// SignOut ends the current session. Never fails from the caller's view.
func (s *AuthService) SignOut(ctx context.Context) {
	s.coordinator.ClearSession(ctx)
}

// Refresh runs a coordinated refresh and returns the resulting session.
func (s *AuthService) Refresh(ctx context.Context) (*authapi.Session, error) {
	res := s.coordinator.RefreshSession(ctx)
	if !res.Success {
		return nil, &authapi.Error{Status: 401, Message: res.Error}
	}

	sess, err := s.api.CurrentSession(ctx)
	if err != nil || sess == nil {
		return nil, &authapi.Error{Status: 401, Message: "no session after refresh"}
	}
	return sess, nil
}

// ResetPassword initiates recovery. The real outcome is only observable
// server-side; callers always see success.
func (s *AuthService) ResetPassword(ctx context.Context, email, redirectTo string) {
	allowed, err := s.rateLimiter.CheckPasswordResetAttempt(ctx, email)
	if err != nil {
		s.logger.Error("rate limiter error on password reset", zap.Error(err))
		return
	}
	if !allowed {
		s.logger.Warn("password reset rate limited", zap.String("email", email))
		return
	}

	if err := s.api.ResetPassword(ctx, email, redirectTo); err != nil {
		// Do not reveal whether the account exists
		s.logger.Warn("password reset request failed", zap.Error(err))
	}
}

// CurrentUser fetches the user behind the current session.
func (s *AuthService) CurrentUser(ctx context.Context) (*authapi.User, error) {
	return s.api.CurrentUser(ctx)
}
