// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"fitcoach-service/internal/authapi"
	"fitcoach-service/internal/domain/auth"
	"fitcoach-service/internal/middleware"
	xerrors "fitcoach-service/internal/pkg/errors"
	"fitcoach-service/internal/pkg/response"
	authUsecase "fitcoach-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Sign-in ==========

// SignIn handles email/password sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()

	sess, err := h.authService.SignIn(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrRateLimited) {
			response.Error(c, http.StatusTooManyRequests, "too many sign-in attempts")
			return
		}
		// Provider rate limits pass through with the provider's message
		if ae, ok := authapi.AsError(err); ok && ae.Status == http.StatusTooManyRequests {
			response.Error(c, http.StatusTooManyRequests, ae.Message)
			return
		}

		h.logger.Warn("sign-in failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.Unauthorized(c, "invalid credentials")
		return
	}

	h.setSessionCookie(c, sess)

	h.logger.Info("user signed in", zap.String("email", req.Email))
	response.Success(c, http.StatusOK, auth.NewSessionResponse(sess))
}

// ========== Registration ==========

// SignUp handles account registration (public endpoint)
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	sess, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		if ae, ok := authapi.AsError(err); ok && ae.Status == http.StatusTooManyRequests {
			response.Error(c, http.StatusTooManyRequests, ae.Message)
			return
		}
		response.Error(c, http.StatusBadRequest, "registration failed", gin.H{
			"reason": xerrors.MessageOrDefault(err, "unknown"),
		})
		return
	}

	// Providers with email confirmation enabled return no tokens yet
	if sess.AccessToken != "" {
		h.setSessionCookie(c, sess)
	}

	response.Success(c, http.StatusCreated, auth.NewSessionResponse(sess))
}

// ========== Sign-out ==========

// SignOut ends the current session. Always succeeds from the caller's view.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.authService.SignOut(c.Request.Context())
	h.clearSessionCookie(c)

	response.Success(c, http.StatusOK, gin.H{"signed_out": true})
}

// ========== Refresh ==========

// Refresh runs a coordinated session refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	sess, err := h.authService.Refresh(c.Request.Context())
	if err != nil {
		h.clearSessionCookie(c)
		response.Unauthorized(c, "session expired")
		return
	}

	h.setSessionCookie(c, sess)
	response.Success(c, http.StatusOK, auth.NewSessionResponse(sess))
}

// ========== Password recovery ==========

// ResetPassword initiates password recovery. The response never reveals
// whether the account exists.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	h.authService.ResetPassword(c.Request.Context(), req.Email, "/auth/reset-password")

	response.Success(c, http.StatusOK, gin.H{
		"message": "if the account exists, a reset link has been sent",
	})
}

// ========== Profile ==========

// Me returns the user behind the current session (requires auth)
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context())
	if err != nil {
		if authapi.IsAuthFailure(err) {
			response.Unauthorized(c, "session expired")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, auth.NewUserSummary(user))
}

// ---- cookie helpers ----

func (h *AuthHandler) setSessionCookie(c *gin.Context, sess *authapi.Session) {
	maxAge := 7 * 24 * 3600
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, sess.AccessToken, maxAge, "/", "", c.Request.TLS != nil, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
