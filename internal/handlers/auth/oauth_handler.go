// internal/handlers/auth/oauth_handler.go
package auth

import (
	"net/http"
	"net/url"

	"fitcoach-service/internal/authapi"
	"fitcoach-service/internal/middleware"
	"fitcoach-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OAuthHandler runs the redirect-based sign-in flows. Both providers share
// one callback state machine; each terminal branch ends in exactly one
// redirect, and a panic anywhere inside lands on the login page with a
// generic error rather than a blank 500.
type OAuthHandler struct {
	api            authapi.Client
	loginPath      string
	signInRedirect string
	logger         *zap.Logger
}

func NewOAuthHandler(api authapi.Client, loginPath, signInRedirect string, logger *zap.Logger) *OAuthHandler {
	if loginPath == "" {
		loginPath = "/auth/login"
	}
	if signInRedirect == "" {
		signInRedirect = "/dashboard"
	}
	return &OAuthHandler{
		api:            api,
		loginPath:      loginPath,
		signInRedirect: signInRedirect,
		logger:         logger,
	}
}

// Start redirects the browser to the provider's consent screen.
func (h *OAuthHandler) Start(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirectTo := c.Query("redirect_to")

		authorizeURL, err := h.api.OAuthURL(provider, redirectTo)
		if err != nil {
			h.logger.Error("failed to build authorize URL",
				zap.String("provider", provider),
				zap.Error(err),
			)
			response.Internal(c)
			return
		}

		c.Redirect(http.StatusFound, authorizeURL)
	}
}

// Callback dispatches the return leg on the provider path param.
func (h *OAuthHandler) Callback(c *gin.Context) {
	switch provider := c.Param("provider"); provider {
	case "google", "facebook":
		h.callback(c, provider)
	default:
		h.failLogin(c, "unknown_provider")
	}
}

// GoogleCallback handles the Google OAuth return leg.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	h.callback(c, "google")
}

// FacebookCallback handles the Facebook OAuth return leg.
func (h *OAuthHandler) FacebookCallback(c *gin.Context) {
	h.callback(c, "facebook")
}

func (h *OAuthHandler) callback(c *gin.Context, provider string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic during oauth callback",
				zap.String("provider", provider),
				zap.Any("panic", r),
			)
			h.failLogin(c, "internal_error")
		}
	}()

	// Provider denied or aborted the flow
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("oauth flow returned an error",
			zap.String("provider", provider),
			zap.String("error", errParam),
		)
		h.failLogin(c, errParam)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.failLogin(c, "missing_code")
		return
	}

	sess, err := h.api.ExchangeCode(c.Request.Context(), code)
	if err != nil || sess == nil || sess.AccessToken == "" {
		h.logger.Warn("oauth code exchange failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.failLogin(c, "oauth_failed")
		return
	}

	user, err := h.api.UserFromToken(c.Request.Context(), sess.AccessToken)
	if err != nil || user == nil {
		h.logger.Warn("oauth user fetch failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.failLogin(c, "user_fetch_failed")
		return
	}

	maxAge := 7 * 24 * 3600
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, sess.AccessToken, maxAge, "/", "", c.Request.TLS != nil, true)

	// Accounts created through OAuth have no user type yet
	if user.UserType() == "" {
		c.Redirect(http.StatusFound, "/auth/complete-profile?provider="+url.QueryEscape(provider))
		return
	}

	h.logger.Info("oauth sign-in complete",
		zap.String("provider", provider),
		zap.String("user_id", user.ID),
	)
	c.Redirect(http.StatusFound, h.signInRedirect)
}

func (h *OAuthHandler) failLogin(c *gin.Context, code string) {
	q := url.Values{}
	q.Set("error", code)
	c.Redirect(http.StatusFound, h.loginPath+"?"+q.Encode())
}
