// internal/middleware/gate.go
package middleware

import (
	"net/http"
	"net/url"

	"fitcoach-service/internal/authapi"
	"fitcoach-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessTokenCookie is where the dashboard keeps the provider access token.
const AccessTokenCookie = "fc_access_token"

// AccessGate guards page routes. Public and static paths pass untouched;
// authenticated users are bounced off the login/register pages; protected
// pages redirect unauthenticated visitors to login, carrying the original
// path. An errored auth check counts as unauthenticated: the gate never
// fails open on a protected path.
type AccessGate struct {
	api       authapi.Client
	routes    *session.RouteClassifier
	loginPath string
	logger    *zap.Logger
}

func NewAccessGate(api authapi.Client, routes *session.RouteClassifier, loginPath string, logger *zap.Logger) *AccessGate {
	if loginPath == "" {
		loginPath = "/auth/login"
	}
	return &AccessGate{
		api:       api,
		routes:    routes,
		loginPath: loginPath,
		logger:    logger,
	}
}

func (g *AccessGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		class := g.routes.Classify(path)
		if class == session.RoutePublic {
			c.Next()
			return
		}

		authenticated := g.isAuthenticated(c)

		switch {
		case authenticated && class == session.RouteAuth:
			c.Redirect(http.StatusFound, "/")
			c.Abort()

		case !authenticated && class == session.RouteProtected:
			q := url.Values{}
			q.Set("redirectTo", path)
			c.Redirect(http.StatusFound, g.loginPath+"?"+q.Encode())
			c.Abort()

		default:
			c.Next()
		}
	}
}

func (g *AccessGate) isAuthenticated(c *gin.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("panic during gate auth check", zap.Any("panic", r))
			ok = false
		}
	}()

	token, err := c.Cookie(AccessTokenCookie)
	if err != nil || token == "" {
		return false
	}

	user, err := g.api.UserFromToken(c.Request.Context(), token)
	if err != nil {
		if !authapi.IsAuthFailure(err) {
			g.logger.Warn("gate auth check failed unexpectedly", zap.Error(err))
		}
		return false
	}

	return user != nil
}
