package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitcoach-service/internal/authapi"
	"fitcoach-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeAuthClient struct {
	userFromTokenFn func(ctx context.Context, token string) (*authapi.User, error)
}

func (f *fakeAuthClient) SignIn(ctx context.Context, email, password string) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeAuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeAuthClient) SignOut(ctx context.Context) error { return nil }

func (f *fakeAuthClient) CurrentSession(ctx context.Context) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeAuthClient) CurrentUser(ctx context.Context) (*authapi.User, error) {
	return nil, &authapi.Error{Status: 401, Message: "no active session"}
}

func (f *fakeAuthClient) UserFromToken(ctx context.Context, token string) (*authapi.User, error) {
	if f.userFromTokenFn == nil {
		return nil, &authapi.Error{Status: 401, Message: "invalid token"}
	}
	return f.userFromTokenFn(ctx, token)
}

func (f *fakeAuthClient) RefreshSession(ctx context.Context) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeAuthClient) ResetPassword(ctx context.Context, email, redirectTo string) error {
	return nil
}

func (f *fakeAuthClient) ExchangeCode(ctx context.Context, code string) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeAuthClient) OAuthURL(provider, redirectTo string) (string, error) {
	return "", nil
}

func gateEngine(api authapi.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gate := NewAccessGate(api, session.DefaultRoutes(), "/auth/login", zap.NewNop())

	r := gin.New()
	r.NoRoute(gate.Handler(), func(c *gin.Context) {
		c.String(http.StatusOK, "page")
	})
	return r
}

func serve(t *testing.T, r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGateRedirectsAnonymousFromProtected(t *testing.T) {
	r := gateEngine(&fakeAuthClient{})

	w := serve(t, r, "/clients", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/auth/login?redirectTo=%2Fclients" {
		t.Fatalf("Location = %q", got)
	}
}

func TestGatePassesPublicPaths(t *testing.T) {
	// Capability panics to prove public paths skip the auth check entirely
	api := &fakeAuthClient{
		userFromTokenFn: func(ctx context.Context, token string) (*authapi.User, error) {
			panic("public paths must not check auth")
		},
	}
	r := gateEngine(api)

	for _, path := range []string{"/pricing", "/favicon.ico", "/assets/app.css"} {
		w := serve(t, r, path, "token-present")
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, w.Code)
		}
	}
}

func TestGateBouncesAuthenticatedOffAuthPages(t *testing.T) {
	api := &fakeAuthClient{
		userFromTokenFn: func(ctx context.Context, token string) (*authapi.User, error) {
			return &authapi.User{ID: "user-1"}, nil
		},
	}
	r := gateEngine(api)

	w := serve(t, r, "/auth/login", "valid-token")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/" {
		t.Fatalf("Location = %q, want /", got)
	}
}

func TestGateAllowsAuthenticatedIntoProtected(t *testing.T) {
	api := &fakeAuthClient{
		userFromTokenFn: func(ctx context.Context, token string) (*authapi.User, error) {
			return &authapi.User{ID: "user-1"}, nil
		},
	}
	r := gateEngine(api)

	w := serve(t, r, "/dashboard", "valid-token")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestGateNeverFailsOpen(t *testing.T) {
	t.Run("capability error", func(t *testing.T) {
		api := &fakeAuthClient{
			userFromTokenFn: func(ctx context.Context, token string) (*authapi.User, error) {
				return nil, &authapi.Error{Message: "connection refused"}
			},
		}
		r := gateEngine(api)

		w := serve(t, r, "/dashboard", "some-token")
		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302 redirect to login", w.Code)
		}
	})

	t.Run("capability panic", func(t *testing.T) {
		api := &fakeAuthClient{
			userFromTokenFn: func(ctx context.Context, token string) (*authapi.User, error) {
				panic("boom")
			},
		}
		r := gateEngine(api)

		w := serve(t, r, "/dashboard", "some-token")
		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302 redirect to login", w.Code)
		}
	})
}

func TestGatePassesUnclassifiedPaths(t *testing.T) {
	r := gateEngine(&fakeAuthClient{})

	// Unclassified paths pass through for everyone
	w := serve(t, r, "/auth/complete-profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
