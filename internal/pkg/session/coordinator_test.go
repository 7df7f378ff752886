package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fitcoach-service/internal/authapi"

	"go.uber.org/zap"
)

type fakeClient struct {
	currentSessionFn func(ctx context.Context) (*authapi.Session, error)
	currentUserFn    func(ctx context.Context) (*authapi.User, error)
	refreshFn        func(ctx context.Context) (*authapi.Session, error)
	signOutFn        func(ctx context.Context) error
}

func (f *fakeClient) SignIn(ctx context.Context, email, password string) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeClient) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	if f.signOutFn == nil {
		return nil
	}
	return f.signOutFn(ctx)
}

func (f *fakeClient) CurrentSession(ctx context.Context) (*authapi.Session, error) {
	if f.currentSessionFn == nil {
		return nil, nil
	}
	return f.currentSessionFn(ctx)
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*authapi.User, error) {
	if f.currentUserFn == nil {
		return nil, &authapi.Error{Status: 401, Message: "no active session"}
	}
	return f.currentUserFn(ctx)
}

func (f *fakeClient) UserFromToken(ctx context.Context, accessToken string) (*authapi.User, error) {
	return nil, &authapi.Error{Status: 401, Message: "invalid token"}
}

func (f *fakeClient) RefreshSession(ctx context.Context) (*authapi.Session, error) {
	if f.refreshFn == nil {
		return nil, &authapi.Error{Status: 401, Message: "no refresh token available"}
	}
	return f.refreshFn(ctx)
}

func (f *fakeClient) ResetPassword(ctx context.Context, email, redirectTo string) error {
	return nil
}

func (f *fakeClient) ExchangeCode(ctx context.Context, code string) (*authapi.Session, error) {
	return nil, nil
}

func (f *fakeClient) OAuthURL(provider, redirectTo string) (string, error) {
	return "", nil
}

type fakeNavigator struct {
	mu      sync.Mutex
	targets []string
}

func (n *fakeNavigator) RedirectTo(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, url)
}

func (n *fakeNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.targets) == 0 {
		return ""
	}
	return n.targets[len(n.targets)-1]
}

func newTestCoordinator(api authapi.Client, nav Navigator) *Coordinator {
	return NewCoordinator(api, nav, zap.NewNop(), CoordinatorConfig{})
}

func TestIsSessionValidBoundary(t *testing.T) {
	now := time.Unix(1_000_000, 0)

	cases := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{"expires well beyond buffer", now.Unix() + 600, true},
		{"expires one second past buffer", now.Unix() + 301, true},
		{"expires exactly at buffer", now.Unix() + 300, false},
		{"expires inside buffer", now.Unix() + 10, false},
		{"already expired", now.Unix() - 10, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeClient{
				currentSessionFn: func(ctx context.Context) (*authapi.Session, error) {
					return &authapi.Session{AccessToken: "tok", ExpiresAt: tc.expiresAt}, nil
				},
			}
			c := newTestCoordinator(api, &fakeNavigator{})
			c.now = func() time.Time { return now }

			if got := c.IsSessionValid(context.Background()); got != tc.want {
				t.Fatalf("IsSessionValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsSessionValidFailsClosed(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		c := newTestCoordinator(&fakeClient{}, &fakeNavigator{})
		if c.IsSessionValid(context.Background()) {
			t.Fatal("expected missing session to be invalid")
		}
	})

	t.Run("retrieval error", func(t *testing.T) {
		api := &fakeClient{
			currentSessionFn: func(ctx context.Context) (*authapi.Session, error) {
				return nil, &authapi.Error{Message: "connection refused"}
			},
		}
		c := newTestCoordinator(api, &fakeNavigator{})
		if c.IsSessionValid(context.Background()) {
			t.Fatal("expected errored check to be invalid")
		}
	})

	t.Run("panic in capability", func(t *testing.T) {
		api := &fakeClient{
			currentSessionFn: func(ctx context.Context) (*authapi.Session, error) {
				panic("boom")
			},
		}
		c := newTestCoordinator(api, &fakeNavigator{})
		if c.IsSessionValid(context.Background()) {
			t.Fatal("expected panicking check to be invalid")
		}
	})
}

func TestRefreshSessionSingleFlight(t *testing.T) {
	var calls int64
	release := make(chan struct{})
	entered := make(chan struct{})

	api := &fakeClient{
		refreshFn: func(ctx context.Context) (*authapi.Session, error) {
			atomic.AddInt64(&calls, 1)
			close(entered)
			<-release
			return &authapi.Session{AccessToken: "new", RefreshToken: "newref", ExpiresAt: time.Now().Unix() + 3600}, nil
		},
	}
	c := newTestCoordinator(api, &fakeNavigator{})

	const n = 16
	results := make([]RefreshResult, n)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = c.RefreshSession(context.Background())
	}()
	<-entered

	// Everyone else attaches to the in-flight attempt
	wg.Add(n - 1)
	for i := 1; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = c.RefreshSession(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("capability refresh called %d times, want 1", got)
	}
	for i, res := range results {
		if !res.Success {
			t.Fatalf("caller %d got failure %q, want shared success", i, res.Error)
		}
	}
}

func TestRefreshSessionClearsInFlightMarker(t *testing.T) {
	var calls int64
	api := &fakeClient{
		refreshFn: func(ctx context.Context) (*authapi.Session, error) {
			atomic.AddInt64(&calls, 1)
			return nil, &authapi.Error{Status: 401, Message: "refresh token revoked"}
		},
	}
	c := newTestCoordinator(api, &fakeNavigator{})

	first := c.RefreshSession(context.Background())
	if first.Success {
		t.Fatal("expected first refresh to fail")
	}
	if !strings.Contains(first.Error, "revoked") {
		t.Fatalf("unexpected error: %q", first.Error)
	}

	// A later attempt starts fresh instead of replaying the settled failure
	c.RefreshSession(context.Background())
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Fatalf("capability refresh called %d times, want 2", got)
	}
}

func TestRefreshSessionRecoversFromPanic(t *testing.T) {
	api := &fakeClient{
		refreshFn: func(ctx context.Context) (*authapi.Session, error) {
			panic("provider client broke")
		},
	}
	c := newTestCoordinator(api, &fakeNavigator{})

	res := c.RefreshSession(context.Background())
	if res.Success {
		t.Fatal("expected panicking refresh to fail")
	}
	if !strings.Contains(res.Error, "panicked") {
		t.Fatalf("unexpected error: %q", res.Error)
	}
}

func TestGetSessionData(t *testing.T) {
	sess := &authapi.Session{AccessToken: "tok", ExpiresAt: 12345}
	user := &authapi.User{ID: "user-1", Email: "t@example.com"}

	t.Run("both legs succeed", func(t *testing.T) {
		api := &fakeClient{
			currentSessionFn: func(ctx context.Context) (*authapi.Session, error) { return sess, nil },
			currentUserFn:    func(ctx context.Context) (*authapi.User, error) { return user, nil },
		}
		c := newTestCoordinator(api, &fakeNavigator{})

		data := c.GetSessionData(context.Background())
		if data == nil {
			t.Fatal("expected session data")
		}
		if data.ExpiresAt != 12345 {
			t.Fatalf("ExpiresAt = %d, want 12345", data.ExpiresAt)
		}
		if data.User.ID != "user-1" {
			t.Fatalf("User.ID = %q, want user-1", data.User.ID)
		}
	})

	t.Run("user leg fails", func(t *testing.T) {
		api := &fakeClient{
			currentSessionFn: func(ctx context.Context) (*authapi.Session, error) { return sess, nil },
			currentUserFn: func(ctx context.Context) (*authapi.User, error) {
				return nil, &authapi.Error{Status: 401, Message: "expired"}
			},
		}
		c := newTestCoordinator(api, &fakeNavigator{})
		if data := c.GetSessionData(context.Background()); data != nil {
			t.Fatal("expected nil when the user leg fails")
		}
	})

	t.Run("session leg empty", func(t *testing.T) {
		api := &fakeClient{
			currentUserFn: func(ctx context.Context) (*authapi.User, error) { return user, nil },
		}
		c := newTestCoordinator(api, &fakeNavigator{})
		if data := c.GetSessionData(context.Background()); data != nil {
			t.Fatal("expected nil when there is no session")
		}
	})
}

func TestClearSessionNeverFails(t *testing.T) {
	t.Run("remote failure swallowed", func(t *testing.T) {
		api := &fakeClient{
			signOutFn: func(ctx context.Context) error {
				return &authapi.Error{Message: "connection refused"}
			},
		}
		c := newTestCoordinator(api, &fakeNavigator{})
		c.ClearSession(context.Background())
	})

	t.Run("panic swallowed", func(t *testing.T) {
		api := &fakeClient{
			signOutFn: func(ctx context.Context) error { panic("boom") },
		}
		c := newTestCoordinator(api, &fakeNavigator{})
		c.ClearSession(context.Background())
	})
}

func TestRequiresProfileCompletion(t *testing.T) {
	sess := &authapi.Session{AccessToken: "tok", ExpiresAt: 12345}

	cases := []struct {
		name string
		user *authapi.User
		want bool
	}{
		{"no user type", &authapi.User{ID: "u1", Metadata: map[string]interface{}{"full_name": "Sam"}}, true},
		{"nil metadata", &authapi.User{ID: "u1"}, true},
		{"trainer", &authapi.User{ID: "u1", Metadata: map[string]interface{}{"user_type": "trainer"}}, false},
		{"non-string user type", &authapi.User{ID: "u1", Metadata: map[string]interface{}{"user_type": 7}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeClient{
				currentSessionFn: func(ctx context.Context) (*authapi.Session, error) { return sess, nil },
				currentUserFn:    func(ctx context.Context) (*authapi.User, error) { return tc.user, nil },
			}
			c := newTestCoordinator(api, &fakeNavigator{})
			if got := c.RequiresProfileCompletion(context.Background()); got != tc.want {
				t.Fatalf("RequiresProfileCompletion() = %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("signed out", func(t *testing.T) {
		c := newTestCoordinator(&fakeClient{}, &fakeNavigator{})
		if c.RequiresProfileCompletion(context.Background()) {
			t.Fatal("no session should not require completion")
		}
	})
}

func TestHandleSessionExpiry(t *testing.T) {
	t.Run("carries the current path", func(t *testing.T) {
		nav := &fakeNavigator{}
		c := newTestCoordinator(&fakeClient{}, nav)

		c.HandleSessionExpiry("/dashboard/clients")

		got := nav.last()
		if !strings.HasPrefix(got, "/auth/login?") {
			t.Fatalf("redirect target = %q, want login URL", got)
		}
		if !strings.Contains(got, "expired=true") {
			t.Fatalf("redirect target %q missing expired marker", got)
		}
		if !strings.Contains(got, "redirectTo=%2Fdashboard%2Fclients") {
			t.Fatalf("redirect target %q missing original path", got)
		}
	})

	t.Run("auth pages redirect plainly", func(t *testing.T) {
		nav := &fakeNavigator{}
		c := newTestCoordinator(&fakeClient{}, nav)

		c.HandleSessionExpiry("/auth/reset-password")

		if got := nav.last(); got != "/auth/login" {
			t.Fatalf("redirect target = %q, want /auth/login", got)
		}
	})

	t.Run("unknown path redirects plainly", func(t *testing.T) {
		nav := &fakeNavigator{}
		c := newTestCoordinator(&fakeClient{}, nav)

		c.HandleSessionExpiry("")

		if got := nav.last(); got != "/auth/login" {
			t.Fatalf("redirect target = %q, want /auth/login", got)
		}
	})
}

func TestValidateAndRefresh(t *testing.T) {
	t.Run("valid session needs no refresh", func(t *testing.T) {
		var refreshed int64
		api := &fakeClient{
			currentSessionFn: func(ctx context.Context) (*authapi.Session, error) {
				return &authapi.Session{AccessToken: "tok", ExpiresAt: time.Now().Unix() + 3600}, nil
			},
			refreshFn: func(ctx context.Context) (*authapi.Session, error) {
				atomic.AddInt64(&refreshed, 1)
				return nil, nil
			},
		}
		c := newTestCoordinator(api, &fakeNavigator{})

		if !c.ValidateAndRefresh(context.Background()) {
			t.Fatal("expected valid session to pass")
		}
		if atomic.LoadInt64(&refreshed) != 0 {
			t.Fatal("valid session should not trigger a refresh")
		}
	})

	t.Run("stale session refreshes", func(t *testing.T) {
		api := &fakeClient{
			currentSessionFn: func(ctx context.Context) (*authapi.Session, error) {
				return &authapi.Session{AccessToken: "tok", ExpiresAt: time.Now().Unix() + 10}, nil
			},
			refreshFn: func(ctx context.Context) (*authapi.Session, error) {
				return &authapi.Session{AccessToken: "new", ExpiresAt: time.Now().Unix() + 3600}, nil
			},
		}
		c := newTestCoordinator(api, &fakeNavigator{})

		if !c.ValidateAndRefresh(context.Background()) {
			t.Fatal("expected refresh to recover the session")
		}
	})

	t.Run("failed refresh redirects to login", func(t *testing.T) {
		nav := &fakeNavigator{}
		api := &fakeClient{
			refreshFn: func(ctx context.Context) (*authapi.Session, error) {
				return nil, &authapi.Error{Status: 401, Message: "refresh token revoked"}
			},
		}
		c := newTestCoordinator(api, nav)

		if c.ValidateAndRefresh(context.Background()) {
			t.Fatal("expected failed refresh to report invalid")
		}
		if nav.last() != "/auth/login" {
			t.Fatalf("redirect target = %q, want /auth/login", nav.last())
		}
	})
}
