// internal/pkg/session/coordinator.go
package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"fitcoach-service/internal/authapi"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultValidityBuffer is how long before actual expiry a session is already
// treated as invalid.
const DefaultValidityBuffer = 300 * time.Second

// Navigator performs the expiry-redirect side effect. Injected so the policy
// is testable without a browser or network context.
type Navigator interface {
	RedirectTo(url string)
}

// Data combines the session and user legs of a composite fetch.
type Data struct {
	Session   *authapi.Session
	User      *authapi.User
	ExpiresAt int64
}

// RefreshResult is the shared outcome of a refresh attempt. Every caller that
// joins an in-flight refresh receives the same value.
type RefreshResult struct {
	Success bool
	Error   string
}

type CoordinatorConfig struct {
	ValidityBuffer   time.Duration
	RefreshThreshold time.Duration
	LoginURL         string
	AuthPathPrefix   string
}

// Coordinator wraps the auth capability with expiry buffering, single-flight
// refresh de-duplication and the expiry-redirect policy. No method lets an
// error or panic escape past its boundary.
type Coordinator struct {
	api    authapi.Client
	nav    Navigator
	logger *zap.Logger

	validityBuffer   time.Duration
	refreshThreshold time.Duration
	loginURL         string
	authPathPrefix   string

	now     func() time.Time
	refresh singleflight.Group
}

func NewCoordinator(api authapi.Client, nav Navigator, logger *zap.Logger, cfg CoordinatorConfig) *Coordinator {
	if cfg.ValidityBuffer <= 0 {
		cfg.ValidityBuffer = DefaultValidityBuffer
	}
	if cfg.RefreshThreshold <= 0 {
		cfg.RefreshThreshold = DefaultValidityBuffer
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = "/auth/login"
	}
	if cfg.AuthPathPrefix == "" {
		cfg.AuthPathPrefix = "/auth"
	}
	return &Coordinator{
		api:              api,
		nav:              nav,
		logger:           logger,
		validityBuffer:   cfg.ValidityBuffer,
		refreshThreshold: cfg.RefreshThreshold,
		loginURL:         cfg.LoginURL,
		authPathPrefix:   cfg.AuthPathPrefix,
		now:              time.Now,
	}
}

// IsSessionValid reports whether the current session expires beyond the
// validity buffer. Fails closed on any retrieval error or missing session.
func (c *Coordinator) IsSessionValid(ctx context.Context) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic during session validity check", zap.Any("panic", r))
			valid = false
		}
	}()

	sess, err := c.api.CurrentSession(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch current session", zap.Error(err))
		return false
	}
	if sess == nil {
		return false
	}

	return sess.ExpiresAt > c.now().Unix()+int64(c.validityBuffer/time.Second)
}

// RefreshSession refreshes the current session. Concurrent callers attach to
// the one in-flight attempt and all observe its outcome; the in-flight marker
// clears once that attempt settles, success or failure.
func (c *Coordinator) RefreshSession(ctx context.Context) RefreshResult {
	v, _, _ := c.refresh.Do("refresh", func() (res interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("panic during session refresh", zap.Any("panic", r))
				res = RefreshResult{Error: fmt.Sprintf("refresh panicked: %v", r)}
			}
		}()

		sess, rerr := c.api.RefreshSession(ctx)
		if rerr != nil {
			return RefreshResult{Error: rerr.Error()}, nil
		}
		if sess == nil {
			return RefreshResult{Error: "provider returned no session"}, nil
		}
		return RefreshResult{Success: true}, nil
	})

	return v.(RefreshResult)
}

// GetSessionData fetches the session and the user concurrently and joins the
// results. Either leg failing or coming back empty yields nil; a failing leg
// does not cancel the other. ExpiresAt defaults to 0 when absent.
func (c *Coordinator) GetSessionData(ctx context.Context) (data *Data) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic during session data fetch", zap.Any("panic", r))
			data = nil
		}
	}()

	var (
		wg      sync.WaitGroup
		sess    *authapi.Session
		user    *authapi.User
		sessErr error
		userErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sess, sessErr = c.api.CurrentSession(ctx)
	}()
	go func() {
		defer wg.Done()
		user, userErr = c.api.CurrentUser(ctx)
	}()
	wg.Wait()

	if sessErr != nil || userErr != nil || sess == nil || user == nil {
		return nil
	}

	return &Data{
		Session:   sess,
		User:      user,
		ExpiresAt: sess.ExpiresAt,
	}
}

// ClearSession signs out. Logout is always locally complete; a failing remote
// call is logged and swallowed.
func (c *Coordinator) ClearSession(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic during sign-out", zap.Any("panic", r))
		}
	}()

	if err := c.api.SignOut(ctx); err != nil {
		c.logger.Warn("remote sign-out failed", zap.Error(err))
	}
}

// RequiresProfileCompletion reports whether a signed-in user still has to pick
// a user type. No session means no completion required.
func (c *Coordinator) RequiresProfileCompletion(ctx context.Context) bool {
	data := c.GetSessionData(ctx)
	if data == nil {
		return false
	}
	return data.User.UserType() == ""
}

// HandleSessionExpiry navigates to the login page. When the current path is
// known and not itself an auth page, it is carried as redirectTo together
// with an expired marker.
func (c *Coordinator) HandleSessionExpiry(currentPath string) {
	target := c.loginURL

	if currentPath != "" && !strings.HasPrefix(currentPath, c.authPathPrefix) {
		q := url.Values{}
		q.Set("redirectTo", currentPath)
		q.Set("expired", "true")
		target = c.loginURL + "?" + q.Encode()
	}

	c.nav.RedirectTo(target)
}

// ValidateAndRefresh checks validity and falls back to a refresh. A failed
// refresh triggers the expiry redirect.
func (c *Coordinator) ValidateAndRefresh(ctx context.Context) bool {
	if c.IsSessionValid(ctx) {
		return true
	}

	res := c.RefreshSession(ctx)
	if !res.Success {
		c.HandleSessionExpiry("")
		return false
	}
	return true
}

// SetupAutoRefresh starts a background check at the refresh threshold that
// refreshes whenever the session has become invalid. The returned stop
// function is safe to call more than once and must be called on teardown.
func (c *Coordinator) SetupAutoRefresh() func() {
	done := make(chan struct{})
	ticker := time.NewTicker(c.refreshThreshold)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx := context.Background()
				if c.IsSessionValid(ctx) {
					continue
				}
				if res := c.RefreshSession(ctx); !res.Success {
					c.logger.Warn("auto refresh failed", zap.String("reason", res.Error))
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
