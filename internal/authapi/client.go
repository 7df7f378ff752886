// internal/authapi/client.go
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Client is the consumed contract of the hosted identity provider. Every
// operation returns a typed *Error for expected failures; none of them panic.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*Session, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*Session, error)
	CurrentUser(ctx context.Context) (*User, error)
	UserFromToken(ctx context.Context, accessToken string) (*User, error)
	RefreshSession(ctx context.Context) (*Session, error)
	ResetPassword(ctx context.Context, email, redirectTo string) error
	ExchangeCode(ctx context.Context, code string) (*Session, error)
	OAuthURL(provider, redirectTo string) (string, error)
}

// HTTPClient talks to a GoTrue-style auth endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	storage TokenStorage
	logger  *zap.Logger
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewHTTPClient(cfg Config, storage TokenStorage, logger *zap.Logger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		storage: storage,
		logger:  logger,
	}
}

// SignIn authenticates with email/password and stores the resulting session.
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var sess Session
	if err := c.post(ctx, "/token?grant_type=password", "", body, &sess); err != nil {
		return nil, err
	}

	if err := c.storage.Set(ctx, &sess); err != nil {
		c.logger.Warn("failed to persist session after sign-in", zap.Error(err))
	}
	return &sess, nil
}

// SignUp registers a new account. Metadata rides along as user_metadata; the
// provider echoes it back on every user fetch.
func (c *HTTPClient) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*Session, error) {
	body := map[string]interface{}{"email": email, "password": password}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	var sess Session
	if err := c.post(ctx, "/signup", "", body, &sess); err != nil {
		return nil, err
	}

	if sess.AccessToken != "" {
		if err := c.storage.Set(ctx, &sess); err != nil {
			c.logger.Warn("failed to persist session after sign-up", zap.Error(err))
		}
	}
	return &sess, nil
}

// SignOut revokes the current session remotely and clears local storage. The
// local clear happens even when the remote call fails.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	sess, _ := c.storage.Get(ctx)

	var remoteErr error
	if sess != nil && sess.AccessToken != "" {
		remoteErr = c.post(ctx, "/logout", sess.AccessToken, nil, nil)
	}

	if err := c.storage.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear stored session", zap.Error(err))
	}
	return remoteErr
}

// CurrentSession returns the stored session, or (nil, nil) when signed out.
func (c *HTTPClient) CurrentSession(ctx context.Context) (*Session, error) {
	return c.storage.Get(ctx)
}

// CurrentUser fetches the user behind the stored session.
func (c *HTTPClient) CurrentUser(ctx context.Context) (*User, error) {
	sess, err := c.storage.Get(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.AccessToken == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "no active session"}
	}
	return c.UserFromToken(ctx, sess.AccessToken)
}

// UserFromToken fetches the user a raw access token belongs to. Used by the
// access gate, which authenticates from a cookie rather than stored state.
func (c *HTTPClient) UserFromToken(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.get(ctx, "/user", accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshSession exchanges the stored refresh token for a new session.
func (c *HTTPClient) RefreshSession(ctx context.Context) (*Session, error) {
	sess, err := c.storage.Get(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.RefreshToken == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "no refresh token available"}
	}

	body := map[string]string{"refresh_token": sess.RefreshToken}

	var next Session
	if err := c.post(ctx, "/token?grant_type=refresh_token", "", body, &next); err != nil {
		return nil, err
	}

	if err := c.storage.Set(ctx, &next); err != nil {
		c.logger.Warn("failed to persist refreshed session", zap.Error(err))
	}
	return &next, nil
}

// ResetPassword asks the provider to send a recovery email. The caller must
// not surface whether the account exists.
func (c *HTTPClient) ResetPassword(ctx context.Context, email, redirectTo string) error {
	body := map[string]string{"email": email}
	if redirectTo != "" {
		body["redirect_to"] = redirectTo
	}
	return c.post(ctx, "/recover", "", body, nil)
}

// ExchangeCode trades an OAuth authorization code for a session.
func (c *HTTPClient) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	body := map[string]string{"auth_code": code}

	var sess Session
	if err := c.post(ctx, "/token?grant_type=authorization_code", "", body, &sess); err != nil {
		return nil, err
	}

	if err := c.storage.Set(ctx, &sess); err != nil {
		c.logger.Warn("failed to persist session after code exchange", zap.Error(err))
	}
	return &sess, nil
}

// OAuthURL builds the provider's authorize URL for redirect-based sign-in.
func (c *HTTPClient) OAuthURL(provider, redirectTo string) (string, error) {
	u, err := url.Parse(c.baseURL + "/authorize")
	if err != nil {
		return "", fmt.Errorf("invalid auth base URL: %w", err)
	}
	q := u.Query()
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ---- transport helpers ----

func (c *HTTPClient) post(ctx context.Context, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, token, reader, out)
}

func (c *HTTPClient) get(ctx context.Context, path, token string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return parseProviderError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// parseProviderError maps the provider's error body onto a typed Error. The
// provider is inconsistent about field names across endpoints.
func parseProviderError(status int, data []byte) *Error {
	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(data, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Msg
	}
	if msg == "" {
		msg = body.ErrorDescription
	}
	if msg == "" {
		msg = body.ErrorField
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &Error{Status: status, Message: msg}
}
