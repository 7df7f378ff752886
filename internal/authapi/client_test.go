package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *MemoryStorage) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage := NewMemoryStorage()
	client := NewHTTPClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-anon-key",
	}, storage, zap.NewNop())
	return client, storage
}

func TestSignInStoresSession(t *testing.T) {
	client, storage := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		}
		if r.Header.Get("apikey") != "test-anon-key" {
			t.Error("missing apikey header")
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "sam@example.com" {
			t.Errorf("email = %q", body["email"])
		}

		json.NewEncoder(w).Encode(Session{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    1_700_000_000,
		})
	}))

	sess, err := client.SignIn(context.Background(), "sam@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.AccessToken != "access-1" {
		t.Fatalf("AccessToken = %q", sess.AccessToken)
	}

	stored, _ := storage.Get(context.Background())
	if stored == nil || stored.RefreshToken != "refresh-1" {
		t.Fatal("session was not persisted")
	}
}

func TestSignInProviderErrorVariants(t *testing.T) {
	// The provider uses different error field names across endpoints
	bodies := []string{
		`{"message":"Invalid login credentials"}`,
		`{"msg":"Invalid login credentials"}`,
		`{"error":"invalid_grant","error_description":"Invalid login credentials"}`,
	}

	for _, body := range bodies {
		respBody := body
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(respBody))
		}))

		_, err := client.SignIn(context.Background(), "sam@example.com", "wrong")
		ae, ok := AsError(err)
		if !ok {
			t.Fatalf("body %s: expected typed error, got %v", respBody, err)
		}
		if ae.Status != http.StatusBadRequest {
			t.Fatalf("body %s: Status = %d", respBody, ae.Status)
		}
		if ae.Message != "Invalid login credentials" {
			t.Fatalf("body %s: Message = %q", respBody, ae.Message)
		}
		if !IsAuthFailure(err) {
			t.Fatalf("body %s: expected auth failure classification", respBody)
		}
	}
}

func TestRateLimitPassesThrough(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"over quota"}`))
	}))

	_, err := client.SignIn(context.Background(), "sam@example.com", "secret")
	if !IsRateLimited(err) {
		t.Fatalf("expected rate limit classification, got %v", err)
	}
}

func TestRefreshSessionUsesStoredToken(t *testing.T) {
	client, storage := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q", r.URL.Query().Get("grant_type"))
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["refresh_token"] != "refresh-old" {
			t.Errorf("refresh_token = %q", body["refresh_token"])
		}

		json.NewEncoder(w).Encode(Session{
			AccessToken:  "access-new",
			RefreshToken: "refresh-new",
			ExpiresAt:    1_700_003_600,
		})
	}))

	storage.Set(context.Background(), &Session{AccessToken: "access-old", RefreshToken: "refresh-old"})

	sess, err := client.RefreshSession(context.Background())
	if err != nil {
		t.Fatalf("RefreshSession: %v", err)
	}
	if sess.AccessToken != "access-new" {
		t.Fatalf("AccessToken = %q", sess.AccessToken)
	}

	stored, _ := storage.Get(context.Background())
	if stored.RefreshToken != "refresh-new" {
		t.Fatal("rotated refresh token was not persisted")
	}
}

func TestRefreshSessionWithoutToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a refresh token")
	}))

	_, err := client.RefreshSession(context.Background())
	if !IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestSignOutClearsLocallyOnRemoteFailure(t *testing.T) {
	client, storage := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	storage.Set(context.Background(), &Session{AccessToken: "access-1", RefreshToken: "refresh-1"})

	if err := client.SignOut(context.Background()); err == nil {
		t.Fatal("expected the remote error to surface")
	}

	stored, _ := storage.Get(context.Background())
	if stored != nil {
		t.Fatal("local session must clear even when the remote call fails")
	}
}

func TestCurrentSessionWhenSignedOut(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	sess, err := client.CurrentSession(context.Background())
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if sess != nil {
		t.Fatal("expected nil session when signed out")
	}
}

func TestOAuthURL(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	u, err := client.OAuthURL("google", "/dashboard")
	if err != nil {
		t.Fatalf("OAuthURL: %v", err)
	}

	for _, want := range []string{"/authorize", "provider=google", "redirect_to=%2Fdashboard"} {
		if !strings.Contains(u, want) {
			t.Fatalf("authorize URL %q missing %q", u, want)
		}
	}
}
