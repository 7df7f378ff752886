package config

import "testing"

func TestLoadProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_URL", "")
	t.Setenv("AUTH_ANON_KEY", "")
	t.Setenv("AUTH_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected startup failure without auth secrets in production")
	}

	t.Setenv("AUTH_URL", "https://project.example.co/auth/v1")
	if _, err := Load(); err == nil {
		t.Fatal("expected startup failure without anon key in production")
	}

	t.Setenv("AUTH_ANON_KEY", "anon-key")
	if _, err := Load(); err == nil {
		t.Fatal("expected startup failure without JWT secret in production")
	}

	t.Setenv("AUTH_JWT_SECRET", "jwt-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthURL != "https://project.example.co/auth/v1" {
		t.Fatalf("AuthURL = %q", cfg.AuthURL)
	}
}

func TestLoadDevelopmentFallsBackInsecurely(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_URL", "")
	t.Setenv("AUTH_ANON_KEY", "")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthURL == "" || cfg.AuthAnonKey == "" || cfg.AuthJWTSecret == "" {
		t.Fatal("expected dev defaults to fill missing auth settings")
	}
	if cfg.IsProduction() {
		t.Fatal("APP_ENV=development must not report production")
	}
}

func TestRefreshThresholdParsing(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	t.Setenv("SESSION_REFRESH_THRESHOLD", "2m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshThreshold.Seconds() != 120 {
		t.Fatalf("RefreshThreshold = %v, want 2m", cfg.RefreshThreshold)
	}

	// Bare integers are seconds
	t.Setenv("SESSION_REFRESH_THRESHOLD", "90")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshThreshold.Seconds() != 90 {
		t.Fatalf("RefreshThreshold = %v, want 90s", cfg.RefreshThreshold)
	}
}
