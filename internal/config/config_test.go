package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/clinic")
	setEnv(t, "ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.OpeningHour != 9 || cfg.ClosingHour != 21 {
		t.Errorf("expected clinic hours 9-21, got %d-%d", cfg.OpeningHour, cfg.ClosingHour)
	}
	if cfg.TokenTTLHours != 24 {
		t.Errorf("expected token TTL 24h, got %d", cfg.TokenTTLHours)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestLoadDevSecretFallback(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/clinic")
	setEnv(t, "ENV", "development")
	setEnv(t, "JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected dev secret fallback to be applied")
	}
}

func TestValidateProductionNeedsSecret(t *testing.T) {
	cfg := &Config{Env: "production", JWTSecret: "", TokenTTLHours: 24, OpeningHour: 9, ClosingHour: 21}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing production JWT secret")
	}
	cfg.JWTSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateClinicHours(t *testing.T) {
	cases := []struct {
		open, close int
		wantErr     bool
	}{
		{9, 21, false},
		{0, 24, false},
		{21, 9, true},
		{9, 9, true},
		{-1, 21, true},
		{9, 25, true},
	}
	for _, tc := range cases {
		cfg := &Config{Env: "development", JWTSecret: "x", TokenTTLHours: 1, OpeningHour: tc.open, ClosingHour: tc.close}
		err := cfg.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("hours [%d,%d): expected error", tc.open, tc.close)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("hours [%d,%d): unexpected error: %v", tc.open, tc.close, err)
		}
	}
}

func TestValidateTokenTTL(t *testing.T) {
	cfg := &Config{Env: "development", JWTSecret: "x", TokenTTLHours: 0, OpeningHour: 9, ClosingHour: 21}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero token TTL")
	}
}
