package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var configKeys = []string{
	"PORT", "DATABASE_PATH", "JWT_SECRET", "COOKIE_SECURE", "BCRYPT_COST", "LOG_LEVEL",
	"ADMIN_NAME", "ADMIN_EMAIL", "ADMIN_PASSWORD", "LOGIN_RATE", "LOGIN_BURST",
}

// clearEnv blanks every key for the duration of the test; empty values
// fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Database.Path != "blogpost.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Server.CookieSecure {
		t.Fatal("cookies should be secure by default")
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.LoginRate != 0.2 || cfg.Auth.LoginBurst != 10 {
		t.Fatalf("unexpected login limits: %v/%v", cfg.Auth.LoginRate, cfg.Auth.LoginBurst)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.Admin.Enabled() {
		t.Fatal("admin seeding should be off by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/x.db")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "adminpass123")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Path != "/tmp/x.db" || cfg.Server.CookieSecure {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Auth.BcryptCost != 4 || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.Admin.Enabled() || cfg.Admin.Name != "Administrator" {
		t.Fatalf("unexpected admin config: %+v", cfg.Admin)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bcrypt not a number", map[string]string{"BCRYPT_COST": "high"}},
		{"bcrypt too low", map[string]string{"BCRYPT_COST": "3"}},
		{"bcrypt too high", map[string]string{"BCRYPT_COST": "15"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad rate", map[string]string{"LOGIN_RATE": "fast"}},
		{"zero burst", map[string]string{"LOGIN_BURST": "0"}},
		{"admin email without password", map[string]string{"ADMIN_EMAIL": "admin@example.com"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", testSecret)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")
	os.Unsetenv("JWT_SECRET")

	dir := t.TempDir()
	contents := "JWT_SECRET=" + testSecret + "\nPORT=7070\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected port from .env, got %q", cfg.Server.Port)
	}
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Chdir(t.TempDir())

	if _, err := Load(); err != nil {
		t.Fatalf("Load without .env: %v", err)
	}
}

func TestConfig_StringMasksSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if strings.Contains(cfg.String(), testSecret) {
		t.Fatal("String must not expose the JWT secret")
	}
}
