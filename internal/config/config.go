package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Admin    AdminConfig
	LogLevel slog.Level
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         string
	CookieSecure bool
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret  string
	BcryptCost int
	LoginRate  float64 // tokens per second
	LoginBurst float64
}

// AdminConfig describes the administrator seeded at startup. Seeding is
// skipped when Email is empty.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// Enabled reports whether an administrator should be seeded.
func (a AdminConfig) Enabled() bool { return a.Email != "" }

const minSecretLength = 32

// Load reads an optional .env file from the working directory and then
// builds the configuration from the environment. Variables already set in
// the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			// Default to secure cookies; disable only for local development.
			CookieSecure: getEnv("COOKIE_SECURE", "") != "false",
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "blogpost.db"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Email:    strings.TrimSpace(getEnv("ADMIN_EMAIL", "")),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.Auth.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLength)
	}

	var err error
	if cfg.Auth.BcryptCost, err = getEnvInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 14 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.Auth.BcryptCost)
	}

	if cfg.Auth.LoginRate, err = getEnvFloat("LOGIN_RATE", 0.2); err != nil {
		return nil, err
	}
	if cfg.Auth.LoginBurst, err = getEnvFloat("LOGIN_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.Auth.LoginRate < 0 || cfg.Auth.LoginBurst < 1 {
		return nil, fmt.Errorf("LOGIN_RATE must be >= 0 and LOGIN_BURST >= 1")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if (cfg.Admin.Email == "") != (cfg.Admin.Password == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s, CookieSecure: %t, BcryptCost: %d, LogLevel: %s, Admin: %q, Auth: *** (masked) ***}",
		c.Server.Port, c.Database.Path, c.Server.CookieSecure, c.Auth.BcryptCost, c.LogLevel, c.Admin.Email)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	return f, nil
}
