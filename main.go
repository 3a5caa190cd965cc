package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/blogpost/internal/config"
	"github.com/msomdec/blogpost/internal/handler"
	"github.com/msomdec/blogpost/internal/repository/sqlite"
	"github.com/msomdec/blogpost/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)
	slog.Debug("configuration loaded", "config", cfg.String())

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(db.Users(), db.Tokens(), hasher, cfg.Auth.JWTSecret)
	postService := service.NewPostService(db.Posts())
	profileService := service.NewProfileService(db.Users(), hasher)
	adminService := service.NewAdminService(db.Users(), db.Posts())
	loginLimiter := service.NewTokenBucket(cfg.Auth.LoginRate, cfg.Auth.LoginBurst)

	// Seed the initial administrator (idempotent).
	if cfg.Admin.Enabled() {
		if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			slog.Error("failed to seed admin account", "error", err)
			os.Exit(1)
		}
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, postService, profileService, adminService, loginLimiter, db.SqlDB, cfg.Server.CookieSecure)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.NewRouter(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
