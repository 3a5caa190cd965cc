package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/repository/sqlite"
	"github.com/msomdec/blogpost/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

type testEnv struct {
	db       *sqlite.DB
	hasher   *service.BcryptHasher
	auth     *service.AuthService
	posts    *service.PostService
	profiles *service.ProfileService
	admin    *service.AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Use cost 4 for fast tests.
	hasher := service.NewBcryptHasher(4)
	return &testEnv{
		db:       db,
		hasher:   hasher,
		auth:     service.NewAuthService(db.Users(), db.Tokens(), hasher, testJWTSecret),
		posts:    service.NewPostService(db.Posts()),
		profiles: service.NewProfileService(db.Users(), hasher),
		admin:    service.NewAdminService(db.Users(), db.Posts()),
	}
}

func (e *testEnv) register(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), service.RegisterInput{
		Name:                 name,
		Email:                email,
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return u
}

func (e *testEnv) registerAdmin(t *testing.T) *domain.User {
	t.Helper()
	ctx := context.Background()
	if err := e.auth.EnsureAdmin(ctx, "Admin", "admin@example.com", "adminpass123"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	admin, err := e.db.Users().GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	return admin
}

func (e *testEnv) createPost(t *testing.T, owner *domain.User, title, body string) *domain.Post {
	t.Helper()
	p, err := e.posts.Create(context.Background(), owner, service.PostInput{Title: title, Body: body})
	if err != nil {
		t.Fatalf("Create post %q: %v", title, err)
	}
	return p
}

func strPtr(s string) *string { return &s }
