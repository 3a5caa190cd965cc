package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/blogpost/internal/domain"
)

func TestTokenRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := db.Tokens()

	user := createUser(t, db, "Tok", "tok@example.com")

	tok := &domain.APIToken{ID: "b6f1e2a0-0000-4000-8000-000000000001", UserID: user.ID}
	if err := repo.Create(ctx, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByID(ctx, tok.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.UserID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, found.UserID)
	}

	if err := repo.Delete(ctx, tok.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tok.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTokenRepository_RemovedWithUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "Tok", "tok@example.com")
	tok := &domain.APIToken{ID: "b6f1e2a0-0000-4000-8000-000000000002", UserID: user.ID}
	if err := db.Tokens().Create(ctx, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := db.Users().Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := db.Tokens().GetByID(ctx, tok.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected token to cascade with user, got %v", err)
	}
}
