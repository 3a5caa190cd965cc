package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/service"
)

func TestProfileService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")

	// Keeping one's own email is allowed.
	updated, err := env.profiles.UpdateProfile(ctx, alice, service.ProfileInput{Name: "Alice B.", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Alice B." {
		t.Fatalf("expected new name, got %q", updated.Name)
	}

	stored, err := env.db.Users().GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Name != "Alice B." {
		t.Fatalf("name not persisted, got %q", stored.Name)
	}
}

func TestProfileService_UpdateProfile_EmailTaken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	env.register(t, "Bob", "bob@example.com")

	_, err := env.profiles.UpdateProfile(ctx, alice, service.ProfileInput{Name: "Alice", Email: "bob@example.com"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["email"] != "The email has already been taken." {
		t.Fatalf("unexpected email message: %v", err)
	}
}

func TestProfileService_UpdateProfile_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@example.com")

	_, err := env.profiles.UpdateProfile(context.Background(), alice, service.ProfileInput{Name: "", Email: "nope"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || !verr.Has("name") || !verr.Has("email") {
		t.Fatalf("expected name and email errors, got %v", err)
	}
}

func TestProfileService_UpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")

	err := env.profiles.UpdatePassword(ctx, alice, service.PasswordInput{
		Current: "password123", New: "newpassword456", Confirmation: "newpassword456",
	})
	if err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	if _, _, err := env.auth.Login(ctx, "alice@example.com", "password123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, _, err := env.auth.Login(ctx, "alice@example.com", "newpassword456"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestProfileService_UpdatePassword_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")

	tests := []struct {
		name    string
		in      service.PasswordInput
		field   string
		message string
	}{
		{"missing current", service.PasswordInput{New: "newpassword456", Confirmation: "newpassword456"}, "current_password", "The current password field is required."},
		{"wrong current", service.PasswordInput{Current: "bad-password", New: "newpassword456", Confirmation: "newpassword456"}, "current_password", "The current password is incorrect."},
		{"mismatch", service.PasswordInput{Current: "password123", New: "newpassword456", Confirmation: "other"}, "password", ""},
		{"too short", service.PasswordInput{Current: "password123", New: "short", Confirmation: "short"}, "password", ""},
		{"too long", service.PasswordInput{Current: "password123", New: strings.Repeat("a", 73), Confirmation: strings.Repeat("a", 73)}, "password", "The password field must not be greater than 72 bytes."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := env.profiles.UpdatePassword(ctx, alice, tc.in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || !verr.Has(tc.field) {
				t.Fatalf("expected %s error, got %v", tc.field, err)
			}
			if tc.message != "" && verr.Fields[tc.field] != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, verr.Fields[tc.field])
			}
		})
	}

	err := env.profiles.UpdatePassword(ctx, alice, service.PasswordInput{Current: "bad-password", New: "newpassword456", Confirmation: "newpassword456"})
	if !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}

	// Nothing changed.
	if _, _, err := env.auth.Login(ctx, "alice@example.com", "password123"); err != nil {
		t.Fatalf("original password should still work: %v", err)
	}
}
