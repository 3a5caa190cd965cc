package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/blogpost/internal/domain"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "user"} {
		r, err := domain.ParseRole(s)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", s, err)
		}
		if string(r) != s {
			t.Fatalf("expected %q, got %q", s, r)
		}
	}

	for _, s := range []string{"", "Admin", "root", "admin "} {
		if _, err := domain.ParseRole(s); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("ParseRole(%q): expected ErrInvalidInput, got %v", s, err)
		}
	}
}

func TestRoleIsAdmin(t *testing.T) {
	if !domain.RoleAdmin.IsAdmin() {
		t.Fatal("admin role should be admin")
	}
	if domain.RoleUser.IsAdmin() {
		t.Fatal("user role should not be admin")
	}
	if domain.Role("ADMIN").IsAdmin() {
		t.Fatal("unknown role should not be admin")
	}

	var nilUser *domain.User
	if nilUser.IsAdmin() {
		t.Fatal("nil user should not be admin")
	}
}

func TestPostAuthorName(t *testing.T) {
	id := int64(4)
	p := domain.Post{UserID: &id, OwnerName: "John Doe"}
	if p.AuthorName() != "John Doe" {
		t.Fatalf("expected John Doe, got %q", p.AuthorName())
	}

	orphan := domain.Post{OwnerName: "stale"}
	if orphan.AuthorName() != domain.UnknownAuthor {
		t.Fatalf("expected %q, got %q", domain.UnknownAuthor, orphan.AuthorName())
	}
}

func TestPostPageNavigation(t *testing.T) {
	page := &domain.PostPage{Page: 2, PerPage: 10, Total: 25}
	if page.LastPage() != 3 {
		t.Fatalf("expected last page 3, got %d", page.LastPage())
	}
	if !page.HasPrev() || !page.HasNext() {
		t.Fatal("middle page should have prev and next")
	}

	empty := &domain.PostPage{Page: 1, PerPage: 10}
	if empty.LastPage() != 1 || empty.HasNext() {
		t.Fatal("empty page should be the only page")
	}
}

func TestValidationError(t *testing.T) {
	verr := domain.NewValidationError()
	if verr.OrNil() != nil {
		t.Fatal("empty validation error should be nil")
	}

	verr.Add("title", "The title field is required.")
	verr.Add("title", "ignored")
	verr.Add("body", "The body field is required.")

	err := verr.OrNil()
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatal("should not match ErrIncorrectPassword without a cause")
	}

	var got *domain.ValidationError
	if !errors.As(err, &got) {
		t.Fatal("expected errors.As to find ValidationError")
	}
	if got.Fields["title"] != "The title field is required." {
		t.Fatalf("first message should win, got %q", got.Fields["title"])
	}
	if !strings.Contains(err.Error(), "The body field is required.") {
		t.Fatalf("error text should include messages, got %q", err.Error())
	}

	withCause := domain.NewValidationError().WithCause(domain.ErrIncorrectPassword)
	withCause.Add("current_password", "The current password is incorrect.")
	if !errors.Is(withCause, domain.ErrIncorrectPassword) || !errors.Is(withCause, domain.ErrInvalidInput) {
		t.Fatal("expected both ErrInvalidInput and ErrIncorrectPassword to match")
	}
}
