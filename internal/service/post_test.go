package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/policy"
	"github.com/msomdec/blogpost/internal/service"
)

func TestPostService_Create(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@example.com")

	post := env.createPost(t, alice, "  My First Blog Post ", "Hello world")

	if post.ID == 0 {
		t.Fatal("expected post ID to be set")
	}
	if post.UserID == nil || *post.UserID != alice.ID {
		t.Fatalf("expected owner %d, got %v", alice.ID, post.UserID)
	}
	if post.Title != "My First Blog Post" {
		t.Fatalf("expected trimmed title, got %q", post.Title)
	}
	if post.AuthorName() != "Alice" {
		t.Fatalf("expected author Alice, got %q", post.AuthorName())
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")

	tests := []struct {
		name   string
		in     service.PostInput
		fields []string
	}{
		{"empty both", service.PostInput{}, []string{"title", "body"}},
		{"blank title", service.PostInput{Title: "   ", Body: "b"}, []string{"title"}},
		{"long title", service.PostInput{Title: strings.Repeat("x", 256), Body: "b"}, []string{"title"}},
		{"empty body", service.PostInput{Title: "t"}, []string{"body"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.posts.Create(ctx, alice, tc.in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			for _, f := range tc.fields {
				if !verr.Has(f) {
					t.Errorf("expected %s error, got %v", f, verr.Fields)
				}
			}
		})
	}

	if n, _ := env.posts.CountByUser(ctx, alice.ID); n != 0 {
		t.Fatalf("no post should be stored, got %d", n)
	}

	if _, err := env.posts.Create(ctx, nil, service.PostInput{Title: "t", Body: "b"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("nil actor: expected ErrUnauthorized, got %v", err)
	}
}

func TestPostService_Create_TitleLimitCountsCharacters(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "alice@example.com")

	title := strings.Repeat("é", 255)
	post := env.createPost(t, alice, title, "body")
	if post.Title != title {
		t.Fatal("255 multibyte characters should be accepted")
	}
}

func TestPostService_ListForUser_Isolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	env.createPost(t, alice, "A1", "body")
	env.createPost(t, alice, "A2", "body")
	env.createPost(t, bob, "B1", "body")

	page, err := env.posts.ListForUser(ctx, alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if page.Total != 2 || len(page.Posts) != 2 {
		t.Fatalf("expected 2 posts, got total=%d len=%d", page.Total, len(page.Posts))
	}
	for _, p := range page.Posts {
		if !p.OwnedBy(alice.ID) {
			t.Fatalf("post %d does not belong to alice", p.ID)
		}
	}
	if page.Posts[0].Title != "A2" {
		t.Fatalf("expected newest first, got %q", page.Posts[0].Title)
	}
}

func TestPostService_ListPublic_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")

	for i := range 5 {
		env.createPost(t, alice, "Post "+string(rune('A'+i)), "body")
	}

	page, err := env.posts.ListPublic(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if page.Total != 5 || page.LastPage() != 3 {
		t.Fatalf("expected total 5 over 3 pages, got total=%d last=%d", page.Total, page.LastPage())
	}
	if len(page.Posts) != 2 || !page.HasPrev() || !page.HasNext() {
		t.Fatalf("unexpected page 2: len=%d prev=%v next=%v", len(page.Posts), page.HasPrev(), page.HasNext())
	}

	// Out-of-range values are normalised.
	page, err = env.posts.ListPublic(ctx, 0, 1000)
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if page.Page != 1 || page.PerPage != service.MaxPerPage {
		t.Fatalf("expected page 1 per %d, got page %d per %d", service.MaxPerPage, page.Page, page.PerPage)
	}
}

func TestPostService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	post := env.createPost(t, alice, "Original", "Original body")

	updated, err := env.posts.UpdateOwned(ctx, alice, post.ID, domain.PostPatch{Title: strPtr("Renamed")})
	if err != nil {
		t.Fatalf("UpdateOwned: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("expected Renamed, got %q", updated.Title)
	}
	if updated.Body != "Original body" {
		t.Fatalf("absent body should be kept, got %q", updated.Body)
	}

	// A present but empty field is rejected and nothing changes.
	_, err = env.posts.UpdateOwned(ctx, alice, post.ID, domain.PostPatch{Body: strPtr("")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || !verr.Has("body") {
		t.Fatalf("expected body error, got %v", err)
	}
	got, _ := env.posts.Get(ctx, post.ID)
	if got.Body != "Original body" {
		t.Fatalf("body changed after failed update: %q", got.Body)
	}

	// An empty patch is a no-op.
	same, err := env.posts.UpdateOwned(ctx, alice, post.ID, domain.PostPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if same.Title != "Renamed" {
		t.Fatalf("expected unchanged title, got %q", same.Title)
	}
}

func TestPostService_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	admin := env.registerAdmin(t)
	post := env.createPost(t, alice, "Alice's", "body")

	if _, err := env.posts.UpdateOwned(ctx, bob, post.ID, domain.PostPatch{Title: strPtr("Hacked!")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bob update: expected ErrForbidden, got %v", err)
	}
	if err := env.posts.DeleteOwned(ctx, bob, post.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("bob delete: expected ErrForbidden, got %v", err)
	}
	// Admins have no bypass through the owner path.
	if _, err := env.posts.UpdateOwned(ctx, admin, post.ID, domain.PostPatch{Title: strPtr("Admin edit")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin update: expected ErrForbidden, got %v", err)
	}

	got, _ := env.posts.Get(ctx, post.ID)
	if got.Title != "Alice's" {
		t.Fatalf("title changed by a non-owner: %q", got.Title)
	}

	// Anyone signed in may view.
	if _, err := env.posts.GetAuthorized(ctx, bob, post.ID, policy.ActionView); err != nil {
		t.Fatalf("bob view: %v", err)
	}
	if _, err := env.posts.GetAuthorized(ctx, bob, 9999, policy.ActionView); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing post: expected ErrNotFound, got %v", err)
	}
}

func TestPostService_DeleteOwned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "Alice", "alice@example.com")
	post := env.createPost(t, alice, "Temp", "body")

	if err := env.posts.DeleteOwned(ctx, alice, post.ID); err != nil {
		t.Fatalf("DeleteOwned: %v", err)
	}
	if _, err := env.posts.Get(ctx, post.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
