package policy_test

import (
	"errors"
	"testing"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/policy"
)

func ownerID(id int64) *int64 { return &id }

func TestAuthorizePost(t *testing.T) {
	owner := &domain.User{ID: 1, Role: domain.RoleUser}
	other := &domain.User{ID: 2, Role: domain.RoleUser}
	admin := &domain.User{ID: 3, Role: domain.RoleAdmin}

	post := &domain.Post{ID: 10, UserID: ownerID(1), Title: "t", Body: "b"}
	orphan := &domain.Post{ID: 11, Title: "t", Body: "b"}

	tests := []struct {
		name   string
		actor  *domain.User
		action policy.Action
		post   *domain.Post
		want   error
	}{
		{"owner view", owner, policy.ActionView, post, nil},
		{"owner update", owner, policy.ActionUpdate, post, nil},
		{"owner delete", owner, policy.ActionDelete, post, nil},
		{"other view", other, policy.ActionView, post, nil},
		{"other update", other, policy.ActionUpdate, post, domain.ErrForbidden},
		{"other delete", other, policy.ActionDelete, post, domain.ErrForbidden},
		{"admin view", admin, policy.ActionView, post, nil},
		{"admin update has no bypass", admin, policy.ActionUpdate, post, domain.ErrForbidden},
		{"admin delete has no bypass", admin, policy.ActionDelete, post, domain.ErrForbidden},
		{"orphan update", owner, policy.ActionUpdate, orphan, domain.ErrForbidden},
		{"orphan view", other, policy.ActionView, orphan, nil},
		{"anonymous view", nil, policy.ActionView, post, domain.ErrUnauthorized},
		{"anonymous update", nil, policy.ActionUpdate, post, domain.ErrUnauthorized},
		{"unknown action", owner, policy.Action(99), post, domain.ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.AuthorizePost(tc.actor, tc.action, tc.post)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCanPost(t *testing.T) {
	owner := &domain.User{ID: 1, Role: domain.RoleUser}
	post := &domain.Post{ID: 10, UserID: ownerID(1)}

	if !policy.CanPost(owner, policy.ActionUpdate, post) {
		t.Fatal("owner should be able to update")
	}
	if policy.CanPost(&domain.User{ID: 2}, policy.ActionUpdate, post) {
		t.Fatal("non-owner should not be able to update")
	}
}

func TestAuthorizeAdmin(t *testing.T) {
	if err := policy.AuthorizeAdmin(&domain.User{ID: 1, Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("admin: expected allow, got %v", err)
	}
	if err := policy.AuthorizeAdmin(&domain.User{ID: 2, Role: domain.RoleUser}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user: expected ErrForbidden, got %v", err)
	}
	if err := policy.AuthorizeAdmin(&domain.User{ID: 3, Role: domain.Role("Admin")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("mistyped role: expected ErrForbidden, got %v", err)
	}
	if err := policy.AuthorizeAdmin(nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("anonymous: expected ErrUnauthorized, got %v", err)
	}
}

func TestActionString(t *testing.T) {
	if policy.ActionDelete.String() != "delete" {
		t.Fatalf("expected delete, got %s", policy.ActionDelete)
	}
}
