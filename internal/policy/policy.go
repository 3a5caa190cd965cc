// Package policy decides whether an actor may perform an action. Every
// function is pure: the caller loads the actor and target and the policy
// only compares them.
package policy

import (
	"fmt"

	"github.com/msomdec/blogpost/internal/domain"
)

// Action is an operation on a post.
type Action int

const (
	ActionView Action = iota
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// AuthorizePost returns nil when actor may perform action on post,
// domain.ErrUnauthorized for a nil actor and domain.ErrForbidden otherwise.
//
// Any authenticated actor may view. Update and delete require ownership;
// administrators get no bypass here.
func AuthorizePost(actor *domain.User, action Action, post *domain.Post) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if post == nil {
		return domain.ErrForbidden
	}

	switch action {
	case ActionView:
		return nil
	case ActionUpdate, ActionDelete:
		if post.OwnedBy(actor.ID) {
			return nil
		}
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

// CanPost is AuthorizePost as a boolean, for views.
func CanPost(actor *domain.User, action Action, post *domain.Post) bool {
	return AuthorizePost(actor, action, post) == nil
}

// AuthorizeAdmin gates the admin area on role alone.
func AuthorizeAdmin(actor *domain.User) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
