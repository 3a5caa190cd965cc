package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/blogpost/internal/domain"
)

// ProfileInput is the editable part of an account.
type ProfileInput struct {
	Name  string
	Email string
}

// PasswordInput is the change-password form.
type PasswordInput struct {
	Current      string
	New          string
	Confirmation string
}

// ProfileService lets any actor, admin or not, edit their own account.
type ProfileService struct {
	users  domain.UserRepository
	hasher PasswordHasher
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users domain.UserRepository, hasher PasswordHasher) *ProfileService {
	return &ProfileService{users: users, hasher: hasher}
}

// UpdateProfile replaces the actor's name and email. The email must be
// unused by every other account; keeping one's own email is fine.
func (s *ProfileService) UpdateProfile(ctx context.Context, actor *domain.User, in ProfileInput) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	verr := domain.NewValidationError()
	checkString(verr, "name", name, maxStringLength)
	checkEmail(verr, email)

	if !verr.Has("email") {
		other, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != actor.ID:
			verr.WithCause(domain.ErrDuplicateEmail).Add("email", emailTakenMessage)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("check email: %w", err)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updated := *actor
	updated.Name = name
	updated.Email = email
	if err := s.users.UpdateProfile(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			verr.WithCause(domain.ErrDuplicateEmail).Add("email", emailTakenMessage)
			return nil, verr
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &updated, nil
}

// UpdatePassword verifies the current password and stores a hash of the
// new one. A wrong current password is a validation error on
// current_password that also matches domain.ErrIncorrectPassword.
func (s *ProfileService) UpdatePassword(ctx context.Context, actor *domain.User, in PasswordInput) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}

	verr := domain.NewValidationError()
	switch {
	case in.Current == "":
		verr.Add("current_password", requiredMessage("current password"))
	case !s.hasher.Verify(in.Current, actor.PasswordHash):
		verr.WithCause(domain.ErrIncorrectPassword).Add("current_password", "The current password is incorrect.")
	}
	checkNewPassword(verr, in.New, in.Confirmation)
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(in.New)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, actor.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	actor.PasswordHash = hash
	return nil
}
