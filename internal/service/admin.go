package service

import (
	"context"
	"fmt"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/policy"
)

// Stats holds the admin dashboard counters.
type Stats struct {
	TotalUsers int
	TotalPosts int
}

// AdminService exposes user and post management to administrators. Every
// method re-checks the actor's role.
type AdminService struct {
	users domain.UserRepository
	posts domain.PostRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(users domain.UserRepository, posts domain.PostRepository) *AdminService {
	return &AdminService{users: users, posts: posts}
}

// Stats counts users and posts.
func (s *AdminService) Stats(ctx context.Context, actor *domain.User) (Stats, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return Stats{}, err
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalUsers: users, TotalPosts: posts}, nil
}

// ListUsers returns every user.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// DeleteUser removes a user. Their posts stay, with the owner cleared.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.User, id int64) error {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// ListPosts returns every post with its owner name, newest first.
func (s *AdminService) ListPosts(ctx context.Context, actor *domain.User) ([]domain.Post, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}
	return s.posts.List(ctx, 0, 0)
}

// DeletePost removes any post regardless of owner.
func (s *AdminService) DeletePost(ctx context.Context, actor *domain.User, id int64) error {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}
