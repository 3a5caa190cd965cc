package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/policy"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// PostInput is the data needed to create a post.
type PostInput struct {
	Title string
	Body  string
}

// PostService handles post lifecycle and validation.
type PostService struct {
	posts domain.PostRepository
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// ListForUser returns one page of the user's own posts, newest first.
func (s *PostService) ListForUser(ctx context.Context, userID int64, page, perPage int) (*domain.PostPage, error) {
	page, perPage = normalizePage(page, perPage)

	total, err := s.posts.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return &domain.PostPage{Posts: posts, Page: page, PerPage: perPage, Total: total}, nil
}

// ListPublic returns one page of every post, orphaned ones included.
func (s *PostService) ListPublic(ctx context.Context, page, perPage int) (*domain.PostPage, error) {
	page, perPage = normalizePage(page, perPage)

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return &domain.PostPage{Posts: posts, Page: page, PerPage: perPage, Total: total}, nil
}

// Get returns a post by ID or domain.ErrNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// CountByUser returns how many posts the user owns.
func (s *PostService) CountByUser(ctx context.Context, userID int64) (int, error) {
	return s.posts.CountByUser(ctx, userID)
}

// Create validates the input and stores a post owned by actor.
func (s *PostService) Create(ctx context.Context, actor *domain.User, in PostInput) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)

	verr := domain.NewValidationError()
	checkString(verr, "title", title, maxStringLength)
	checkString(verr, "body", body, 0)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	post := &domain.Post{
		UserID: &actor.ID,
		Title:  title,
		Body:   body,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.OwnerName = actor.Name
	return post, nil
}

// Update applies patch to post. Absent fields keep their value; present
// fields are validated, so an empty string is rejected. An empty patch
// writes nothing.
func (s *PostService) Update(ctx context.Context, post *domain.Post, patch domain.PostPatch) (*domain.Post, error) {
	if patch.IsEmpty() {
		return post, nil
	}

	verr := domain.NewValidationError()
	title, body := post.Title, post.Body
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
		checkString(verr, "title", title, maxStringLength)
	}
	if patch.Body != nil {
		body = strings.TrimSpace(*patch.Body)
		checkString(verr, "body", body, 0)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updated := *post
	updated.Title = title
	updated.Body = body
	if err := s.posts.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	return s.posts.GetByID(ctx, post.ID)
}

// Delete removes the post permanently.
func (s *PostService) Delete(ctx context.Context, post *domain.Post) error {
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// GetAuthorized loads a post and checks that actor may perform action on
// it. A missing post is domain.ErrNotFound; a denied one domain.ErrForbidden.
func (s *PostService) GetAuthorized(ctx context.Context, actor *domain.User, id int64, action policy.Action) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizePost(actor, action, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateOwned updates a post on behalf of actor after the ownership check.
func (s *PostService) UpdateOwned(ctx context.Context, actor *domain.User, id int64, patch domain.PostPatch) (*domain.Post, error) {
	post, err := s.GetAuthorized(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, post, patch)
}

// DeleteOwned deletes a post on behalf of actor after the ownership check.
func (s *PostService) DeleteOwned(ctx context.Context, actor *domain.User, id int64) error {
	post, err := s.GetAuthorized(ctx, actor, id, policy.ActionDelete)
	if err != nil {
		return err
	}
	return s.Delete(ctx, post)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
