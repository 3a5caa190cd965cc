package domain

import (
	"context"
	"time"
)

// UnknownAuthor is shown in place of the owner name of an orphaned post.
const UnknownAuthor = "Unknown"

// Post is a blog post. UserID is nil once the owner has been deleted.
type Post struct {
	ID        int64
	UserID    *int64
	Title     string
	Body      string
	OwnerName string // joined from users; empty for orphaned posts
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether userID is the post's current owner.
func (p *Post) OwnedBy(userID int64) bool {
	return p.UserID != nil && *p.UserID == userID
}

// AuthorName returns the owner's display name, or UnknownAuthor.
func (p *Post) AuthorName() string {
	if p.UserID == nil || p.OwnerName == "" {
		return UnknownAuthor
	}
	return p.OwnerName
}

// PostPatch lists the user-writable fields of a post. A nil field keeps
// the current value.
type PostPatch struct {
	Title *string
	Body  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil
}

// PostPage is one page of posts plus the totals needed for navigation.
type PostPage struct {
	Posts   []Post
	Page    int
	PerPage int
	Total   int
}

// LastPage returns the number of the final page, at least 1.
func (p *PostPage) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p *PostPage) HasPrev() bool { return p.Page > 1 }
func (p *PostPage) HasNext() bool { return p.Page < p.LastPage() }

// PostRepository defines persistence operations for posts. Reads join the
// owner's name.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id int64) (*Post, error)
	// List returns posts newest first. A limit <= 0 returns every post.
	List(ctx context.Context, limit, offset int) ([]Post, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Post, error)
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
}
