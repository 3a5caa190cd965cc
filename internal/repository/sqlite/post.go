package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/blogpost/internal/domain"
)

const postSelect = `SELECT p.id, p.user_id, p.title, p.body, p.created_at, p.updated_at, u.name
	FROM posts p LEFT JOIN users u ON u.id = p.user_id`

const postOrder = ` ORDER BY p.created_at DESC, p.id DESC`

// postRepo implements domain.PostRepository using SQLite.
type postRepo struct {
	db *sql.DB
}

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (user_id, title, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		post.UserID, post.Title, post.Body, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get post id: %w", err)
	}

	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (r *postRepo) List(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 {
		return r.query(ctx, postSelect+postOrder)
	}
	return r.query(ctx, postSelect+postOrder+` LIMIT ? OFFSET ?`, limit, offset)
}

func (r *postRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 {
		return r.query(ctx, postSelect+` WHERE p.user_id = ?`+postOrder, userID)
	}
	return r.query(ctx, postSelect+` WHERE p.user_id = ?`+postOrder+` LIMIT ? OFFSET ?`, userID, limit, offset)
}

func (r *postRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (r *postRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts by user: %w", err)
	}
	return n, nil
}

func (r *postRepo) Update(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		post.Title, post.Body, now, post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return err
	}
	post.UpdatedAt = now
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectOneRow(result)
}

func (r *postRepo) query(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func scanPost(row rowScanner) (*domain.Post, error) {
	p := &domain.Post{}
	var userID sql.NullInt64
	var ownerName sql.NullString
	if err := row.Scan(&p.ID, &userID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt, &ownerName); err != nil {
		return nil, err
	}
	if userID.Valid {
		id := userID.Int64
		p.UserID = &id
	}
	p.OwnerName = ownerName.String
	return p, nil
}
