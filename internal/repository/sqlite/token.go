package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/blogpost/internal/domain"
)

// tokenRepo implements domain.APITokenRepository using SQLite.
type tokenRepo struct {
	db *sql.DB
}

func (r *tokenRepo) Create(ctx context.Context, token *domain.APIToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_tokens (id, user_id, created_at) VALUES (?, ?, ?)`,
		token.ID, token.UserID, now,
	)
	if err != nil {
		return fmt.Errorf("insert api token: %w", err)
	}
	token.CreatedAt = now
	return nil
}

func (r *tokenRepo) GetByID(ctx context.Context, id string) (*domain.APIToken, error) {
	t := &domain.APIToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM api_tokens WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get api token: %w", err)
	}
	return t, nil
}

func (r *tokenRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete api token: %w", err)
	}
	return nil
}
