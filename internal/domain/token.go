package domain

import (
	"context"
	"time"
)

// APIToken records an issued API bearer token. The token is valid only
// while its row exists.
type APIToken struct {
	ID        string // JWT "jti"
	UserID    int64
	CreatedAt time.Time
}

// APITokenRepository persists issued API tokens.
type APITokenRepository interface {
	Create(ctx context.Context, token *APIToken) error
	GetByID(ctx context.Context, id string) (*APIToken, error)
	Delete(ctx context.Context, id string) error
}
