package domain

import "context"

// Database defines lifecycle operations for the underlying store.
// The backend owns its schema and migrations.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
