package migrations_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/msomdec/blogpost/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		"Test User", "test@example.com", "hash123",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}
	userID, _ := res.LastInsertId()

	var role string
	if err := db.QueryRowContext(ctx, "SELECT role FROM users WHERE id = ?", userID).Scan(&role); err != nil {
		t.Fatalf("read role: %v", err)
	}
	if role != "user" {
		t.Fatalf("expected default role user, got %q", role)
	}

	if _, err := db.ExecContext(ctx,
		"INSERT INTO posts (user_id, title, body) VALUES (?, ?, ?)", userID, "t", "b",
	); err != nil {
		t.Fatalf("insert into posts: %v", err)
	}
}

func TestRunMigrationsRejectsUnknownRole(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)",
		"Root", "root@example.com", "hash", "superuser",
	)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject unknown role")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 migration records, got %d", count)
	}
}

func TestRunFSAppliesInFilenameOrder(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("INSERT INTO things (name) VALUES ('second');")},
		"001_first.sql":  {Data: []byte("CREATE TABLE things (name TEXT NOT NULL);")},
		"README.md":      {Data: []byte("not a migration")},
	}

	if err := migrations.RunFS(ctx, db, fsys); err != nil {
		t.Fatalf("RunFS: %v", err)
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM things").Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "second" {
		t.Fatalf("expected second, got %q", name)
	}
}

func TestRunFSRollsBackFailedMigration(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE nope (;")},
	}

	if err := migrations.RunFS(ctx, db, fsys); err == nil {
		t.Fatal("expected error for invalid SQL")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed migration should not be recorded, got %d", count)
	}
}
