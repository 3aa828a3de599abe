package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"login-api/internal/domain/user"
	"login-api/pkg/database"
	login_errors "login-api/pkg/errors"
)

// Runs only when TEST_DATABASE_URL points at a disposable database.
func TestPostgresUserRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	if err := database.Migrate(ctx, dsn); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if v, err := database.MigrationVersion(ctx, dsn); err != nil || v < 1 {
		t.Fatalf("MigrationVersion = %d, %v", v, err)
	}
	// A second run finds nothing pending.
	if err := database.Migrate(ctx, dsn); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pool.Close()

	repo := NewPostgresUserRepository(pool)
	if _, err := pool.Exec(ctx, `TRUNCATE users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	if err := repo.Create(ctx, &user.User{Login: "alice", Senha: "s1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &user.User{Login: "alice", Senha: "s2"}); !errors.Is(err, login_errors.ErrAlreadyExists) {
		t.Fatalf("duplicate Create = %v", err)
	}
	if _, err := repo.FindByCredentials(ctx, "alice", "s1"); err != nil {
		t.Fatalf("FindByCredentials: %v", err)
	}
	if _, err := repo.FindByLogin(ctx, "bob"); !errors.Is(err, login_errors.ErrNotFound) {
		t.Fatalf("FindByLogin(bob) = %v", err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("Count = %d", n)
	}
}
