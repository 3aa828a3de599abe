package repository

import (
	"context"

	"login-api/internal/domain/user"
)

// UserRepository is the user registry. Implementations keep records in
// insertion order and treat Login as a unique, case-sensitive key.
type UserRepository interface {
	// FindByLogin returns the record whose login equals login, or ErrNotFound.
	FindByLogin(ctx context.Context, login string) (user.User, error)
	// FindByCredentials returns the record matching both fields, or ErrNotFound.
	FindByCredentials(ctx context.Context, login, senha string) (user.User, error)
	// Create inserts u unless a record with the same login exists, in which
	// case it returns ErrAlreadyExists. The check and the insert are atomic.
	Create(ctx context.Context, u *user.User) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]user.User, error)
}

// Flusher is implemented by registries that can drop every record.
type Flusher interface {
	Flush(ctx context.Context) error
}
