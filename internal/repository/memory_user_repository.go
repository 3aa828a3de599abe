package repository

import (
	"context"
	"sync"

	"login-api/internal/domain/user"
	login_errors "login-api/pkg/errors"
)

// MemoryUserRepository holds users in process memory for the life of the
// server. Lookups are linear scans over the insertion-ordered slice.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []user.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) FindByLogin(_ context.Context, login string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(login); i >= 0 {
		return r.users[i], nil
	}
	return user.User{}, login_errors.ErrNotFound
}

func (r *MemoryUserRepository) FindByCredentials(_ context.Context, login, senha string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Matches(login, senha) {
			return u, nil
		}
	}
	return user.User{}, login_errors.ErrNotFound
}

func (r *MemoryUserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(u.Login) >= 0 {
		return login_errors.ErrAlreadyExists
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

// indexOf must be called with mu held.
func (r *MemoryUserRepository) indexOf(login string) int {
	for i, u := range r.users {
		if u.Login == login {
			return i
		}
	}
	return -1
}

func (r *MemoryUserRepository) Flush(_ context.Context) error {
	r.mu.Lock()
	r.users = nil
	r.mu.Unlock()
	return nil
}
