package services

import (
	"context"
	"errors"
	"net/http"

	"login-api/internal/domain/user"
	"login-api/internal/repository"
	login_errors "login-api/pkg/errors"
)

// UserService implements registration and login against a UserRepository.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new user. It fails with ErrDuplicateUser when the login
// is already taken, including when a concurrent registration wins the insert.
func (s *UserService) Register(ctx context.Context, login, senha string) (user.User, error) {
	_, err := s.userRepo.FindByLogin(ctx, login)
	if err == nil {
		return user.User{}, login_errors.ErrDuplicateUser
	}
	if !errors.Is(err, login_errors.ErrNotFound) {
		return user.User{}, err
	}

	newUser := &user.User{Login: login, Senha: senha}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, login_errors.ErrAlreadyExists) {
			return user.User{}, login_errors.ErrDuplicateUser
		}
		return user.User{}, err
	}
	return *newUser, nil
}

// Login returns the user whose login and senha both match exactly.
func (s *UserService) Login(ctx context.Context, login, senha string) (user.User, error) {
	u, err := s.userRepo.FindByCredentials(ctx, login, senha)
	if err != nil {
		if errors.Is(err, login_errors.ErrNotFound) {
			return user.User{}, login_errors.ErrInvalidCredentials
		}
		return user.User{}, err
	}
	return u, nil
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}

// HTTPStatus maps service errors to response status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, login_errors.ErrDuplicateUser), errors.Is(err, login_errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, login_errors.ErrInvalidCredentials),
		errors.Is(err, login_errors.ErrMissingToken),
		errors.Is(err, login_errors.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsDomainError reports whether err carries a message meant for clients.
func IsDomainError(err error) bool {
	return errors.Is(err, login_errors.ErrDuplicateUser) ||
		errors.Is(err, login_errors.ErrInvalidCredentials) ||
		errors.Is(err, login_errors.ErrMissingToken) ||
		errors.Is(err, login_errors.ErrInvalidToken) ||
		errors.Is(err, login_errors.ErrInvalidInput)
}
