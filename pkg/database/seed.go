package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"login-api/internal/domain/user"
	login_errors "login-api/pkg/errors"
)

// UserCreator is the subset of the user registry the seeder needs.
type UserCreator interface {
	Create(ctx context.Context, u *user.User) error
}

// SeedUser is one entry of a seed file.
type SeedUser struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Created []string
	Skipped []string
}

// LoadSeedFile reads a JSON array of {login, senha} objects.
func LoadSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var users []SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return users, nil
}

// DefaultSeedUsers returns the accounts used by the load-test fixtures.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Login: "admin", Senha: "admin123"},
		{Login: "joao", Senha: "senha123"},
		{Login: "maria", Senha: "senha123"},
	}
}

// Seed inserts every user, skipping logins that already exist.
func Seed(ctx context.Context, repo UserCreator, users []SeedUser) (*SeedResult, error) {
	result := &SeedResult{}

	log.Println("Starting user seeding...")
	for _, su := range users {
		u := &user.User{Login: su.Login, Senha: su.Senha}
		if err := repo.Create(ctx, u); err != nil {
			if errors.Is(err, login_errors.ErrAlreadyExists) {
				result.Skipped = append(result.Skipped, su.Login)
				continue
			}
			return result, fmt.Errorf("failed to seed user %s: %w", su.Login, err)
		}
		result.Created = append(result.Created, su.Login)
	}
	log.Printf("Seeding finished: %d created, %d skipped", len(result.Created), len(result.Skipped))

	return result, nil
}
