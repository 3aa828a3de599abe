package main

import (
	"context"
	"path/filepath"
	"testing"

	"login-api/config"
	"login-api/internal/repository"
)

// readOnlyRepo hides the Flush method of the wrapped registry.
type readOnlyRepo struct {
	repository.UserRepository
}

func stubStore(t *testing.T, repo repository.UserRepository) (opened, closed *bool) {
	t.Helper()
	t.Setenv("STORE_BACKEND", config.StoreMemory)
	opened, closed = new(bool), new(bool)

	prev := openStore
	openStore = func(context.Context, *config.Config) (repository.UserRepository, func(), error) {
		*opened = true
		return repo, func() { *closed = true }, nil
	}
	t.Cleanup(func() { openStore = prev })
	return opened, closed
}

func TestRunClosesStoreOnError(t *testing.T) {
	tests := []struct {
		name     string
		repo     repository.UserRepository
		command  string
		seedFile string
	}{
		{"missing seed file", repository.NewMemoryUserRepository(), "seed", filepath.Join(t.TempDir(), "missing.json")},
		{"reset unsupported", readOnlyRepo{repository.NewMemoryUserRepository()}, "reset", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened, closed := stubStore(t, tt.repo)
			if err := run(tt.command, tt.seedFile, true); err == nil {
				t.Fatal("expected an error")
			}
			if !*opened || !*closed {
				t.Fatalf("opened=%v closed=%v", *opened, *closed)
			}
		})
	}
}

func TestRunSeedAndReset(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	_, closed := stubStore(t, repo)

	if err := run("seed", "", false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 3 {
		t.Fatalf("count after seed = %d", n)
	}
	if !*closed {
		t.Fatal("store left open after seed")
	}

	if err := run("reset", "", true); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Fatalf("count after reset = %d", n)
	}
}

func TestRunWithoutStore(t *testing.T) {
	opened, _ := stubStore(t, repository.NewMemoryUserRepository())

	if err := run("up", "", false); err != nil {
		t.Fatalf("up on memory: %v", err)
	}
	if err := run("bogus", "", false); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if *opened {
		t.Fatal("store opened for a command that does not need it")
	}
}
