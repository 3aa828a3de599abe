package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"login-api/config"
	"login-api/internal/repository"
	"login-api/pkg/database"
)

const usage = `
Login API - User Store CLI Tool

Usage:
  migrate [flags] [command]

Commands:
  up          Apply pending migrations (postgres); no-op for other backends
  status      Show the backend, the number of users and, on postgres, the migrations
  seed        Register the seed users, skipping existing logins
  list        Print every registered login in registration order
  reset       Delete every registered user (DANGEROUS)

Flags:
  -seed-file string   JSON array of {"login","senha"} objects (default: built-in users)
  -yes                Skip the confirmation prompt of reset

The backend is chosen by STORE_BACKEND (memory, redis, postgres).

Examples:
  STORE_BACKEND=postgres go run cmd/migrate/main.go up
  STORE_BACKEND=redis go run cmd/migrate/main.go -seed-file users.json seed
`

var openStore = repository.Open

func main() {
	seedFile := flag.String("seed-file", "", "JSON seed file")
	yes := flag.Bool("yes", false, "Skip confirmation for reset")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *seedFile, *yes); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

// run executes one command. The store is always closed before it returns.
func run(command, seedFile string, yes bool) error {
	cfg := config.LoadConfig()
	if cfg.StoreBackend == config.StoreMemory {
		log.Println("STORE_BACKEND is memory: changes are lost when this command exits")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "up":
		return runUp(ctx, cfg)
	case "status", "seed", "list", "reset":
	default:
		flag.Usage()
		return fmt.Errorf("unknown command: %s", command)
	}

	repo, closeRepo, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open user store: %w", err)
	}
	defer closeRepo()

	switch command {
	case "status":
		return showStatus(ctx, cfg, repo)
	case "seed":
		return runSeed(ctx, repo, seedFile)
	case "list":
		return runList(ctx, repo)
	default:
		return runReset(ctx, repo, yes)
	}
}

func runUp(ctx context.Context, cfg *config.Config) error {
	if cfg.StoreBackend != config.StorePostgres {
		fmt.Printf("✅ %s store needs no migrations\n", cfg.StoreBackend)
		return nil
	}
	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return err
	}
	fmt.Println("✅ Migrations applied")
	return nil
}

func showStatus(ctx context.Context, cfg *config.Config, repo repository.UserRepository) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	fmt.Println("📊 User Store Status")
	fmt.Println("===================")
	fmt.Printf("Backend:          %s\n", cfg.StoreBackend)
	fmt.Printf("Registered users: %d\n", n)

	if cfg.StoreBackend == config.StorePostgres {
		fmt.Println()
		return database.MigrationStatus(ctx, cfg.DatabaseURL)
	}
	return nil
}

func runSeed(ctx context.Context, repo repository.UserRepository, path string) error {
	users := database.DefaultSeedUsers()
	if path != "" {
		loaded, err := database.LoadSeedFile(path)
		if err != nil {
			return err
		}
		users = loaded
	}

	result, err := database.Seed(ctx, repo, users)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Printf("✅ Created: %v\n", result.Created)
	if len(result.Skipped) > 0 {
		fmt.Printf("⏭️  Skipped (already registered): %v\n", result.Skipped)
	}
	return nil
}

func runList(ctx context.Context, repo repository.UserRepository) error {
	users, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		fmt.Println(u.Login)
	}
	return nil
}

func runReset(ctx context.Context, repo repository.UserRepository, skipConfirm bool) error {
	flusher, ok := repo.(repository.Flusher)
	if !ok {
		return errors.New("this backend cannot be reset")
	}
	if !skipConfirm {
		fmt.Print("⚠️  This deletes every registered user. Type 'yes' to continue: ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}
	if err := flusher.Flush(ctx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Println("✅ All users deleted")
	return nil
}
