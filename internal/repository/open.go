package repository

import (
	"context"
	"fmt"

	"login-api/config"
	"login-api/internal/redis"
	"login-api/pkg/database"
)

var (
	_ UserRepository = (*MemoryUserRepository)(nil)
	_ UserRepository = (*PostgresUserRepository)(nil)
	_ UserRepository = (*redis.UserStore)(nil)

	_ Flusher = (*MemoryUserRepository)(nil)
	_ Flusher = (*PostgresUserRepository)(nil)
	_ Flusher = (*redis.UserStore)(nil)
)

// Open returns the registry selected by cfg.StoreBackend and a func that
// releases the connections it holds.
func Open(ctx context.Context, cfg *config.Config) (UserRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMemory, "":
		return NewMemoryUserRepository(), func() {}, nil

	case config.StoreRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewUserStore(client, ""), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresUserRepository(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
