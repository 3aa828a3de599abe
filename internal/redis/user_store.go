package redis

import (
	"context"
	"fmt"

	"login-api/internal/domain/user"
	login_errors "login-api/pkg/errors"

	goredis "github.com/redis/go-redis/v9"
)

// Key patterns:
// - {prefix}:users        hash login -> senha
// - {prefix}:users:order  list of logins in registration order

const defaultKeyPrefix = "login-api"

// createUserScript inserts the user only when the login is absent and keeps
// the order list in step with the hash.
var createUserScript = goredis.NewScript(`
	local created = redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2])
	if created == 1 then
		redis.call('RPUSH', KEYS[2], ARGV[1])
	end
	return created
`)

// UserStore keeps the user registry in Redis.
type UserStore struct {
	client   *goredis.Client
	usersKey string
	orderKey string
}

// NewUserStore creates a store; an empty prefix uses the default one.
func NewUserStore(client *goredis.Client, prefix string) *UserStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &UserStore{
		client:   client,
		usersKey: fmt.Sprintf("%s:users", prefix),
		orderKey: fmt.Sprintf("%s:users:order", prefix),
	}
}

func (s *UserStore) FindByLogin(ctx context.Context, login string) (user.User, error) {
	senha, err := s.client.HGet(ctx, s.usersKey, login).Result()
	if err == goredis.Nil {
		return user.User{}, login_errors.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return user.User{Login: login, Senha: senha}, nil
}

func (s *UserStore) FindByCredentials(ctx context.Context, login, senha string) (user.User, error) {
	u, err := s.FindByLogin(ctx, login)
	if err != nil {
		return user.User{}, err
	}
	if !u.Matches(login, senha) {
		return user.User{}, login_errors.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	created, err := createUserScript.Run(ctx, s.client, []string{s.usersKey, s.orderKey}, u.Login, u.Senha).Int()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if created == 0 {
		return login_errors.ErrAlreadyExists
	}
	return nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.usersKey).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *UserStore) List(ctx context.Context) ([]user.User, error) {
	logins, err := s.client.LRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(logins) == 0 {
		return nil, nil
	}

	values, err := s.client.HMGet(ctx, s.usersKey, logins...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]user.User, 0, len(logins))
	for i, login := range logins {
		senha, ok := values[i].(string)
		if !ok {
			continue
		}
		users = append(users, user.User{Login: login, Senha: senha})
	}
	return users, nil
}

// Flush removes every key owned by the store.
func (s *UserStore) Flush(ctx context.Context) error {
	return s.client.Del(ctx, s.usersKey, s.orderKey).Err()
}
