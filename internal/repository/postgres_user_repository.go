package repository

import (
	"context"

	"login-api/internal/domain/user"
	login_errors "login-api/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository stores users in the table created by the
// migrations of pkg/database.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) FindByLogin(ctx context.Context, login string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx,
		`SELECT login, senha FROM users WHERE login = $1`,
		login,
	).Scan(&u.Login, &u.Senha)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, login_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) FindByCredentials(ctx context.Context, login, senha string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx,
		`SELECT login, senha FROM users WHERE login = $1 AND senha = $2`,
		login, senha,
	).Scan(&u.Login, &u.Senha)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, login_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO users (login, senha) VALUES ($1, $2) ON CONFLICT (login) DO NOTHING`,
		u.Login, u.Senha,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return login_errors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return login_errors.ErrAlreadyExists
	}
	return nil
}

func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx, `SELECT login, senha FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.Login, &u.Senha); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Flush deletes every user and restarts the id sequence.
func (r *PostgresUserRepository) Flush(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE users RESTART IDENTITY`)
	return err
}
