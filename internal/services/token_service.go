package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	login_errors "login-api/pkg/errors"
)

const (
	// TokenPrefix is the only part of a token that is ever checked.
	TokenPrefix = "token_"

	suffixLength   = 9
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// TokenService issues opaque tokens of the form
// token_<login>_<epoch-ms>_<9 base36 chars>. Tokens are neither signed nor
// stored; validation is a prefix check.
type TokenService struct {
	now func() time.Time
}

func NewTokenService() *TokenService {
	return &TokenService{now: time.Now}
}

// NewTokenServiceWithClock is used by tests that need deterministic timestamps.
func NewTokenServiceWithClock(now func() time.Time) *TokenService {
	return &TokenService{now: now}
}

// Issue returns a fresh token for login.
func (s *TokenService) Issue(login string) (string, error) {
	suffix, err := randomBase36(suffixLength)
	if err != nil {
		return "", fmt.Errorf("generate token suffix: %w", err)
	}
	return fmt.Sprintf("%s%s_%d_%s", TokenPrefix, login, s.now().UnixMilli(), suffix), nil
}

// Validate checks the token prefix.
func (s *TokenService) Validate(token string) error {
	if !strings.HasPrefix(token, TokenPrefix) {
		return login_errors.ErrInvalidToken
	}
	return nil
}

// LoginFromToken returns the second "_"-separated field of the token. Logins
// that contain "_" come back truncated.
func (s *TokenService) LoginFromToken(token string) string {
	parts := strings.Split(token, "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// ParseBearer extracts the token from an Authorization header value. The
// scheme must be exactly "Bearer ".
func ParseBearer(header string) (string, error) {
	const scheme = "Bearer "
	if header == "" || !strings.HasPrefix(header, scheme) {
		return "", login_errors.ErrMissingToken
	}
	return header[len(scheme):], nil
}

func randomBase36(n int) (string, error) {
	max := big.NewInt(int64(len(base36Alphabet)))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(base36Alphabet[idx.Int64()])
	}
	return sb.String(), nil
}

type ctxKey string

var loginKey ctxKey = "login"

func WithLoginContext(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginKey, login)
}

func LoginFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(loginKey)
	if value == nil {
		return "", false
	}
	login, ok := value.(string)
	return login, ok
}
