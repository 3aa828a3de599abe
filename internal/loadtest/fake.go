package loadtest

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	fakeNames   = []string{"João", "Maria", "Pedro", "Ana", "Carlos", "Lucia", "Rafael", "Julia"}
	fakeDomains = []string{"gmail.com", "hotmail.com", "yahoo.com", "outlook.com"}
)

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FakeUser is generated test data. Only Login and Senha are sent to the API.
type FakeUser struct {
	Login string
	Email string
	Senha string
	Name  string
}

// GenerateFakeUser picks a Brazilian first and last name and derives the
// remaining fields from them.
func GenerateFakeUser(r *rand.Rand) FakeUser {
	first := fakeNames[r.IntN(len(fakeNames))]
	last := fakeNames[r.IntN(len(fakeNames))]
	domain := fakeDomains[r.IntN(len(fakeDomains))]
	lf, ll := strings.ToLower(first), strings.ToLower(last)

	return FakeUser{
		Login: fmt.Sprintf("%s_%s_%d", lf, ll, r.IntN(1000)),
		Email: fmt.Sprintf("%s.%s@%s", lf, ll, domain),
		Senha: fmt.Sprintf("pass%d", r.IntN(10000)),
		Name:  first + " " + last,
	}
}

// RandomString returns n characters from [a-zA-Z0-9].
func RandomString(r *rand.Rand, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(randomAlphabet[r.IntN(len(randomAlphabet))])
	}
	return sb.String()
}

// UniqueLogin builds the per-iteration login user_<random>_<vu>_<iter>.
func UniqueLogin(r *rand.Rand, vu int, iter int64) string {
	return fmt.Sprintf("user_%s_%d_%d", RandomString(r, 8), vu, iter)
}
