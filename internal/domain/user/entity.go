package user

// User represents a registered account. Senha is kept in clear text; the
// registry performs no hashing.
type User struct {
	Login string
	Senha string
}

// Matches reports whether both fields are exactly equal to the given pair.
func (u User) Matches(login, senha string) bool {
	return u.Login == login && u.Senha == senha
}
