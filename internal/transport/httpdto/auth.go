package httpdto

// CredentialsRequest is used for POST /register and POST /login.
// Missing fields decode to empty strings and are accepted as-is.
type CredentialsRequest struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}

// UserDTO is the public view of a user; the password is never echoed.
type UserDTO struct {
	Login string `json:"login"`
}

// AuthResponse is returned after a successful register or login.
type AuthResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
}

// ProfileResponse is returned by GET /profile.
type ProfileResponse struct {
	Message   string  `json:"message"`
	User      UserDTO `json:"user"`
	Timestamp string  `json:"timestamp"`
}
