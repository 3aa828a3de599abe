package login_errors

import (
	"errors"
)

// Domain errors. The messages are part of the HTTP contract and are echoed
// verbatim in the "error" field of responses.
var (
	ErrDuplicateUser      = errors.New("Usuário já existe")
	ErrInvalidCredentials = errors.New("Login ou senha inválidos")
	ErrMissingToken       = errors.New("Token de acesso necessário")
	ErrInvalidToken       = errors.New("Token inválido")
	ErrInvalidInput       = errors.New("Requisição inválida")
)

// Storage and transport errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
