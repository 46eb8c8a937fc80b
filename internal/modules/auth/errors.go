package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrUnauthorized       = errors.New("unauthorized")
)
