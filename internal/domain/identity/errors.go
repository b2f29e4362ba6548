package identity

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrGuardianExists     = errors.New("child already has a guardian")
	ErrGuardianNotFound   = errors.New("guardian link not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("caller lacks required role")
)
