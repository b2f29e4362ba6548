package roster

import "errors"

var (
	ErrBandNotFound  = errors.New("band not found")
	ErrBandNameTaken = errors.New("band name already taken")
	ErrUserNotFound  = errors.New("user not found")
)
