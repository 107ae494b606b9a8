package profile

import "errors"

var (
	ErrNotFound     = errors.New("profile not found")
	ErrInvalidAuth  = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("admin rights required")
	ErrSelfDelete   = errors.New("cannot delete own profile")
)
