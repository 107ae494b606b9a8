package session

import "errors"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrEmptyToken     = errors.New("empty token")
)
