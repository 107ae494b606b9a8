package order

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrInvalidData = errors.New("invalid order data")
	ErrInvalidID   = errors.New("invalid order id")
	ErrEmptyPatch  = errors.New("empty order patch")
)
