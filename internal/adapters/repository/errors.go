package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrDuplicate   = errors.New("duplicate natural key")
	ErrPersistence = errors.New("persistence failure")
	ErrClosed      = errors.New("unit of work closed")
)
