package store

import "errors"

var (
	errNotBatcher = errors.New("store: backing db does not support batched writes")
	// ErrNotFound is returned by typed getters when the key is absent.
	ErrNotFound = errors.New("store: not found")
)
