package store

import "errors"

// ErrNotFound is returned when a referenced quote id is not in the store.
var ErrNotFound = errors.New("quote not found")
