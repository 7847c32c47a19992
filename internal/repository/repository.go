package repository

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint (username, external id, one review per user and movie).
var ErrDuplicate = errors.New("already exists")
