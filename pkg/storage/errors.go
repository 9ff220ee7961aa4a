package storage

import "errors"

// ErrNotFound is returned when a record does not exist or is not owned by the
// requesting user. Ownership misses are deliberately indistinguishable from
// missing records.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an atomic commit was cancelled because another
// writer touched one of its records first.
var ErrConflict = errors.New("concurrent write conflict")
