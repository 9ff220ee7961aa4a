package ledger

import "errors"

// ErrUnauthenticated is returned when an operation is attempted without a caller identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrNotFound is returned when a referenced transaction, wallet or category
// does not exist or does not belong to the caller.
var ErrNotFound = errors.New("not found")

// ErrInvalidArgument is returned for malformed drafts, e.g. a non-positive
// amount or a transfer with identical source and destination.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrFutureNotSupported is returned by BulkCreate when the batch contains a
// future-dated draft.
var ErrFutureNotSupported = errors.New("future transactions not supported in bulk import")

// ErrConflict is returned when a concurrent mutation to the same wallet or
// transaction is detected. The operation left no partial state; callers may retry.
var ErrConflict = errors.New("conflicting concurrent update")
