package store

import "errors"

// Error taxonomy for store operations. Callers match with errors.Is; the
// client never retries on its own.
var (
	// ErrNotFound means the path does not exist in the repository.
	ErrNotFound = errors.New("store: not found")

	// ErrUnauthorized means the session token is missing, expired or lacks
	// the repo scope.
	ErrUnauthorized = errors.New("store: unauthorized")

	// ErrVersionConflict means the expected version token no longer matches
	// the stored revision; the write was not performed.
	ErrVersionConflict = errors.New("store: version conflict")

	// ErrAlreadyExists means a create targeted a path that is occupied.
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrTransient covers timeouts and 5xx responses. Whether to retry is
	// the caller's decision.
	ErrTransient = errors.New("store: transient network error")
)
