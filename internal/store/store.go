// Package store wraps the remote repository contents API the CMS uses as its
// record database. Every record is one file; revisions are tracked through
// the opaque version token the API returns on fetch.
package store

import "context"

// Entry is one item of a directory listing.
type Entry struct {
	Name  string
	Path  string
	Token string
}

// FileStore is the single seam between the editing workflow and the remote
// repository. Writes are conditional: passing the version token captured at
// fetch time is the only protection against lost updates.
type FileStore interface {
	// Fetch returns the file contents and its current version token.
	Fetch(ctx context.Context, path string) ([]byte, string, error)

	// Write creates or replaces the file. With an empty expectedToken the
	// call means "create" and fails with ErrAlreadyExists if the path is
	// occupied; with a token it fails with ErrVersionConflict when the
	// stored revision moved on. Returns the new version token.
	Write(ctx context.Context, path string, contents []byte, expectedToken, message string) (string, error)

	// Delete removes the file at the given revision.
	Delete(ctx context.Context, path, expectedToken, message string) error

	// List enumerates the files directly under dir.
	List(ctx context.Context, dir string) ([]Entry, error)
}
