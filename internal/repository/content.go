package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no document has been saved yet.
var ErrNotFound = errors.New("site content not found")

// ContentRepository persists the single site document as opaque JSON bytes.
// Implementations must replace the stored document wholesale on Save; there is no
// versioning or conflict detection, the last writer wins.
type ContentRepository interface {
	// Load returns the stored document, or ErrNotFound if nothing has been saved.
	Load(ctx context.Context) ([]byte, error)

	// Save overwrites the stored document with body.
	Save(ctx context.Context, body []byte) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
