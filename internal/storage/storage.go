package storage

import (
	"context"
	"errors"
	"time"
)

// ErrBlobNotFound is returned when no object exists under the requested key.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is a whole object read from the bucket.
type Blob struct {
	Key         string
	Body        []byte
	ETag        string
	ContentType string
	ModifiedAt  time.Time
}

// BlobStore holds small whole-object documents in an S3-compatible bucket.
type BlobStore interface {
	// Read returns the full object stored under key.
	Read(ctx context.Context, key string) (Blob, error)
	// Write replaces the object under key and returns its new ETag.
	Write(ctx context.Context, key, contentType string, body []byte) (string, error)
	// Ping reports whether the bucket is reachable.
	Ping(ctx context.Context) error
}
