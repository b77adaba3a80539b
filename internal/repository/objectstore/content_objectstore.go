package objectstore

import (
	"context"
	"errors"
	"fmt"

	"sitecms/internal/repository"
	"sitecms/internal/storage"
)

const contentType = "application/json"

// ContentObjectStore keeps the site document as a single object in an S3-compatible bucket.
type ContentObjectStore struct {
	blobs storage.BlobStore
	key   string
}

// NewContentObjectStore creates a repository.ContentRepository writing the document under key.
func NewContentObjectStore(blobs storage.BlobStore, key string) *ContentObjectStore {
	return &ContentObjectStore{blobs: blobs, key: key}
}

var _ repository.ContentRepository = (*ContentObjectStore)(nil)

// Load downloads the document object.
func (r *ContentObjectStore) Load(ctx context.Context) ([]byte, error) {
	b, err := r.blobs.Read(ctx, r.key)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", r.key, err)
	}
	return b.Body, nil
}

// Save uploads body, replacing any previous object under the same key.
func (r *ContentObjectStore) Save(ctx context.Context, body []byte) error {
	if _, err := r.blobs.Write(ctx, r.key, contentType, body); err != nil {
		return fmt.Errorf("put object %s: %w", r.key, err)
	}
	return nil
}

// Ping checks the bucket is reachable.
func (r *ContentObjectStore) Ping(ctx context.Context) error {
	return r.blobs.Ping(ctx)
}
