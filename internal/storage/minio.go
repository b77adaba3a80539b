package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sitecms/internal/config"
)

const bucketCheckTimeout = 10 * time.Second

// MinIO is a BlobStore on an S3-compatible bucket (MinIO, AWS S3 and friends).
type MinIO struct {
	client *minio.Client
	bucket string
}

var _ BlobStore = (*MinIO)(nil)

// NewMinIO connects to the bucket named in cfg, creating it when it does not exist yet.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIO, error) {
	switch {
	case cfg.Endpoint == "":
		return nil, errors.New("minio endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return nil, errors.New("minio credentials are required")
	case cfg.Bucket == "":
		return nil, errors.New("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()
	if err := ensureBucket(ctx, cli, cfg.Bucket); err != nil {
		return nil, err
	}
	return &MinIO{client: cli, bucket: cfg.Bucket}, nil
}

func ensureBucket(ctx context.Context, cli *minio.Client, bucket string) error {
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Read downloads the object under key in full.
func (m *MinIO) Read(ctx context.Context, key string) (Blob, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Blob{}, notFoundAware(err)
	}
	defer obj.Close()

	// GetObject is lazy; Stat surfaces a missing key.
	st, err := obj.Stat()
	if err != nil {
		return Blob{}, notFoundAware(err)
	}
	body, err := io.ReadAll(obj)
	if err != nil {
		return Blob{}, fmt.Errorf("read %s: %w", key, err)
	}
	return Blob{
		Key:         key,
		Body:        body,
		ETag:        st.ETag,
		ContentType: st.ContentType,
		ModifiedAt:  st.LastModified,
	}, nil
}

// Write uploads body under key in a single request.
func (m *MinIO) Write(ctx context.Context, key, contentType string, body []byte) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return info.ETag, nil
}

// Ping checks the bucket still exists.
func (m *MinIO) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}

func notFoundAware(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject", "NoSuchBucket":
		return fmt.Errorf("%w: %v", ErrBlobNotFound, err)
	}
	return err
}
