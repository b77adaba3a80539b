package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sitecms/internal/storage"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Read(ctx context.Context, key string) (storage.Blob, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.Blob), args.Error(1)
}

func (m *MockBlobStore) Write(ctx context.Context, key, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
