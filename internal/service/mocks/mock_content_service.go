package mocks

import (
	"context"

	"sitecms/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Read(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockContentService) Write(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

func (m *MockContentService) RecordLead(ctx context.Context, ev model.LeadEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockContentService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
