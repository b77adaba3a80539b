package mocks

import (
	"context"

	"sitecms/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, password string) (service.Session, error) {
	args := m.Called(ctx, password)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *MockAuthService) Validate(ctx context.Context, token string) (service.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(service.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
