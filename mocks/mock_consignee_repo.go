package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradebook/internal/domain"
)

// MockConsigneeRepo is a mock implementation of port.ConsigneeRepository.
type MockConsigneeRepo struct {
	mock.Mock
}

func (m *MockConsigneeRepo) Create(ctx context.Context, c *domain.Consignee) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConsigneeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Consignee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consignee), args.Error(1)
}

func (m *MockConsigneeRepo) List(ctx context.Context) ([]domain.Consignee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Consignee), args.Error(1)
}

func (m *MockConsigneeRepo) Update(ctx context.Context, c *domain.Consignee) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConsigneeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
