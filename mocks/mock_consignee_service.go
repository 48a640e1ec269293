package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradebook/internal/domain"
	"tradebook/internal/service"
)

// MockConsigneeService is a mock implementation of service.ConsigneeService.
type MockConsigneeService struct {
	mock.Mock
}

func (m *MockConsigneeService) Create(ctx context.Context, input service.ConsigneeInput) (*domain.Consignee, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consignee), args.Error(1)
}

func (m *MockConsigneeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Consignee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consignee), args.Error(1)
}

func (m *MockConsigneeService) List(ctx context.Context) ([]domain.Consignee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Consignee), args.Error(1)
}

func (m *MockConsigneeService) Update(ctx context.Context, id uuid.UUID, input service.ConsigneeInput) (*domain.Consignee, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consignee), args.Error(1)
}

func (m *MockConsigneeService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
