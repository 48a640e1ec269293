package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradebook/internal/domain"
	"tradebook/internal/service"
)

// MockPurchaseService is a mock implementation of service.PurchaseService.
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) Create(ctx context.Context, userID uuid.UUID, input service.CreatePurchaseInput) (*domain.PurchaseInvoice, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseService) List(ctx context.Context, offset, limit int) ([]domain.PurchaseInvoice, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseInvoice), args.Int(1), args.Error(2)
}

func (m *MockPurchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
