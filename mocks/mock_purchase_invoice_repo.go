package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradebook/internal/domain"
)

// MockPurchaseInvoiceRepo is a mock implementation of port.PurchaseInvoiceRepository.
type MockPurchaseInvoiceRepo struct {
	mock.Mock
}

func (m *MockPurchaseInvoiceRepo) Create(ctx context.Context, inv *domain.PurchaseInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.PurchaseInvoice, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseInvoice), args.Int(1), args.Error(2)
}

func (m *MockPurchaseInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
