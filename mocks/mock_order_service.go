package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
	"tradebook/internal/service"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Preview(ctx context.Context, draft billing.Draft) (*service.Preview, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Preview), args.Error(1)
}

func (m *MockOrderService) Create(ctx context.Context, userID uuid.UUID, input service.CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderService) Ledger(ctx context.Context, phone string) (*domain.CustomerLedger, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerLedger), args.Error(1)
}

func (m *MockOrderService) RecordPayment(ctx context.Context, userID uuid.UUID, input service.PaymentInput) (*domain.Order, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderService) ExportCSV(ctx context.Context, filter domain.OrderFilter, w io.Writer) error {
	args := m.Called(ctx, filter, w)
	return args.Error(0)
}

func (m *MockOrderService) Publish(ctx context.Context, id uuid.UUID) (*service.PublishedInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishedInvoice), args.Error(1)
}

func (m *MockOrderService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, *domain.Order, error) {
	args := m.Called(ctx, id)
	var pdf []byte
	if v := args.Get(0); v != nil {
		pdf = v.([]byte)
	}
	var order *domain.Order
	if v := args.Get(1); v != nil {
		order = v.(*domain.Order)
	}
	return pdf, order, args.Error(2)
}
