package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tradebook/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendInvoiceEmail(ctx context.Context, toEmail, toName string, inv port.InvoiceEmail) error {
	args := m.Called(ctx, toEmail, toName, inv)
	return args.Error(0)
}
