package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
	"tradebook/internal/port"
	"tradebook/internal/validator"
)

// PendingBalance is a customer's outstanding amount. A negative Amount is a
// credit held from an earlier overpayment.
type PendingBalance struct {
	Phone  string          `json:"phone"`
	Name   string          `json:"name,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	Known  bool            `json:"known"`
}

// CustomerService defines the customer lookup contract.
type CustomerService interface {
	List(ctx context.Context, search string, offset, limit int) ([]domain.Customer, int, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	// PendingBalance returns what the customer owes, or zero for a phone
	// that has never been billed.
	PendingBalance(ctx context.Context, phone string) (*PendingBalance, error)
}

type customerService struct {
	repo port.CustomerRepository
}

// NewCustomerService creates a new CustomerService implementation.
func NewCustomerService(repo port.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) List(ctx context.Context, search string, offset, limit int) ([]domain.Customer, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), offset, limit)
}

func (s *customerService) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	phone, err := checkedPhone(phone)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByPhone(ctx, phone)
}

func (s *customerService) PendingBalance(ctx context.Context, phone string) (*PendingBalance, error) {
	phone, err := checkedPhone(phone)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return &PendingBalance{Phone: phone, Amount: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}
	return &PendingBalance{Phone: phone, Name: c.Name, Amount: c.PendingBalance, Known: true}, nil
}

func checkedPhone(phone string) (string, error) {
	phone = validator.NormalizePhone(phone)
	ve := &billing.ValidationError{}
	if phone == "" {
		ve.AddCode("phone", "INVALID_PHONE", domain.ErrInvalidPhone)
	} else {
		validator.CheckParty(ve, "", validator.Party{Phone: phone})
	}
	return phone, ve.Err()
}
