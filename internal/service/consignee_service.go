package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tradebook/internal/domain"
	"tradebook/internal/port"
	"tradebook/internal/validator"
)

// ConsigneeInput is the DTO for creating or replacing a consignee.
type ConsigneeInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
	PAN     string `json:"pan"`
	State   string `json:"state"`
}

func (in *ConsigneeInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.GSTIN = validator.NormalizeGSTIN(in.GSTIN)
	in.PAN = validator.NormalizeGSTIN(in.PAN)
	in.State = strings.TrimSpace(in.State)
}

// ConsigneeService defines the consignee management contract.
type ConsigneeService interface {
	Create(ctx context.Context, input ConsigneeInput) (*domain.Consignee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Consignee, error)
	List(ctx context.Context) ([]domain.Consignee, error)
	Update(ctx context.Context, id uuid.UUID, input ConsigneeInput) (*domain.Consignee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type consigneeService struct {
	repo port.ConsigneeRepository
}

// NewConsigneeService creates a new ConsigneeService implementation.
func NewConsigneeService(repo port.ConsigneeRepository) ConsigneeService {
	return &consigneeService{repo: repo}
}

func (s *consigneeService) Create(ctx context.Context, input ConsigneeInput) (*domain.Consignee, error) {
	input.normalize()
	if err := validator.ValidateParty("", validator.Party{GSTIN: input.GSTIN, PAN: input.PAN}); err != nil {
		return nil, err
	}
	c := &domain.Consignee{
		Name:    input.Name,
		Address: input.Address,
		GSTIN:   input.GSTIN,
		PAN:     input.PAN,
		State:   input.State,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *consigneeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Consignee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *consigneeService) List(ctx context.Context) ([]domain.Consignee, error) {
	return s.repo.List(ctx)
}

func (s *consigneeService) Update(ctx context.Context, id uuid.UUID, input ConsigneeInput) (*domain.Consignee, error) {
	input.normalize()
	if err := validator.ValidateParty("", validator.Party{GSTIN: input.GSTIN, PAN: input.PAN}); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = input.Name
	c.Address = input.Address
	c.GSTIN = input.GSTIN
	c.PAN = input.PAN
	c.State = input.State
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *consigneeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
