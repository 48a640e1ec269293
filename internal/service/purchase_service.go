package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
	"tradebook/internal/port"
)

var (
	errRequired       = errors.New("is required")
	errInvalidDate    = errors.New("date must be YYYY-MM-DD")
	errInvalidGSTType = errors.New(`gst_type must be "with" or "without"`)
)

// PurchaseItemInput is one received row of a supplier bill.
type PurchaseItemInput struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Remark    string          `json:"remark"`
}

// CreatePurchaseInput is the DTO for recording a supplier bill.
type CreatePurchaseInput struct {
	Supplier      string              `json:"supplier"`
	InvoiceNumber string              `json:"invoice_number"`
	InvoiceDate   string              `json:"invoice_date" example:"2025-06-01"`
	GSTType       domain.GSTType      `json:"gst_type"`
	GSTRate       int                 `json:"gst_rate"`
	Items         []PurchaseItemInput `json:"items"`
}

// PurchaseService defines the supplier bill contract.
type PurchaseService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreatePurchaseInput) (*domain.PurchaseInvoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseInvoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.PurchaseInvoice, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseService struct {
	repo        port.PurchaseInvoiceRepository
	productRepo port.ProductRepository
}

// NewPurchaseService creates a new PurchaseService implementation.
func NewPurchaseService(repo port.PurchaseInvoiceRepository, productRepo port.ProductRepository) PurchaseService {
	return &purchaseService{repo: repo, productRepo: productRepo}
}

func (s *purchaseService) Create(ctx context.Context, userID uuid.UUID, input CreatePurchaseInput) (*domain.PurchaseInvoice, error) {
	ve := &billing.ValidationError{}

	supplier := strings.TrimSpace(input.Supplier)
	if supplier == "" {
		ve.AddCode("supplier", "REQUIRED", errRequired)
	}
	number := strings.TrimSpace(input.InvoiceNumber)
	if number == "" {
		ve.AddCode("invoice_number", "REQUIRED", errRequired)
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(input.InvoiceDate), domain.IST)
	if err != nil {
		ve.AddCode("invoice_date", "INVALID_DATE", errInvalidDate)
	}

	withGST := false
	switch input.GSTType {
	case domain.GSTTypeWith:
		withGST = true
		ve.Merge(billing.ValidatePolicy(billing.Policy{GSTEnabled: true, GSTRatePercent: input.GSTRate}))
	case domain.GSTTypeWithout:
	default:
		ve.AddCode("gst_type", "INVALID_GST_TYPE", errInvalidGSTType)
	}

	lines := make([]billing.LineItem, len(input.Items))
	for i, it := range input.Items {
		lines[i] = billing.LineItem{
			ProductID: strings.TrimSpace(it.ProductID),
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}
	if len(lines) == 0 {
		ve.AddCode("items", "NO_ITEMS", domain.ErrNoItems)
	}
	ve.Merge(billing.ValidateItems(lines))
	ve.Merge(billing.CheckPrecision(billing.Draft{Items: lines}))

	products, err := s.lookupProducts(ctx, ve, lines)
	if err != nil {
		return nil, err
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	totals := billing.ComputeInvoiceTotals(lines, decimal.Zero, withGST, input.GSTRate).Rounded()
	inv := &domain.PurchaseInvoice{
		Supplier:      supplier,
		InvoiceNumber: number,
		InvoiceDate:   date,
		GSTType:       input.GSTType,
		GSTRate:       totals.GSTRatePercent,
		GrossAmount:   totals.GrossAmount,
		GSTAmount:     totals.GSTAmount,
		CGST:          totals.CGST,
		SGST:          totals.SGST,
		GrandTotal:    totals.GrandTotal,
		CreatedBy:     userID,
	}
	for i, line := range lines {
		p := products[i]
		inv.Items = append(inv.Items, domain.PurchaseItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Remark:      strings.TrimSpace(input.Items[i].Remark),
			LineTotal:   billing.ComputeLineTotal(line).Round(2),
		})
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	log.Printf("purchaseService.Create: recorded %s/%s grand total %s",
		inv.Supplier, inv.InvoiceNumber, inv.GrandTotal.StringFixed(2))
	return inv, nil
}

// lookupProducts resolves every row's product. The result is indexed like
// lines; rows that fail to resolve get an issue on ve.
func (s *purchaseService) lookupProducts(ctx context.Context, ve *billing.ValidationError, lines []billing.LineItem) ([]domain.Product, error) {
	ids := make([]uuid.UUID, len(lines))
	var valid []uuid.UUID
	for i, l := range lines {
		if l.ProductID == "" {
			// ValidateItems treats a row without a product as blank
			ve.Add(fmt.Sprintf("items[%d].product_id", i), billing.ErrUnknownProduct)
			continue
		}
		id, err := uuid.Parse(l.ProductID)
		if err != nil {
			ve.Add(fmt.Sprintf("items[%d].product_id", i), billing.ErrUnknownProduct)
			continue
		}
		ids[i] = id
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		return make([]domain.Product, len(lines)), nil
	}

	found, err := s.productRepo.GetByIDs(ctx, valid)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	out := make([]domain.Product, len(lines))
	for i, id := range ids {
		if id == uuid.Nil {
			continue
		}
		p, ok := byID[id]
		if !ok {
			ve.Add(fmt.Sprintf("items[%d].product_id", i), billing.ErrUnknownProduct)
			continue
		}
		out[i] = p
	}
	return out, nil
}

func (s *purchaseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseInvoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *purchaseService) List(ctx context.Context, offset, limit int) ([]domain.PurchaseInvoice, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *purchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("purchaseService.Delete: deleted purchase invoice %s", id)
	return nil
}
