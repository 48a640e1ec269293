package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradebook/internal/billing"
	"tradebook/internal/config"
	"tradebook/internal/csvexport"
	"tradebook/internal/domain"
	"tradebook/internal/invoicepdf"
	"tradebook/internal/port"
	"tradebook/internal/validator"
)

// CreateOrderInput is the DTO for issuing a sales invoice.
type CreateOrderInput struct {
	Firm            string `json:"firm" binding:"required"`
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	CustomerAddress string `json:"customer_address"`
	CustomerGSTIN   string `json:"customer_gstin"`
	CustomerState   string `json:"customer_state"`
	CustomerEmail   string `json:"customer_email" binding:"omitempty,email"`
	ConsigneeID     string `json:"consignee_id"`

	Items                  []billing.LineItem `json:"items"`
	InvoiceDiscountPercent decimal.Decimal    `json:"invoice_discount_percent"`
	WithGST                bool               `json:"with_gst"`
	// GSTRate falls back to the configured default when omitted.
	GSTRate *int `json:"gst_rate"`

	// PreviousPending overrides the customer's stored balance when set.
	PreviousPending    *decimal.Decimal `json:"previous_pending"`
	OldPendingAdjusted decimal.Decimal  `json:"old_pending_adjusted"`
	AmountPaid         decimal.Decimal  `json:"amount_paid"`
}

// PaymentInput is the DTO for recording money received against an invoice.
type PaymentInput struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// Preview is the computed, printable form of an unsaved invoice.
type Preview struct {
	billing.Result
	AmountInWords string `json:"amount_in_words"`
}

// PublishedInvoice is where a rendered invoice PDF can be downloaded.
type PublishedInvoice struct {
	InvoiceNumber string `json:"invoice_number"`
	URL           string `json:"url"`
	Emailed       bool   `json:"emailed"`
}

// OrderService defines the sales invoice contract.
type OrderService interface {
	Preview(ctx context.Context, draft billing.Draft) (*Preview, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error)
	Ledger(ctx context.Context, phone string) (*domain.CustomerLedger, error)
	RecordPayment(ctx context.Context, userID uuid.UUID, input PaymentInput) (*domain.Order, error)
	ListPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExportCSV(ctx context.Context, filter domain.OrderFilter, w io.Writer) error
	RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, *domain.Order, error)
	Publish(ctx context.Context, id uuid.UUID) (*PublishedInvoice, error)
}

type orderService struct {
	orderRepo     port.OrderRepository
	productRepo   port.ProductRepository
	customerRepo  port.CustomerRepository
	consigneeRepo port.ConsigneeRepository
	storage       port.ObjectStorage
	emailSender   port.EmailSender
	s3Cfg         *config.S3Config
	billingCfg    config.BillingConfig
}

// NewOrderService creates a new OrderService implementation. storage may be
// nil, in which case Publish fails with ErrStorageUnavailable.
func NewOrderService(
	orderRepo port.OrderRepository,
	productRepo port.ProductRepository,
	customerRepo port.CustomerRepository,
	consigneeRepo port.ConsigneeRepository,
	storage port.ObjectStorage,
	emailSender port.EmailSender,
	s3Cfg *config.S3Config,
	billingCfg config.BillingConfig,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		consigneeRepo: consigneeRepo,
		storage:       storage,
		emailSender:   emailSender,
		s3Cfg:         s3Cfg,
		billingCfg:    billingCfg,
	}
}

// maxBalanceAttempts bounds how often Create recomputes an invoice whose
// customer balance moved before it could be saved.
const maxBalanceAttempts = 3

func (s *orderService) gstRate(enabled bool, rate *int) int {
	switch {
	case rate != nil:
		return *rate
	case enabled:
		return s.billingCfg.DefaultGSTRate
	default:
		return 0
	}
}

func (s *orderService) Preview(_ context.Context, draft billing.Draft) (*Preview, error) {
	res, err := billing.Calculate(draft)
	if err != nil {
		return nil, err
	}
	rounded := res.Rounded()
	return &Preview{
		Result:        rounded,
		AmountInWords: billing.AmountInWords(rounded.Totals.GrandTotal),
	}, nil
}

func (s *orderService) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error) {
	firm, err := domain.ParseFirm(strings.TrimSpace(input.Firm))
	if err != nil {
		return nil, err
	}

	phone := validator.NormalizePhone(input.CustomerPhone)
	gstin := validator.NormalizeGSTIN(input.CustomerGSTIN)
	ve := &billing.ValidationError{}
	validator.CheckParty(ve, "customer_", validator.Party{Phone: phone, GSTIN: gstin})

	consignee, err := s.resolveConsignee(ctx, ve, input.ConsigneeID)
	if err != nil {
		return nil, err
	}

	items, productIDs, err := s.resolveItems(ctx, ve, input.Items)
	if err != nil {
		return nil, err
	}

	policy := billing.Policy{
		InvoiceDiscountPercent: input.InvoiceDiscountPercent,
		GSTEnabled:             input.WithGST,
		GSTRatePercent:         s.gstRate(input.WithGST, input.GSTRate),
	}

	for attempt := 1; ; attempt++ {
		opening, err := s.openingBalance(ctx, phone, input)
		if err != nil {
			return nil, err
		}

		draft := billing.Draft{Items: items, Policy: policy, Balance: opening.Balance}
		res, err := billing.Calculate(draft)
		ve.Merge(err)
		ve.Merge(billing.CheckPrecision(draft))
		if err := ve.Err(); err != nil {
			return nil, err
		}
		if len(res.Lines) == 0 {
			ve.AddCode("items", "NO_ITEMS", domain.ErrNoItems)
			return nil, ve
		}

		order := s.newOrder(firm, userID, phone, gstin, input, consignee, res.Rounded(), opening, productIDs)
		err = s.orderRepo.Create(ctx, order)
		if errors.Is(err, domain.ErrBalanceChanged) && attempt < maxBalanceAttempts {
			log.Printf("orderService.Create: balance of %s moved while billing, recomputing (attempt %d)", phone, attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		log.Printf("orderService.Create: issued %s grand total %s carry forward %s",
			order.InvoiceNumber, order.GrandTotal.StringFixed(2), order.CarryForward.StringFixed(2))
		return order, nil
	}
}

func (s *orderService) newOrder(
	firm domain.Firm,
	userID uuid.UUID,
	phone, gstin string,
	input CreateOrderInput,
	consignee *domain.Consignee,
	r billing.Result,
	opening openingBalance,
	productIDs []uuid.UUID,
) *domain.Order {
	order := &domain.Order{
		Firm:            firm,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   phone,
		CustomerAddress: strings.TrimSpace(input.CustomerAddress),
		CustomerGSTIN:   gstin,
		CustomerState:   strings.TrimSpace(input.CustomerState),
		CustomerEmail:   strings.TrimSpace(input.CustomerEmail),

		GrossAmount:     r.Totals.GrossAmount,
		DiscountPercent: r.Totals.InvoiceDiscountPercent,
		DiscountAmount:  r.Totals.DiscountAmount,
		TaxableAmount:   r.Totals.TaxableAmount,
		WithGST:         r.Totals.GSTEnabled,
		GSTRate:         r.Totals.GSTRatePercent,
		GSTAmount:       r.Totals.GSTAmount,
		CGST:            r.Totals.CGST,
		SGST:            r.Totals.SGST,
		GrandTotal:      r.Totals.GrandTotal,

		PreviousPending:    r.Balance.PreviousPending,
		OldPendingAdjusted: r.Balance.OldPendingAdjusted,
		AmountPaid:         r.Balance.AmountPaid.Sub(opening.Credit),
		CreditApplied:      opening.Credit,
		CarryForward:       r.CarryForward,
		ExpectedBalance:    opening.Stored,
		CreatedBy:          userID,
	}
	if consignee != nil {
		order.ConsigneeID = &consignee.ID
		order.ConsigneeName = consignee.Name
		order.ConsigneeAddress = consignee.Address
		order.ConsigneeGSTIN = consignee.GSTIN
		order.ConsigneePAN = consignee.PAN
		order.ConsigneeState = consignee.State
	}
	for i, line := range r.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:       productIDs[i],
			Name:            strings.TrimSpace(line.Name),
			HSN:             strings.TrimSpace(line.HSN),
			Price:           line.Price,
			Quantity:        line.Quantity,
			DiscountPercent: line.DiscountPercent,
			LineTotal:       line.LineTotal,
		})
	}
	return order
}

func (s *orderService) resolveConsignee(ctx context.Context, ve *billing.ValidationError, raw string) (*domain.Consignee, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		ve.AddCode("consignee_id", "UNKNOWN_CONSIGNEE", domain.ErrNotFound)
		return nil, nil
	}
	c, err := s.consigneeRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		ve.AddCode("consignee_id", "UNKNOWN_CONSIGNEE", domain.ErrNotFound)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// resolveItems checks each non-blank row's product against the catalog and
// fills in the name and HSN the catalog holds when the row leaves them empty.
// The returned ids line up with billing.DropBlank(items).
func (s *orderService) resolveItems(ctx context.Context, ve *billing.ValidationError, items []billing.LineItem) ([]billing.LineItem, []uuid.UUID, error) {
	parsed := make(map[int]uuid.UUID, len(items))
	var ids []uuid.UUID
	for i, item := range items {
		if billing.IsBlank(item) || strings.TrimSpace(item.ProductID) == "" {
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil {
			ve.Add(fmt.Sprintf("items[%d].product_id", i), billing.ErrUnknownProduct)
			continue
		}
		parsed[i] = id
		ids = append(ids, id)
	}

	catalog := make(map[uuid.UUID]domain.Product, len(ids))
	if len(ids) > 0 {
		products, err := s.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("loading products: %w", err)
		}
		for _, p := range products {
			catalog[p.ID] = p
		}
	}

	out := make([]billing.LineItem, len(items))
	copy(out, items)
	var lineIDs []uuid.UUID
	for i := range out {
		if billing.IsBlank(out[i]) {
			continue
		}
		id, ok := parsed[i]
		if ok {
			p, found := catalog[id]
			if !found {
				ve.Add(fmt.Sprintf("items[%d].product_id", i), billing.ErrUnknownProduct)
			} else {
				if strings.TrimSpace(out[i].Name) == "" {
					out[i].Name = p.Name
				}
				if strings.TrimSpace(out[i].HSN) == "" {
					out[i].HSN = p.HSN
				}
			}
		}
		validator.CheckHSN(ve, fmt.Sprintf("items[%d].hsn", i), strings.TrimSpace(out[i].HSN))
		lineIDs = append(lineIDs, id)
	}
	return out, lineIDs, nil
}

// openingBalance is what the customer owed before an invoice. A stored
// credit is not a negative previous pending; it is carried in Credit and
// counted as money already paid. Stored is the customer balance the figures
// were derived from, or nil when the operator overrode previous pending.
type openingBalance struct {
	Balance billing.Balance
	Credit  decimal.Decimal
	Stored  *decimal.Decimal
}

func (s *orderService) openingBalance(ctx context.Context, phone string, input CreateOrderInput) (openingBalance, error) {
	ob := openingBalance{
		Balance: billing.Balance{
			OldPendingAdjusted: input.OldPendingAdjusted,
			AmountPaid:         input.AmountPaid,
		},
		Credit: decimal.Zero,
	}
	if input.PreviousPending != nil {
		ob.Balance.PreviousPending = *input.PreviousPending
		return ob, nil
	}

	stored := decimal.Zero
	ob.Stored = &stored
	ob.Balance.PreviousPending = decimal.Zero
	if phone == "" {
		return ob, nil
	}
	c, err := s.customerRepo.GetByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return ob, nil
	}
	if err != nil {
		return ob, fmt.Errorf("looking up pending balance: %w", err)
	}
	stored = c.PendingBalance
	if stored.IsNegative() {
		ob.Credit = stored.Neg()
		ob.Balance.AmountPaid = ob.Balance.AmountPaid.Add(ob.Credit)
	} else {
		ob.Balance.PreviousPending = stored
	}
	return ob, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error) {
	return s.orderRepo.GetByInvoiceNumber(ctx, strings.TrimSpace(invoiceNumber))
}

func (s *orderService) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	if filter.Firm != "" && !filter.Firm.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", domain.ErrUnknownFirm, string(filter.Firm))
	}
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Phone != "" {
		filter.Phone = validator.NormalizePhone(filter.Phone)
	}
	return s.orderRepo.List(ctx, filter, offset, limit)
}

func (s *orderService) Ledger(ctx context.Context, phone string) (*domain.CustomerLedger, error) {
	phone, err := checkedPhone(phone)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListAll(ctx, domain.OrderFilter{Phone: phone})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &domain.CustomerLedger{Customer: *customer, Orders: orders}, nil
}

func (s *orderService) RecordPayment(ctx context.Context, userID uuid.UUID, input PaymentInput) (*domain.Order, error) {
	if err := billing.ValidatePayment(input.Amount); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.RecordPayment(ctx, strings.TrimSpace(input.InvoiceNumber), input.Amount.Round(2), userID)
	if err != nil {
		return nil, err
	}
	log.Printf("orderService.RecordPayment: %s received %s, carry forward now %s",
		order.InvoiceNumber, input.Amount.StringFixed(2), order.CarryForward.StringFixed(2))
	return order, nil
}

func (s *orderService) ListPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error) {
	return s.orderRepo.ListPayments(ctx, orderID)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("orderService.Delete: deleted %s", order.InvoiceNumber)
	if order.PDFKey != "" && s.storage != nil {
		if err := s.storage.Remove(ctx, order.PDFKey); err != nil {
			log.Printf("orderService.Delete: failed to delete PDF %s: %v", order.PDFKey, err)
		}
	}
	return nil
}

func (s *orderService) ExportCSV(ctx context.Context, filter domain.OrderFilter, w io.Writer) error {
	if filter.Firm != "" && !filter.Firm.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownFirm, string(filter.Firm))
	}
	orders, err := s.orderRepo.ListAll(ctx, filter)
	if err != nil {
		return err
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return err
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteOrders(orders); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *orderService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, *domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order.PDFKey != "" && s.storage != nil {
		stored, err := s.storage.Get(ctx, order.PDFKey)
		if err == nil {
			return stored, order, nil
		}
		log.Printf("orderService.RenderPDF: stored copy of %s unavailable, rendering: %v", order.InvoiceNumber, err)
	}
	pdf, err := invoicepdf.Bytes(order)
	if err != nil {
		return nil, nil, err
	}
	return pdf, order, nil
}

func (s *orderService) Publish(ctx context.Context, id uuid.UUID) (*PublishedInvoice, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := order.PDFKey
	if key == "" {
		pdf, err := invoicepdf.Bytes(order)
		if err != nil {
			return nil, err
		}
		name := csvexport.SanitizeFilename(order.InvoiceNumber)
		key = fmt.Sprintf("invoices/%s/%s.pdf", order.Firm, name)
		err = s.storage.Put(ctx, port.Object{
			Key:         key,
			Body:        bytes.NewReader(pdf),
			ContentType: "application/pdf",
			Filename:    name + ".pdf",
		})
		if err != nil {
			log.Printf("orderService.Publish: S3 upload failed for %s: %v", order.InvoiceNumber, err)
			return nil, domain.ErrUploadFailed
		}
		if err := s.orderRepo.SetPDFKey(ctx, order.ID, key); err != nil {
			return nil, fmt.Errorf("saving PDF key: %w", err)
		}
	}

	url, err := s.storage.SignedURL(ctx, key, s.s3Cfg.PresignTTL())
	if err != nil {
		return nil, fmt.Errorf("presigning invoice: %w", err)
	}

	out := &PublishedInvoice{InvoiceNumber: order.InvoiceNumber, URL: url}
	if order.CustomerEmail == "" || s.emailSender == nil {
		return out, nil
	}
	profile, _ := order.Firm.Profile()
	err = s.emailSender.SendInvoiceEmail(ctx, order.CustomerEmail, order.CustomerName, port.InvoiceEmail{
		FirmName:      profile.DisplayName,
		InvoiceNumber: order.InvoiceNumber,
		GrandTotal:    order.GrandTotal.StringFixed(2),
		CarryForward:  order.CarryForward.StringFixed(2),
		InvoiceURL:    url,
	})
	if err != nil {
		log.Printf("WARNING: failed to email invoice %s to %s: %v", order.InvoiceNumber, order.CustomerEmail, err)
		return out, nil
	}
	out.Emailed = true
	return out, nil
}
