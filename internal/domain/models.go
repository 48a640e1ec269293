package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is an operator of the back office.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Product is a catalog entry with its current stock.
type Product struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	HSN       string          `db:"hsn" json:"hsn"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Stock     int             `db:"stock" json:"stock"`
	ImageKey  string          `db:"image_key" json:"-"`
	ImageURL  string          `db:"-" json:"image_url,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Customer is a billed party, identified by phone number. PendingBalance is
// what they currently owe; negative means they hold a credit.
type Customer struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Phone          string          `db:"phone" json:"phone"`
	Name           string          `db:"name" json:"name"`
	Address        string          `db:"address" json:"address"`
	GSTIN          string          `db:"gstin" json:"gstin"`
	State          string          `db:"state" json:"state"`
	PendingBalance decimal.Decimal `db:"pending_balance" json:"pending_balance"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Consignee is the ship-to party printed on a GST invoice.
type Consignee struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	GSTIN     string    `db:"gstin" json:"gstin"`
	PAN       string    `db:"pan" json:"pan"`
	State     string    `db:"state" json:"state"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Order is a sales invoice issued by one of the firms. All monetary fields
// are stored rounded to paise.
type Order struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Firm          Firm      `db:"firm" json:"firm"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	FinancialYear string    `db:"financial_year" json:"financial_year"`

	CustomerID      uuid.UUID `db:"customer_id" json:"customer_id"`
	CustomerName    string    `db:"customer_name" json:"customer_name"`
	CustomerPhone   string    `db:"customer_phone" json:"customer_phone"`
	CustomerAddress string    `db:"customer_address" json:"customer_address"`
	CustomerGSTIN   string    `db:"customer_gstin" json:"customer_gstin"`
	CustomerState   string    `db:"customer_state" json:"customer_state"`
	CustomerEmail   string    `db:"customer_email" json:"customer_email,omitempty"`

	ConsigneeID      *uuid.UUID `db:"consignee_id" json:"consignee_id,omitempty"`
	ConsigneeName    string     `db:"consignee_name" json:"consignee_name"`
	ConsigneeAddress string     `db:"consignee_address" json:"consignee_address"`
	ConsigneeGSTIN   string     `db:"consignee_gstin" json:"consignee_gstin"`
	ConsigneePAN     string     `db:"consignee_pan" json:"consignee_pan"`
	ConsigneeState   string     `db:"consignee_state" json:"consignee_state"`

	GrossAmount     decimal.Decimal `db:"gross_amount" json:"gross_amount"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxableAmount   decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	WithGST         bool            `db:"with_gst" json:"with_gst"`
	GSTRate         int             `db:"gst_rate" json:"gst_rate"`
	GSTAmount       decimal.Decimal `db:"gst_amount" json:"gst_amount"`
	CGST            decimal.Decimal `db:"cgst" json:"cgst"`
	SGST            decimal.Decimal `db:"sgst" json:"sgst"`
	GrandTotal      decimal.Decimal `db:"grand_total" json:"grand_total"`

	PreviousPending    decimal.Decimal `db:"previous_pending" json:"previous_pending"`
	OldPendingAdjusted decimal.Decimal `db:"old_pending_adjusted" json:"old_pending_adjusted"`
	AmountPaid         decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	// CreditApplied is an earlier overpayment consumed by this invoice.
	CreditApplied decimal.Decimal `db:"credit_applied" json:"credit_applied"`
	CarryForward  decimal.Decimal `db:"carry_forward" json:"carry_forward"`

	// ExpectedBalance is the stored customer balance the figures above were
	// derived from. Nil when the operator entered previous pending by hand.
	ExpectedBalance *decimal.Decimal `db:"-" json:"-"`

	PDFKey    string    `db:"pdf_key" json:"-"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// BalanceStillHolds reports whether the customer balance found at save time
// is the one the invoice was computed from.
func (o *Order) BalanceStillHolds(current decimal.Decimal) bool {
	return o.ExpectedBalance == nil || o.ExpectedBalance.Equal(current)
}

// IsPaid reports whether nothing is outstanding on the invoice.
func (o *Order) IsPaid() bool {
	return o.CarryForward.IsZero()
}

// OrderItem is one billed row of an Order.
type OrderItem struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	OrderID         uuid.UUID       `db:"order_id" json:"order_id"`
	Position        int             `db:"position" json:"position"`
	ProductID       uuid.UUID       `db:"product_id" json:"product_id"`
	Name            string          `db:"name" json:"name"`
	HSN             string          `db:"hsn" json:"hsn"`
	Price           decimal.Decimal `db:"price" json:"price"`
	Quantity        int             `db:"quantity" json:"quantity"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	LineTotal       decimal.Decimal `db:"line_total" json:"line_total"`
}

// Payment is money received against an existing Order.
type Payment struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	OrderID    uuid.UUID       `db:"order_id" json:"order_id"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	ReceivedBy uuid.UUID       `db:"received_by" json:"received_by"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// PurchaseInvoice is a supplier bill that adds stock.
type PurchaseInvoice struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Supplier      string          `db:"supplier" json:"supplier"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   time.Time       `db:"invoice_date" json:"invoice_date"`
	GSTType       GSTType         `db:"gst_type" json:"gst_type"`
	GSTRate       int             `db:"gst_rate" json:"gst_rate"`
	GrossAmount   decimal.Decimal `db:"gross_amount" json:"gross_amount"`
	GSTAmount     decimal.Decimal `db:"gst_amount" json:"gst_amount"`
	CGST          decimal.Decimal `db:"cgst" json:"cgst"`
	SGST          decimal.Decimal `db:"sgst" json:"sgst"`
	GrandTotal    decimal.Decimal `db:"grand_total" json:"grand_total"`
	CreatedBy     uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`

	Items []PurchaseItem `db:"-" json:"items,omitempty"`
}

// PurchaseItem is one received row of a PurchaseInvoice.
type PurchaseItem struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	PurchaseInvoiceID uuid.UUID       `db:"purchase_invoice_id" json:"purchase_invoice_id"`
	ProductID         uuid.UUID       `db:"product_id" json:"product_id"`
	ProductName       string          `db:"product_name" json:"product_name"`
	Quantity          int             `db:"quantity" json:"quantity"`
	Price             decimal.Decimal `db:"price" json:"price"`
	Remark            string          `db:"remark" json:"remark"`
	LineTotal         decimal.Decimal `db:"line_total" json:"line_total"`
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Firm   Firm
	Search string
	Phone  string
}

// CustomerLedger is a customer with every invoice billed to them.
type CustomerLedger struct {
	Customer Customer `json:"customer"`
	Orders   []Order  `json:"orders"`
}

// SalesStats is the dashboard summary.
type SalesStats struct {
	TodaySale        decimal.Decimal `db:"today_sale" json:"today_sale"`
	YesterdaySale    decimal.Decimal `db:"yesterday_sale" json:"yesterday_sale"`
	TotalSales       decimal.Decimal `db:"total_sales" json:"total_sales"`
	TotalOutstanding decimal.Decimal `db:"total_outstanding" json:"total_outstanding"`
	TotalCustomers   int             `db:"total_customers" json:"total_customers"`
	TotalOrders      int             `db:"total_orders" json:"total_orders"`
	Monthly          []MonthlySale   `db:"-" json:"monthly"`
}

// MonthlySale is one point of the monthly sales series.
type MonthlySale struct {
	Month  string          `db:"month" json:"month"`
	Total  decimal.Decimal `db:"total" json:"total"`
	Orders int             `db:"orders" json:"orders"`
}
