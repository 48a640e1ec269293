package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradebook/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Search   string
	Category string
}

// ProductRepository defines the contract for catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// GetByIDs returns the products found; missing ids are simply absent.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	List(ctx context.Context, filter ProductFilter, offset, limit int) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	// Upsert creates a product or, when one with the same name exists,
	// replaces its price, category and HSN and adds stock.
	Upsert(ctx context.Context, product *domain.Product) (created bool, err error)
	SetImageKey(ctx context.Context, id uuid.UUID, key string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]string, error)
}

// CustomerRepository defines the contract for customer lookups. Customers
// are written by OrderRepository as part of creating an order.
type CustomerRepository interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	List(ctx context.Context, search string, offset, limit int) ([]domain.Customer, int, error)
}

// ConsigneeRepository defines the contract for consignee persistence.
type ConsigneeRepository interface {
	Create(ctx context.Context, c *domain.Consignee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Consignee, error)
	List(ctx context.Context) ([]domain.Consignee, error)
	Update(ctx context.Context, c *domain.Consignee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the contract for sales invoice persistence.
type OrderRepository interface {
	// Create assigns the next invoice number for the order's firm and
	// financial year, takes the items out of stock, upserts the customer
	// with the order's carry-forward as their pending balance, and stores
	// the order with its items. All of it happens in one transaction.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error)
	// ListAll returns every matching order, items included, for export.
	ListAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// RecordPayment adds amount to the order's amount paid and takes it off
	// both the order's carry-forward and the customer's pending balance.
	RecordPayment(ctx context.Context, invoiceNumber string, amount decimal.Decimal, receivedBy uuid.UUID) (*domain.Order, error)
	ListPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error)
	SetPDFKey(ctx context.Context, id uuid.UUID, key string) error
	// Delete removes the order, returns its items to stock and reverses its
	// effect on the customer's pending balance.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseInvoiceRepository defines the contract for supplier bill persistence.
type PurchaseInvoiceRepository interface {
	// Create stores the bill and adds its quantities to stock in one transaction.
	Create(ctx context.Context, inv *domain.PurchaseInvoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseInvoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.PurchaseInvoice, int, error)
	// Delete removes the bill and takes its quantities back out of stock.
	Delete(ctx context.Context, id uuid.UUID) error
}
