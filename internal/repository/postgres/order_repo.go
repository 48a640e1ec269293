package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tradebook/internal/domain"
	"tradebook/internal/port"
)

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

const nextInvoiceSeqQuery = `INSERT INTO invoice_sequences (firm, financial_year, last_number)
	VALUES ($1, $2, 1)
	ON CONFLICT (firm, financial_year) DO UPDATE SET last_number = invoice_sequences.last_number + 1
	RETURNING last_number`

// lockCustomerQuery creates the customer on first sight and otherwise
// refreshes their details. Either way the row stays locked until commit and
// the committed balance is returned.
const lockCustomerQuery = `INSERT INTO customers (id, phone, name, address, gstin, state, pending_balance, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $7)
	ON CONFLICT (phone) DO UPDATE SET
		name = EXCLUDED.name,
		address = COALESCE(NULLIF(EXCLUDED.address, ''), customers.address),
		gstin = COALESCE(NULLIF(EXCLUDED.gstin, ''), customers.gstin),
		state = COALESCE(NULLIF(EXCLUDED.state, ''), customers.state),
		updated_at = EXCLUDED.updated_at
	RETURNING id, pending_balance`

const insertOrderQuery = `INSERT INTO orders (
	id, firm, invoice_number, financial_year,
	customer_id, customer_name, customer_phone, customer_address, customer_gstin, customer_state, customer_email,
	consignee_id, consignee_name, consignee_address, consignee_gstin, consignee_pan, consignee_state,
	gross_amount, discount_percent, discount_amount, taxable_amount, with_gst, gst_rate,
	gst_amount, cgst, sgst, grand_total,
	previous_pending, old_pending_adjusted, amount_paid, credit_applied, carry_forward,
	pdf_key, created_by, created_at, updated_at)
VALUES (
	:id, :firm, :invoice_number, :financial_year,
	:customer_id, :customer_name, :customer_phone, :customer_address, :customer_gstin, :customer_state, :customer_email,
	:consignee_id, :consignee_name, :consignee_address, :consignee_gstin, :consignee_pan, :consignee_state,
	:gross_amount, :discount_percent, :discount_amount, :taxable_amount, :with_gst, :gst_rate,
	:gst_amount, :cgst, :sgst, :grand_total,
	:previous_pending, :old_pending_adjusted, :amount_paid, :credit_applied, :carry_forward,
	:pdf_key, :created_by, :created_at, :updated_at)`

const insertOrderItemQuery = `INSERT INTO order_items
	(id, order_id, position, product_id, name, hsn, price, quantity, discount_percent, line_total)
	VALUES (:id, :order_id, :position, :product_id, :name, :hsn, :price, :quantity, :discount_percent, :line_total)`

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	profile, err := order.Firm.Profile()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	order.ID = uuid.New()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.FinancialYear = domain.FinancialYear(now.In(domain.IST))

	var customer struct {
		ID             uuid.UUID       `db:"id"`
		PendingBalance decimal.Decimal `db:"pending_balance"`
	}
	err = tx.GetContext(ctx, &customer, lockCustomerQuery,
		uuid.New(), order.CustomerPhone, order.CustomerName, order.CustomerAddress,
		order.CustomerGSTIN, order.CustomerState, now)
	if err != nil {
		return fmt.Errorf("orderRepo.Create customer: %w", err)
	}
	if !order.BalanceStillHolds(customer.PendingBalance) {
		return domain.ErrBalanceChanged
	}
	order.CustomerID = customer.ID
	if _, err := tx.ExecContext(ctx,
		"UPDATE customers SET pending_balance = $1 WHERE id = $2",
		order.CarryForward, customer.ID); err != nil {
		return fmt.Errorf("orderRepo.Create balance: %w", err)
	}

	var seq int64
	if err := tx.GetContext(ctx, &seq, nextInvoiceSeqQuery, order.Firm, order.FinancialYear); err != nil {
		return fmt.Errorf("orderRepo.Create sequence: %w", err)
	}
	order.InvoiceNumber = domain.FormatInvoiceNumber(profile.InvoicePrefix, order.FinancialYear, seq)

	for _, item := range order.Items {
		result, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3 AND stock >= $1",
			item.Quantity, now, item.ProductID)
		if err != nil {
			return fmt.Errorf("orderRepo.Create stock: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, item.Name)
		}
	}


	if _, err := tx.NamedExecContext(ctx, insertOrderQuery, order); err != nil {
		return fmt.Errorf("orderRepo.Create insert: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.New()
		item.OrderID = order.ID
		item.Position = i + 1
		if _, err := tx.NamedExecContext(ctx, insertOrderItemQuery, item); err != nil {
			return fmt.Errorf("orderRepo.Create item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderRepo.Create commit: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.getOne(ctx, "GetByID", "SELECT * FROM orders WHERE id = $1", id)
}

func (r *orderRepo) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error) {
	return r.getOne(ctx, "GetByInvoiceNumber", "SELECT * FROM orders WHERE invoice_number = $1", invoiceNumber)
}

func (r *orderRepo) getOne(ctx context.Context, op, query string, arg interface{}) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.GetContext(ctx, &order, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.%s: %w", op, err)
	}
	orders := []domain.Order{order}
	if err := loadOrderItems(ctx, r.db, orders); err != nil {
		return nil, fmt.Errorf("orderRepo.%s items: %w", op, err)
	}
	return &orders[0], nil
}

const orderFilterWhere = `WHERE ($1 = '' OR firm = $1)
	AND ($2 = '' OR invoice_number ILIKE '%' || $2 || '%' OR customer_name ILIKE '%' || $2 || '%' OR customer_phone LIKE $2 || '%')
	AND ($3 = '' OR customer_phone = $3)`

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter, offset, limit int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders "+orderFilterWhere,
		string(filter.Firm), filter.Search, filter.Phone); err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List count: %w", err)
	}

	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders "+orderFilterWhere+" ORDER BY created_at DESC LIMIT $4 OFFSET $5",
		string(filter.Firm), filter.Search, filter.Phone, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders "+orderFilterWhere+" ORDER BY created_at",
		string(filter.Firm), filter.Search, filter.Phone)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListAll: %w", err)
	}
	if err := loadOrderItems(ctx, r.db, orders); err != nil {
		return nil, fmt.Errorf("orderRepo.ListAll items: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) RecordPayment(ctx context.Context, invoiceNumber string, amount decimal.Decimal, receivedBy uuid.UUID) (*domain.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.RecordPayment begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var order domain.Order
	err = tx.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE invoice_number = $1 FOR UPDATE", invoiceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.RecordPayment lookup: %w", err)
	}

	now := time.Now().UTC()
	order.AmountPaid = order.AmountPaid.Add(amount)
	order.CarryForward = order.CarryForward.Sub(amount)
	order.UpdatedAt = now

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET amount_paid = $1, carry_forward = $2, updated_at = $3 WHERE id = $4",
		order.AmountPaid, order.CarryForward, now, order.ID); err != nil {
		return nil, fmt.Errorf("orderRepo.RecordPayment order: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE customers SET pending_balance = pending_balance - $1, updated_at = $2 WHERE id = $3",
		amount, now, order.CustomerID); err != nil {
		return nil, fmt.Errorf("orderRepo.RecordPayment customer: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO payments (id, order_id, amount, received_by, created_at) VALUES ($1, $2, $3, $4, $5)",
		uuid.New(), order.ID, amount, receivedBy, now); err != nil {
		return nil, fmt.Errorf("orderRepo.RecordPayment insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("orderRepo.RecordPayment commit: %w", err)
	}

	orders := []domain.Order{order}
	if err := loadOrderItems(ctx, r.db, orders); err != nil {
		return nil, fmt.Errorf("orderRepo.RecordPayment items: %w", err)
	}
	return &orders[0], nil
}

func (r *orderRepo) ListPayments(ctx context.Context, orderID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at", orderID)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListPayments: %w", err)
	}
	return payments, nil
}

func (r *orderRepo) SetPDFKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE orders SET pdf_key = $1, updated_at = NOW() WHERE id = $2", key, id)
	if err != nil {
		return fmt.Errorf("orderRepo.SetPDFKey: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderRepo.Delete begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var order domain.Order
	if err := tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("orderRepo.Delete lookup: %w", err)
	}

	var items []domain.OrderItem
	if err := tx.SelectContext(ctx, &items, "SELECT * FROM order_items WHERE order_id = $1", id); err != nil {
		return fmt.Errorf("orderRepo.Delete items: %w", err)
	}
	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2",
			item.Quantity, item.ProductID); err != nil {
			return fmt.Errorf("orderRepo.Delete restock: %w", err)
		}
	}

	// The order moved the balance from previous pending (less any credit it
	// consumed) to its carry-forward; undo exactly that delta.
	delta := order.CarryForward.Sub(order.PreviousPending).Add(order.CreditApplied)
	if _, err := tx.ExecContext(ctx,
		"UPDATE customers SET pending_balance = pending_balance - $1, updated_at = NOW() WHERE id = $2",
		delta, order.CustomerID); err != nil {
		return fmt.Errorf("orderRepo.Delete customer: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id); err != nil {
		return fmt.Errorf("orderRepo.Delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderRepo.Delete commit: %w", err)
	}
	return nil
}

// loadOrderItems fills Items on each order with one query.
func loadOrderItems(ctx context.Context, db *sqlx.DB, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
	}

	query, args, err := sqlx.In("SELECT * FROM order_items WHERE order_id IN (?) ORDER BY order_id, position", ids)
	if err != nil {
		return err
	}
	var items []domain.OrderItem
	if err := db.SelectContext(ctx, &items, db.Rebind(query), args...); err != nil {
		return err
	}
	for _, item := range items {
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return nil
}
