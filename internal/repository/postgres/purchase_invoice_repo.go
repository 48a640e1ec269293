package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradebook/internal/domain"
	"tradebook/internal/port"
)

type purchaseInvoiceRepo struct {
	db *sqlx.DB
}

// NewPurchaseInvoiceRepo creates a new PostgreSQL-backed PurchaseInvoiceRepository.
func NewPurchaseInvoiceRepo(db *sqlx.DB) port.PurchaseInvoiceRepository {
	return &purchaseInvoiceRepo{db: db}
}

const insertPurchaseInvoiceQuery = `INSERT INTO purchase_invoices
	(id, supplier, invoice_number, invoice_date, gst_type, gst_rate,
	 gross_amount, gst_amount, cgst, sgst, grand_total, created_by, created_at)
	VALUES (:id, :supplier, :invoice_number, :invoice_date, :gst_type, :gst_rate,
	 :gross_amount, :gst_amount, :cgst, :sgst, :grand_total, :created_by, :created_at)`

const insertPurchaseItemQuery = `INSERT INTO purchase_items
	(id, purchase_invoice_id, product_id, product_name, quantity, price, remark, line_total)
	VALUES (:id, :purchase_invoice_id, :product_id, :product_name, :quantity, :price, :remark, :line_total)`

func (r *purchaseInvoiceRepo) Create(ctx context.Context, inv *domain.PurchaseInvoice) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("purchaseInvoiceRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inv.ID = uuid.New()
	inv.CreatedAt = time.Now().UTC()

	if _, err := tx.NamedExecContext(ctx, insertPurchaseInvoiceQuery, inv); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicatePurchaseBill
		}
		return fmt.Errorf("purchaseInvoiceRepo.Create insert: %w", err)
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		item.ID = uuid.New()
		item.PurchaseInvoiceID = inv.ID
		if _, err := tx.NamedExecContext(ctx, insertPurchaseItemQuery, item); err != nil {
			if strings.Contains(err.Error(), "foreign key") {
				return fmt.Errorf("%w: product %s", domain.ErrNotFound, item.ProductID)
			}
			return fmt.Errorf("purchaseInvoiceRepo.Create item: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3",
			item.Quantity, inv.CreatedAt, item.ProductID); err != nil {
			return fmt.Errorf("purchaseInvoiceRepo.Create stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("purchaseInvoiceRepo.Create commit: %w", err)
	}
	return nil
}

func (r *purchaseInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseInvoice, error) {
	var inv domain.PurchaseInvoice
	if err := r.db.GetContext(ctx, &inv, "SELECT * FROM purchase_invoices WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("purchaseInvoiceRepo.GetByID: %w", err)
	}
	if err := r.db.SelectContext(ctx, &inv.Items,
		"SELECT * FROM purchase_items WHERE purchase_invoice_id = $1 ORDER BY product_name", id); err != nil {
		return nil, fmt.Errorf("purchaseInvoiceRepo.GetByID items: %w", err)
	}
	return &inv, nil
}

func (r *purchaseInvoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.PurchaseInvoice, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM purchase_invoices"); err != nil {
		return nil, 0, fmt.Errorf("purchaseInvoiceRepo.List count: %w", err)
	}

	var invoices []domain.PurchaseInvoice
	err := r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM purchase_invoices ORDER BY invoice_date DESC, created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("purchaseInvoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *purchaseInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("purchaseInvoiceRepo.Delete begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var items []domain.PurchaseItem
	if err := tx.SelectContext(ctx, &items,
		"SELECT * FROM purchase_items WHERE purchase_invoice_id = $1", id); err != nil {
		return fmt.Errorf("purchaseInvoiceRepo.Delete items: %w", err)
	}
	for _, item := range items {
		result, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1",
			item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("purchaseInvoiceRepo.Delete stock: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, item.ProductName)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM purchase_invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("purchaseInvoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("purchaseInvoiceRepo.Delete commit: %w", err)
	}
	return nil
}
