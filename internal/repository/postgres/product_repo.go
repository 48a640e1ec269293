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

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO products (id, name, category, hsn, price, stock, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Category, p.HSN, p.Price, p.Stock, p.ImageKey, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateProduct
		}
		return fmt.Errorf("productRepo.Create: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, "SELECT * FROM products WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("productRepo.GetByIDs build: %w", err)
	}
	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("productRepo.GetByIDs: %w", err)
	}
	return products, nil
}

func (r *productRepo) List(ctx context.Context, filter port.ProductFilter, offset, limit int) ([]domain.Product, int, error) {
	where := "WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') AND ($2 = '' OR category = $2)"

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM products "+where, filter.Search, filter.Category); err != nil {
		return nil, 0, fmt.Errorf("productRepo.List count: %w", err)
	}

	var products []domain.Product
	err := r.db.SelectContext(ctx, &products,
		"SELECT * FROM products "+where+" ORDER BY name LIMIT $3 OFFSET $4",
		filter.Search, filter.Category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("productRepo.List: %w", err)
	}
	return products, total, nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	query := `UPDATE products SET name = $1, category = $2, hsn = $3, price = $4, stock = $5, updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Category, p.HSN, p.Price, p.Stock, p.UpdatedAt, p.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateProduct
		}
		return fmt.Errorf("productRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) Upsert(ctx context.Context, p *domain.Product) (bool, error) {
	now := time.Now().UTC()
	id := uuid.New()

	// xmax is zero only for a freshly inserted row.
	var row struct {
		ID        uuid.UUID `db:"id"`
		Stock     int       `db:"stock"`
		CreatedAt time.Time `db:"created_at"`
		Inserted  bool      `db:"inserted"`
	}
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO products (id, name, category, hsn, price, stock, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '', $7, $7)
		ON CONFLICT (LOWER(name)) DO UPDATE SET
			category = EXCLUDED.category,
			hsn = EXCLUDED.hsn,
			price = EXCLUDED.price,
			stock = products.stock + EXCLUDED.stock,
			updated_at = EXCLUDED.updated_at
		RETURNING id, stock, created_at, (xmax = 0) AS inserted`,
		id, p.Name, p.Category, p.HSN, p.Price, p.Stock, now)
	if err != nil {
		return false, fmt.Errorf("productRepo.Upsert: %w", err)
	}
	p.ID = row.ID
	p.Stock = row.Stock
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = now
	return row.Inserted, nil
}

func (r *productRepo) SetImageKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE products SET image_key = $1, updated_at = NOW() WHERE id = $2", key, id)
	if err != nil {
		return fmt.Errorf("productRepo.SetImageKey: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			return domain.ErrProductInUse
		}
		return fmt.Errorf("productRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.SelectContext(ctx, &categories,
		"SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("productRepo.ListCategories: %w", err)
	}
	return categories, nil
}
