package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tradebook/internal/domain"
	"tradebook/internal/port"
)

type customerRepo struct {
	db *sqlx.DB
}

// NewCustomerRepo creates a new PostgreSQL-backed CustomerRepository.
func NewCustomerRepo(db *sqlx.DB) port.CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.GetContext(ctx, &c, "SELECT * FROM customers WHERE phone = $1", phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("customerRepo.GetByPhone: %w", err)
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context, search string, offset, limit int) ([]domain.Customer, int, error) {
	where := "WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR phone LIKE $1 || '%')"

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM customers "+where, search); err != nil {
		return nil, 0, fmt.Errorf("customerRepo.List count: %w", err)
	}

	var customers []domain.Customer
	err := r.db.SelectContext(ctx, &customers,
		"SELECT * FROM customers "+where+" ORDER BY name LIMIT $2 OFFSET $3", search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("customerRepo.List: %w", err)
	}
	return customers, total, nil
}
