package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradebook/internal/domain"
	"tradebook/internal/port"
)

type consigneeRepo struct {
	db *sqlx.DB
}

// NewConsigneeRepo creates a new PostgreSQL-backed ConsigneeRepository.
func NewConsigneeRepo(db *sqlx.DB) port.ConsigneeRepository {
	return &consigneeRepo{db: db}
}

func (r *consigneeRepo) Create(ctx context.Context, c *domain.Consignee) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO consignees (id, name, address, gstin, pan, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Address, c.GSTIN, c.PAN, c.State, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("consigneeRepo.Create: %w", err)
	}
	return nil
}

func (r *consigneeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Consignee, error) {
	var c domain.Consignee
	err := r.db.GetContext(ctx, &c, "SELECT * FROM consignees WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("consigneeRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *consigneeRepo) List(ctx context.Context) ([]domain.Consignee, error) {
	var consignees []domain.Consignee
	if err := r.db.SelectContext(ctx, &consignees, "SELECT * FROM consignees ORDER BY name"); err != nil {
		return nil, fmt.Errorf("consigneeRepo.List: %w", err)
	}
	return consignees, nil
}

func (r *consigneeRepo) Update(ctx context.Context, c *domain.Consignee) error {
	c.UpdatedAt = time.Now().UTC()
	query := `UPDATE consignees SET name = $1, address = $2, gstin = $3, pan = $4, state = $5, updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.Address, c.GSTIN, c.PAN, c.State, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("consigneeRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *consigneeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM consignees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("consigneeRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
