package port

import (
	"context"
	"time"

	"tradebook/internal/domain"
)

// StatsRepository provides aggregate sales queries.
type StatsRepository interface {
	// GetSalesStats summarises sales as of now, with a monthly series
	// covering the last months calendar months.
	GetSalesStats(ctx context.Context, now time.Time, months int) (*domain.SalesStats, error)
}
