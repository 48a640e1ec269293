package service

import (
	"context"
	"time"

	"tradebook/internal/domain"
	"tradebook/internal/port"
)

// statsMonths is the length of the dashboard's monthly series.
const statsMonths = 12

// StatsService provides the sales dashboard figures.
type StatsService interface {
	GetSalesStats(ctx context.Context) (*domain.SalesStats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
	now       func() time.Time
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo, now: time.Now}
}

func (s *statsService) GetSalesStats(ctx context.Context) (*domain.SalesStats, error) {
	return s.statsRepo.GetSalesStats(ctx, s.now(), statsMonths)
}
