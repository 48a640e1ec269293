package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tradebook/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetSalesStats(ctx context.Context, now time.Time, months int) (*domain.SalesStats, error) {
	args := m.Called(ctx, now, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesStats), args.Error(1)
}
