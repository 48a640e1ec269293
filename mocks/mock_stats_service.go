package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tradebook/internal/domain"
)

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetSalesStats(ctx context.Context) (*domain.SalesStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesStats), args.Error(1)
}
