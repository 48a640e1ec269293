package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradebook/internal/domain"
	"tradebook/internal/service"
	"tradebook/mocks"
)

func TestStatsService_GetSalesStats(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)

	want := &domain.SalesStats{TodaySale: decimal.NewFromInt(1200), TotalOrders: 4}
	repo.On("GetSalesStats", mock.Anything, mock.AnythingOfType("time.Time"), 12).Return(want, nil)

	got, err := svc.GetSalesStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestStatsService_GetSalesStats_UsesCurrentTime(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)

	before := time.Now()
	repo.On("GetSalesStats", mock.Anything, mock.MatchedBy(func(now time.Time) bool {
		return !now.Before(before) && time.Since(now) < time.Minute
	}), 12).Return(nil, errors.New("db down"))

	_, err := svc.GetSalesStats(context.Background())
	assert.EqualError(t, err, "db down")
}
