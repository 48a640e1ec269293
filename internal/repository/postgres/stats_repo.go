package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"tradebook/internal/domain"
	"tradebook/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

// Day boundaries are passed in so "today" follows the business's zone.
const salesStatsQuery = `SELECT
	COALESCE(SUM(CASE WHEN created_at >= $1 THEN grand_total END), 0) AS today_sale,
	COALESCE(SUM(CASE WHEN created_at >= $2 AND created_at < $1 THEN grand_total END), 0) AS yesterday_sale,
	COALESCE(SUM(grand_total), 0) AS total_sales,
	COUNT(*) AS total_orders
FROM orders`

const customerStatsQuery = `SELECT
	COALESCE(SUM(pending_balance) FILTER (WHERE pending_balance > 0), 0) AS total_outstanding,
	COUNT(*) AS total_customers
FROM customers`

const monthlySalesQuery = `SELECT
	TO_CHAR(created_at AT TIME ZONE 'Asia/Kolkata', 'YYYY-MM') AS month,
	SUM(grand_total) AS total,
	COUNT(*) AS orders
FROM orders
WHERE created_at >= $1
GROUP BY 1
ORDER BY 1`

func (r *statsRepo) GetSalesStats(ctx context.Context, now time.Time, months int) (*domain.SalesStats, error) {
	local := now.In(domain.IST)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, domain.IST)
	yesterday := today.AddDate(0, 0, -1)

	var stats domain.SalesStats
	var sales struct {
		TodaySale     decimal.Decimal `db:"today_sale"`
		YesterdaySale decimal.Decimal `db:"yesterday_sale"`
		TotalSales    decimal.Decimal `db:"total_sales"`
		TotalOrders   int             `db:"total_orders"`
	}
	if err := r.db.GetContext(ctx, &sales, salesStatsQuery, today.UTC(), yesterday.UTC()); err != nil {
		return nil, fmt.Errorf("statsRepo.GetSalesStats sales: %w", err)
	}
	stats.TodaySale = sales.TodaySale
	stats.YesterdaySale = sales.YesterdaySale
	stats.TotalSales = sales.TotalSales
	stats.TotalOrders = sales.TotalOrders

	var customers struct {
		TotalOutstanding decimal.Decimal `db:"total_outstanding"`
		TotalCustomers   int             `db:"total_customers"`
	}
	if err := r.db.GetContext(ctx, &customers, customerStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetSalesStats customers: %w", err)
	}
	stats.TotalOutstanding = customers.TotalOutstanding
	stats.TotalCustomers = customers.TotalCustomers

	if months <= 0 {
		return &stats, nil
	}
	firstMonth := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, domain.IST).AddDate(0, -(months - 1), 0)
	var rows []domain.MonthlySale
	if err := r.db.SelectContext(ctx, &rows, monthlySalesQuery, firstMonth.UTC()); err != nil {
		return nil, fmt.Errorf("statsRepo.GetSalesStats monthly: %w", err)
	}
	stats.Monthly = FillMonths(firstMonth, months, rows)
	return &stats, nil
}

// FillMonths returns one entry per month starting at first, taking totals
// from rows and zero for months with no sales.
func FillMonths(first time.Time, months int, rows []domain.MonthlySale) []domain.MonthlySale {
	byMonth := make(map[string]domain.MonthlySale, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}
	series := make([]domain.MonthlySale, 0, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		if row, ok := byMonth[key]; ok {
			series = append(series, row)
			continue
		}
		series = append(series, domain.MonthlySale{Month: key, Total: decimal.Zero})
	}
	return series
}
