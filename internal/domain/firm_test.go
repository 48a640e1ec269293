package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/domain"
)

func TestParseFirm(t *testing.T) {
	for _, name := range []string{"devjyoti", "himanshi", "shreesai"} {
		f, err := domain.ParseFirm(name)
		require.NoError(t, err)
		assert.Equal(t, domain.Firm(name), f)
	}

	_, err := domain.ParseFirm("acme")
	assert.ErrorIs(t, err, domain.ErrUnknownFirm)
}

func TestFirmProfile(t *testing.T) {
	p, err := domain.FirmDevJyoti.Profile()
	require.NoError(t, err)
	assert.Equal(t, "DJT", p.InvoicePrefix)
	assert.Equal(t, "06BSSPJ8369N1ZN", p.GSTIN)

	_, err = domain.Firm("nope").Profile()
	assert.ErrorIs(t, err, domain.ErrUnknownFirm)

	assert.Len(t, domain.Firms(), 3)
}

func TestFinancialYear(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), "2025-26"},
		{time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC), "2025-26"},
		{time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), "2025-26"},
		{time.Date(2099, time.December, 1, 0, 0, 0, 0, time.UTC), "2099-00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.FinancialYear(tt.at), tt.at.String())
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "DJT/2025-26/0007", domain.FormatInvoiceNumber("DJT", "2025-26", 7))
	assert.Equal(t, "HT/2025-26/12345", domain.FormatInvoiceNumber("HT", "2025-26", 12345))
}

func TestOrder_IsPaid(t *testing.T) {
	o := domain.Order{}
	assert.True(t, o.IsPaid())
}
