package billing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebook/internal/billing"
)

func fields(err error) []string {
	var ve *billing.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]string, 0, len(ve.Issues))
	for _, is := range ve.Issues {
		out = append(out, is.Field)
	}
	return out
}

func TestCalculate_FullInvoice(t *testing.T) {
	res, err := billing.Calculate(billing.Draft{
		Items: []billing.LineItem{item("500", 2, "0")},
		Policy: billing.Policy{
			InvoiceDiscountPercent: d("10"),
			GSTEnabled:             true,
			GSTRatePercent:         18,
		},
		Balance: billing.Balance{
			PreviousPending:    d("500"),
			OldPendingAdjusted: d("200"),
			AmountPaid:         d("300"),
		},
	})

	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assertDec(t, "1000", res.Lines[0].LineTotal, "lineTotal")
	assertDec(t, "1062", res.Totals.GrandTotal, "grand")
	assertDec(t, "1062", res.CarryForward, "carryForward")
	assert.False(t, res.IsCredit())
	assert.False(t, res.IsSettled())
}

func TestCalculate_CreditBalance(t *testing.T) {
	res, err := billing.Calculate(billing.Draft{
		Items:   []billing.LineItem{item("500", 2, "0")},
		Policy:  billing.Policy{InvoiceDiscountPercent: d("10"), GSTEnabled: true, GSTRatePercent: 18},
		Balance: billing.Balance{AmountPaid: d("2000")},
	})

	require.NoError(t, err)
	assertDec(t, "-938", res.CarryForward, "carryForward")
	assert.True(t, res.IsCredit())
}

func TestCalculate_DropsBlankRows(t *testing.T) {
	res, err := billing.Calculate(billing.Draft{
		Items: []billing.LineItem{
			item("100", 3, "10"),
			{Name: "  "},
			item("50", 1, "0"),
			{},
		},
	})

	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)
	assertDec(t, "320", res.Totals.GrossAmount, "gross")
}

func TestCalculate_EmptyDraft(t *testing.T) {
	res, err := billing.Calculate(billing.Draft{})

	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.True(t, res.Totals.IsZero())
	assert.True(t, res.IsSettled())
}

func TestCalculate_NamedRowWithoutProduct(t *testing.T) {
	_, err := billing.Calculate(billing.Draft{
		Items: []billing.LineItem{
			item("100", 1, "0"),
			{Name: "Typed but not picked", Price: d("10"), Quantity: 1},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, billing.ErrUnknownProduct)
	assert.Equal(t, []string{"items[1].product_id"}, fields(err))
}

func TestCalculate_CollectsAllIssues(t *testing.T) {
	_, err := billing.Calculate(billing.Draft{
		Items: []billing.LineItem{
			{ProductID: "p-1", Name: "A", Price: d("-1"), Quantity: 0, DiscountPercent: d("101")},
		},
		Policy:  billing.Policy{InvoiceDiscountPercent: d("-5"), GSTEnabled: true, GSTRatePercent: 15},
		Balance: billing.Balance{PreviousPending: d("-1"), AmountPaid: d("-2")},
	})

	require.Error(t, err)
	assert.Equal(t, []string{
		"items[0].quantity",
		"items[0].price",
		"items[0].discount_percent",
		"invoice_discount_percent",
		"gst_rate_percent",
		"previous_pending",
		"amount_paid",
	}, fields(err))
	assert.ErrorIs(t, err, billing.ErrInvalidQuantity)
	assert.ErrorIs(t, err, billing.ErrNegativePrice)
	assert.ErrorIs(t, err, billing.ErrPercentOutOfRange)
	assert.ErrorIs(t, err, billing.ErrUnsupportedGSTRate)
	assert.ErrorIs(t, err, billing.ErrNegativeAmount)
}

func TestValidatePolicy_RateIgnoredWhenGSTDisabled(t *testing.T) {
	assert.NoError(t, billing.ValidatePolicy(billing.Policy{GSTEnabled: false, GSTRatePercent: 7}))
	assert.ErrorIs(t, billing.ValidatePolicy(billing.Policy{GSTEnabled: true, GSTRatePercent: 7}), billing.ErrUnsupportedGSTRate)
	assert.ErrorIs(t, billing.ValidatePolicy(billing.Policy{GSTEnabled: true}), billing.ErrUnsupportedGSTRate)
}

func TestValidateLineItem(t *testing.T) {
	assert.NoError(t, billing.ValidateLineItem(0, item("0", 1, "100")))

	err := billing.ValidateLineItem(2, item("10", -1, "0"))
	require.Error(t, err)
	assert.Equal(t, []string{"items[2].quantity"}, fields(err))

	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "INVALID_QUANTITY", ve.Issues[0].Code)
	assert.Contains(t, err.Error(), "items[2].quantity")
}

func TestValidatePayment(t *testing.T) {
	assert.NoError(t, billing.ValidatePayment(d("0.01")))
	assert.ErrorIs(t, billing.ValidatePayment(decimal.Zero), billing.ErrNonPositivePayment)
	assert.ErrorIs(t, billing.ValidatePayment(d("-10")), billing.ErrNonPositivePayment)
}

func TestResult_Rounded(t *testing.T) {
	res, err := billing.Calculate(billing.Draft{
		Items:   []billing.LineItem{item("33.33", 3, "0")},
		Policy:  billing.Policy{GSTEnabled: true, GSTRatePercent: 5},
		Balance: billing.Balance{PreviousPending: d("0.004"), AmountPaid: d("100")},
	})
	require.NoError(t, err)

	r := res.Rounded()

	assertDec(t, "99.99", r.Lines[0].LineTotal, "lineTotal")
	assertDec(t, "104.99", r.Totals.GrandTotal, "grand")
	assertDec(t, "0", r.Balance.PreviousPending, "previousPending")
	assertDec(t, "4.99", r.CarryForward, "carryForward")
}

func TestCheckPrecision_RejectsSubPaisaInputs(t *testing.T) {
	draft := billing.Draft{
		Items: []billing.LineItem{
			item("99.99", 7, "33.333"),
			{},
			item("10.005", 1, "0"),
		},
		Policy:  billing.Policy{InvoiceDiscountPercent: d("2.5"), GSTEnabled: true, GSTRatePercent: 5},
		Balance: billing.Balance{PreviousPending: d("0.001"), AmountPaid: d("100")},
	}

	err := billing.CheckPrecision(draft)

	require.Error(t, err)
	assert.ErrorIs(t, err, billing.ErrTooPrecise)
	assert.Equal(t, []string{
		"items[0].discount_percent",
		"items[2].price",
		"previous_pending",
	}, fields(err))
	var ve *billing.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "TOO_PRECISE", ve.Issues[0].Code)
}

func TestCheckPrecision_StoredInputsReproduceStoredTotals(t *testing.T) {
	draft := billing.Draft{
		Items:  []billing.LineItem{item("99.99", 7, "33.33")},
		Policy: billing.Policy{InvoiceDiscountPercent: d("3.75"), GSTEnabled: true, GSTRatePercent: 12},
	}
	require.NoError(t, billing.CheckPrecision(draft))

	res, err := billing.Calculate(draft)
	require.NoError(t, err)
	stored := res.Rounded()

	reloaded := billing.LineItem{
		ProductID:       "p-1",
		Price:           stored.Lines[0].Price.Round(billing.StoredScale),
		Quantity:        stored.Lines[0].Quantity,
		DiscountPercent: stored.Lines[0].DiscountPercent.Round(billing.StoredScale),
	}
	again := billing.ComputeInvoiceTotals([]billing.LineItem{reloaded},
		stored.Totals.InvoiceDiscountPercent.Round(billing.StoredScale), true, 12).Rounded()

	assertDec(t, stored.Lines[0].LineTotal.String(), billing.ComputeLineTotal(reloaded).Round(2), "lineTotal")
	assertDec(t, stored.Totals.GrandTotal.String(), again.GrandTotal, "grand")
}
