// Package billing computes sales and purchase invoice figures: line totals,
// invoice discount, the CGST/SGST split, grand total and the customer's
// carry-forward balance. Every function here is pure; inputs are checked by
// the Validate* functions before they reach the arithmetic.
package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// AllowedGSTRates lists the GST percentages an invoice may be billed at.
var AllowedGSTRates = []int{5, 9, 12, 18, 28}

// IsAllowedGSTRate reports whether rate is one of AllowedGSTRates.
func IsAllowedGSTRate(rate int) bool {
	for _, r := range AllowedGSTRates {
		if r == rate {
			return true
		}
	}
	return false
}

// LineItem is one billed row of an invoice.
type LineItem struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	HSN             string          `json:"hsn"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// Totals holds every derived figure of an invoice. Values are kept at full
// precision; call Rounded for the printable form.
type Totals struct {
	GrossAmount            decimal.Decimal `json:"gross_amount"`
	InvoiceDiscountPercent decimal.Decimal `json:"invoice_discount_percent"`
	DiscountAmount         decimal.Decimal `json:"discount_amount"`
	TaxableAmount          decimal.Decimal `json:"taxable_amount"`
	GSTEnabled             bool            `json:"gst_enabled"`
	GSTRatePercent         int             `json:"gst_rate_percent"`
	GSTAmount              decimal.Decimal `json:"gst_amount"`
	CGST                   decimal.Decimal `json:"cgst"`
	SGST                   decimal.Decimal `json:"sgst"`
	GrandTotal             decimal.Decimal `json:"grand_total"`
}

// percentOf returns v * pct / 100 without going through division.
func percentOf(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Shift(-2)
}

// ComputeLineTotal returns (price - price*discount/100) * quantity.
func ComputeLineTotal(item LineItem) decimal.Decimal {
	unit := item.Price.Sub(percentOf(item.Price, item.DiscountPercent))
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// ComputeInvoiceTotals sums the line totals, applies the invoice-level
// discount and, when enabled, GST split evenly into CGST and SGST.
// A disabled GST always yields a zero rate and zero tax.
func ComputeInvoiceTotals(items []LineItem, invoiceDiscountPercent decimal.Decimal, gstEnabled bool, gstRatePercent int) Totals {
	gross := decimal.Zero
	for i := range items {
		gross = gross.Add(ComputeLineTotal(items[i]))
	}

	discount := percentOf(gross, invoiceDiscountPercent)
	taxable := gross.Sub(discount)

	t := Totals{
		GrossAmount:            gross,
		InvoiceDiscountPercent: invoiceDiscountPercent,
		DiscountAmount:         discount,
		TaxableAmount:          taxable,
		GSTEnabled:             gstEnabled,
		GSTAmount:              decimal.Zero,
		CGST:                   decimal.Zero,
		SGST:                   decimal.Zero,
	}
	if gstEnabled {
		t.GSTRatePercent = gstRatePercent
		t.GSTAmount = percentOf(taxable, decimal.NewFromInt(int64(gstRatePercent)))
		t.CGST, t.SGST = splitEven(t.GSTAmount)
	}
	t.GrandTotal = taxable.Add(t.GSTAmount)
	return t
}

// splitEven halves amount so that the two parts always add back to amount.
func splitEven(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	half := amount.Mul(decimal.New(5, -1))
	return half, amount.Sub(half)
}

// ComputeCarryForward returns what the customer still owes after this
// invoice: grandTotal + previousPending - (amountPaid + oldPendingAdjusted).
// A negative result is a credit in the customer's favour and is returned as is.
func ComputeCarryForward(grandTotal, previousPending, oldPendingAdjusted, amountPaid decimal.Decimal) decimal.Decimal {
	return grandTotal.Add(previousPending).Sub(amountPaid.Add(oldPendingAdjusted))
}

// Rounded returns the totals rounded to paise for display. Rounding is
// applied once here, and the rounded figures still add up: taxable is
// gross minus discount, CGST plus SGST equals GST, and grand total is
// taxable plus GST.
func (t Totals) Rounded() Totals {
	r := t
	r.GrossAmount = t.GrossAmount.Round(2)
	r.DiscountAmount = t.DiscountAmount.Round(2)
	r.TaxableAmount = r.GrossAmount.Sub(r.DiscountAmount)
	r.GSTAmount = t.GSTAmount.Round(2)
	r.CGST = r.GSTAmount.Mul(decimal.New(5, -1)).Round(2)
	r.SGST = r.GSTAmount.Sub(r.CGST)
	r.GrandTotal = r.TaxableAmount.Add(r.GSTAmount)
	return r
}

// IsZero reports whether nothing has been billed.
func (t Totals) IsZero() bool {
	return t.GrossAmount.IsZero() && t.GrandTotal.IsZero()
}
