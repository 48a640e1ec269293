package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Policy is the invoice-wide discount and tax setting.
type Policy struct {
	InvoiceDiscountPercent decimal.Decimal `json:"invoice_discount_percent"`
	GSTEnabled             bool            `json:"gst_enabled"`
	GSTRatePercent         int             `json:"gst_rate_percent"`
}

// Balance is the customer's outstanding position at the time of billing.
type Balance struct {
	PreviousPending    decimal.Decimal `json:"previous_pending"`
	OldPendingAdjusted decimal.Decimal `json:"old_pending_adjusted"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
}

// Draft is everything needed to bill one invoice.
type Draft struct {
	Items   []LineItem `json:"items"`
	Policy  Policy     `json:"policy"`
	Balance Balance    `json:"balance"`
}

// Line is a billed row together with its derived total.
type Line struct {
	LineItem
	LineTotal decimal.Decimal `json:"line_total"`
}

// Result is the computed outcome of a Draft.
type Result struct {
	Lines        []Line          `json:"lines"`
	Totals       Totals          `json:"totals"`
	Balance      Balance         `json:"balance"`
	CarryForward decimal.Decimal `json:"carry_forward"`
}

// IsCredit reports whether the customer has paid more than they owe.
func (r Result) IsCredit() bool {
	return r.CarryForward.IsNegative()
}

// IsSettled reports whether nothing remains outstanding.
func (r Result) IsSettled() bool {
	return r.CarryForward.IsZero()
}

// IsBlank reports whether a row was left empty on the form.
func IsBlank(item LineItem) bool {
	return strings.TrimSpace(item.Name) == "" && strings.TrimSpace(item.ProductID) == ""
}

// DropBlank returns items without the rows that were left empty.
func DropBlank(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if !IsBlank(it) {
			out = append(out, it)
		}
	}
	return out
}

// Calculate drops blank rows, validates the draft and computes its totals
// and carry-forward. All issues are reported together in a *ValidationError.
func Calculate(d Draft) (Result, error) {
	ve := &ValidationError{}
	ve.Merge(ValidateItems(d.Items))
	ve.Merge(ValidatePolicy(d.Policy))
	ve.Merge(ValidateBalance(d.Balance))
	if err := ve.Err(); err != nil {
		return Result{}, err
	}

	return compute(DropBlank(d.Items), d.Policy, d.Balance), nil
}

func compute(items []LineItem, p Policy, b Balance) Result {
	lines := make([]Line, len(items))
	for i := range items {
		lines[i] = Line{LineItem: items[i], LineTotal: ComputeLineTotal(items[i])}
	}
	totals := ComputeInvoiceTotals(items, p.InvoiceDiscountPercent, p.GSTEnabled, p.GSTRatePercent)
	return Result{
		Lines:        lines,
		Totals:       totals,
		Balance:      b,
		CarryForward: ComputeCarryForward(totals.GrandTotal, b.PreviousPending, b.OldPendingAdjusted, b.AmountPaid),
	}
}

// Rounded returns the printable form of r. Line totals and invoice totals
// are rounded to paise and the carry-forward is recomputed from the rounded
// grand total so that the printed ledger adds up.
func (r Result) Rounded() Result {
	out := Result{
		Lines:  make([]Line, len(r.Lines)),
		Totals: r.Totals.Rounded(),
		Balance: Balance{
			PreviousPending:    r.Balance.PreviousPending.Round(2),
			OldPendingAdjusted: r.Balance.OldPendingAdjusted.Round(2),
			AmountPaid:         r.Balance.AmountPaid.Round(2),
		},
	}
	for i, l := range r.Lines {
		l.LineTotal = l.LineTotal.Round(2)
		out.Lines[i] = l
	}
	out.CarryForward = ComputeCarryForward(out.Totals.GrandTotal,
		out.Balance.PreviousPending, out.Balance.OldPendingAdjusted, out.Balance.AmountPaid)
	return out
}
