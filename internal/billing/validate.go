package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel causes carried by ValidationError issues.
var (
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrPercentOutOfRange  = errors.New("percentage must be between 0 and 100")
	ErrUnsupportedGSTRate = errors.New("unsupported GST rate")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrUnknownProduct     = errors.New("item is not linked to a catalog product")
	ErrNonPositivePayment = errors.New("payment must be greater than zero")
	ErrTooPrecise         = errors.New("must have at most 2 decimal places")
)

// Issue describes one rejected input field.
type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ValidationError collects every issue found in a single input. It matches
// each issue's cause with errors.Is.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", is.Field, is.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the issue causes to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Err != nil {
			errs = append(errs, is.Err)
		}
	}
	return errs
}

// Add records an issue for field. The code is derived from cause.
func (e *ValidationError) Add(field string, cause error) {
	e.AddCode(field, issueCode(cause), cause)
}

// AddCode records an issue for field with an explicit code.
func (e *ValidationError) AddCode(field, code string, cause error) {
	e.Issues = append(e.Issues, Issue{
		Field:   field,
		Code:    code,
		Message: cause.Error(),
		Err:     cause,
	})
}

// Merge appends the issues carried by err, if it is a *ValidationError.
func (e *ValidationError) Merge(err error) {
	if other := asValidation(err); other != nil {
		e.Issues = append(e.Issues, other.Issues...)
	}
}

// Err returns e, or nil when no issue was recorded.
func (e *ValidationError) Err() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

func issueCode(cause error) string {
	switch {
	case errors.Is(cause, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(cause, ErrNegativePrice):
		return "NEGATIVE_PRICE"
	case errors.Is(cause, ErrPercentOutOfRange):
		return "PERCENT_OUT_OF_RANGE"
	case errors.Is(cause, ErrUnsupportedGSTRate):
		return "UNSUPPORTED_GST_RATE"
	case errors.Is(cause, ErrNegativeAmount):
		return "NEGATIVE_AMOUNT"
	case errors.Is(cause, ErrUnknownProduct):
		return "UNKNOWN_PRODUCT"
	case errors.Is(cause, ErrNonPositivePayment):
		return "NON_POSITIVE_PAYMENT"
	case errors.Is(cause, ErrTooPrecise):
		return "TOO_PRECISE"
	default:
		return "INVALID"
	}
}

func validPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

func checkLineItem(ve *ValidationError, prefix string, item LineItem) {
	if item.Quantity <= 0 {
		ve.Add(prefix+".quantity", ErrInvalidQuantity)
	}
	if item.Price.IsNegative() {
		ve.Add(prefix+".price", ErrNegativePrice)
	}
	if !validPercent(item.DiscountPercent) {
		ve.Add(prefix+".discount_percent", ErrPercentOutOfRange)
	}
}

// ValidateLineItem checks a single row. index is used for the field path.
func ValidateLineItem(index int, item LineItem) error {
	ve := &ValidationError{}
	checkLineItem(ve, fmt.Sprintf("items[%d]", index), item)
	return ve.Err()
}

// ValidateItems checks every non-blank row and requires each to reference a
// product. Field paths use the row's position in items, blanks included.
func ValidateItems(items []LineItem) error {
	ve := &ValidationError{}
	for i := range items {
		if IsBlank(items[i]) {
			continue
		}
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(items[i].ProductID) == "" {
			ve.Add(prefix+".product_id", ErrUnknownProduct)
		}
		checkLineItem(ve, prefix, items[i])
	}
	return ve.Err()
}

// ValidatePolicy checks the invoice discount and the GST rate. The rate is
// only checked when GST is enabled.
func ValidatePolicy(p Policy) error {
	ve := &ValidationError{}
	if !validPercent(p.InvoiceDiscountPercent) {
		ve.Add("invoice_discount_percent", ErrPercentOutOfRange)
	}
	if p.GSTEnabled && !IsAllowedGSTRate(p.GSTRatePercent) {
		ve.Add("gst_rate_percent", fmt.Errorf("%w: %d (allowed: %v)", ErrUnsupportedGSTRate, p.GSTRatePercent, AllowedGSTRates))
	}
	return ve.Err()
}

// ValidateBalance checks that the balance inputs are not negative.
func ValidateBalance(b Balance) error {
	ve := &ValidationError{}
	if b.PreviousPending.IsNegative() {
		ve.Add("previous_pending", ErrNegativeAmount)
	}
	if b.OldPendingAdjusted.IsNegative() {
		ve.Add("old_pending_adjusted", ErrNegativeAmount)
	}
	if b.AmountPaid.IsNegative() {
		ve.Add("amount_paid", ErrNegativeAmount)
	}
	return ve.Err()
}

// StoredScale is the number of decimal places an invoice keeps for prices,
// percentages and amounts.
const StoredScale = 2

func checkScale(ve *ValidationError, field string, v decimal.Decimal) {
	if !v.Equal(v.Round(StoredScale)) {
		ve.Add(field, ErrTooPrecise)
	}
}

// CheckPrecision reports every price, percentage and balance amount of d
// that carries more than StoredScale decimal places. A draft that passes
// recomputes to the same totals from its stored inputs. Blank rows are
// skipped.
func CheckPrecision(d Draft) error {
	ve := &ValidationError{}
	for i, item := range d.Items {
		if IsBlank(item) {
			continue
		}
		prefix := fmt.Sprintf("items[%d]", i)
		checkScale(ve, prefix+".price", item.Price)
		checkScale(ve, prefix+".discount_percent", item.DiscountPercent)
	}
	checkScale(ve, "invoice_discount_percent", d.Policy.InvoiceDiscountPercent)
	checkScale(ve, "previous_pending", d.Balance.PreviousPending)
	checkScale(ve, "old_pending_adjusted", d.Balance.OldPendingAdjusted)
	checkScale(ve, "amount_paid", d.Balance.AmountPaid)
	return ve.Err()
}

// ValidatePayment checks an amount received against an existing invoice.
func ValidatePayment(amount decimal.Decimal) error {
	if amount.IsPositive() {
		return nil
	}
	ve := &ValidationError{}
	ve.Add("amount_paid", ErrNonPositivePayment)
	return ve
}

// asValidation returns err as a *ValidationError, or nil.
func asValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
