package validator

import (
	"regexp"
	"strings"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
)

var (
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
	hsnPattern   = regexp.MustCompile(`^\d{4,8}$`)
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Party holds the tax identifiers of a customer or consignee. Empty values
// are not checked.
type Party struct {
	Phone string
	GSTIN string
	PAN   string
}

// NormalizeGSTIN upper-cases and trims an identifier as typed by an operator.
func NormalizeGSTIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizePhone strips spaces, dashes and a leading +91 or 0.
func NormalizePhone(s string) string {
	s = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "+91")
	if len(s) == 11 && strings.HasPrefix(s, "0") {
		s = s[1:]
	}
	return s
}

// CheckParty records format issues of p on ve. prefix is prepended to the
// field names, e.g. "consignee." gives "consignee.gstin".
func CheckParty(ve *billing.ValidationError, prefix string, p Party) {
	if p.Phone != "" && !phonePattern.MatchString(p.Phone) {
		ve.AddCode(prefix+"phone", "INVALID_PHONE", domain.ErrInvalidPhone)
	}
	if p.GSTIN != "" && !gstinPattern.MatchString(p.GSTIN) {
		ve.AddCode(prefix+"gstin", "INVALID_GSTIN", domain.ErrInvalidGSTIN)
	}
	if p.PAN != "" && !panPattern.MatchString(p.PAN) {
		ve.AddCode(prefix+"pan", "INVALID_PAN", domain.ErrInvalidPAN)
	}
	// characters 3-12 of a GSTIN are the holder's PAN
	if gstinPattern.MatchString(p.GSTIN) && panPattern.MatchString(p.PAN) && p.GSTIN[2:12] != p.PAN {
		ve.AddCode(prefix+"pan", "GSTIN_PAN_MISMATCH", domain.ErrGSTINPANMismatch)
	}
}

// ValidateParty is CheckParty returning a *billing.ValidationError or nil.
func ValidateParty(prefix string, p Party) error {
	ve := &billing.ValidationError{}
	CheckParty(ve, prefix, p)
	return ve.Err()
}

// CheckHSN records an issue when a non-empty HSN is not 4 to 8 digits.
func CheckHSN(ve *billing.ValidationError, field, hsn string) {
	if hsn != "" && !hsnPattern.MatchString(hsn) {
		ve.AddCode(field, "INVALID_HSN", domain.ErrInvalidHSN)
	}
}
