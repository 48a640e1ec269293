package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tens = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}

// AmountInWords spells amount, rounded to whole rupees, the way it is printed
// on an invoice: Indian grouping (thousand, lakh, crore), upper case, ending
// in "ONLY". For example 1062 becomes "ONE THOUSAND SIXTY TWO ONLY".
func AmountInWords(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	if n == 0 {
		return "ZERO ONLY"
	}
	prefix := ""
	if n < 0 {
		prefix = "MINUS "
		n = -n
	}
	return prefix + strings.Join(spell(n), " ") + " ONLY"
}

func spell(n int64) []string {
	var words []string
	if n >= 10000000 {
		words = append(words, spell(n/10000000)...)
		words = append(words, "CRORE")
		n %= 10000000
	}
	if n >= 100000 {
		words = append(words, belowHundred(n/100000)...)
		words = append(words, "LAKH")
		n %= 100000
	}
	if n >= 1000 {
		words = append(words, belowHundred(n/1000)...)
		words = append(words, "THOUSAND")
		n %= 1000
	}
	if n >= 100 {
		words = append(words, ones[n/100], "HUNDRED")
		n %= 100
	}
	return append(words, belowHundred(n)...)
}

func belowHundred(n int64) []string {
	switch {
	case n == 0:
		return nil
	case n < 20:
		return []string{ones[n]}
	case n%10 == 0:
		return []string{tens[n/10]}
	default:
		return []string{tens[n/10], ones[n%10]}
	}
}
