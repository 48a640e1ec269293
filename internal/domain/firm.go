package domain

import (
	"fmt"
	"time"
)

// Firm identifies the business entity an invoice is issued under.
type Firm string

const (
	FirmDevJyoti Firm = "devjyoti"
	FirmHimanshi Firm = "himanshi"
	FirmShreeSai Firm = "shreesai"
)

// FirmProfile is the letterhead printed on a firm's invoices.
type FirmProfile struct {
	Firm          Firm   `json:"firm"`
	DisplayName   string `json:"display_name"`
	InvoicePrefix string `json:"invoice_prefix"`
	Address       string `json:"address"`
	GSTIN         string `json:"gstin"`
	Mobile        string `json:"mobile"`
	State         string `json:"state"`
	BankName      string `json:"bank_name"`
	IFSC          string `json:"ifsc"`
	Jurisdiction  string `json:"jurisdiction"`
}

var firmProfiles = map[Firm]FirmProfile{
	FirmDevJyoti: {
		Firm:          FirmDevJyoti,
		DisplayName:   "DEV JYOTI TEXTILES",
		InvoicePrefix: "DJT",
		Address:       "Shori Cloth Market, Rohtak - 124001",
		GSTIN:         "06BSSPJ8369N1ZN",
		Mobile:        "9812183950",
		State:         "HARYANA, Code: 06",
		BankName:      "BANDHAN BANK",
		IFSC:          "BDBL0001825",
		Jurisdiction:  "Rohtak",
	},
	FirmHimanshi: {
		Firm:          FirmHimanshi,
		DisplayName:   "HIMANSHI TEXTILES",
		InvoicePrefix: "HT",
		Address:       "GROUND FLOOR, 2449, CHOUDHRY BHAWAN, TELIPARA, JAIPUR",
		GSTIN:         "08GNYPS6300G1ZD",
		Mobile:        "9971745882",
		State:         "Rajasthan, Code: 08",
		BankName:      "INDUSIND BANK LTD",
		IFSC:          "INDB0000710",
		Jurisdiction:  "Jaipur",
	},
	FirmShreeSai: {
		Firm:          FirmShreeSai,
		DisplayName:   "SHREE SAI TEXTILES",
		InvoicePrefix: "SST",
		Address:       "GROUND FLOOR, 2449, CHOUDHRY BHAWAN, TELIPARA, JAIPUR",
		State:         "Rajasthan, Code: 08",
		Jurisdiction:  "Jaipur",
	},
}

// Valid reports whether f is a known firm.
func (f Firm) Valid() bool {
	_, ok := firmProfiles[f]
	return ok
}

// ParseFirm returns the firm named s, or ErrUnknownFirm.
func ParseFirm(s string) (Firm, error) {
	f := Firm(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFirm, s)
	}
	return f, nil
}

// Profile returns the letterhead of f.
func (f Firm) Profile() (FirmProfile, error) {
	p, ok := firmProfiles[f]
	if !ok {
		return FirmProfile{}, fmt.Errorf("%w: %q", ErrUnknownFirm, string(f))
	}
	return p, nil
}

// Firms lists every firm profile in a stable order.
func Firms() []FirmProfile {
	return []FirmProfile{
		firmProfiles[FirmDevJyoti],
		firmProfiles[FirmHimanshi],
		firmProfiles[FirmShreeSai],
	}
}

// IST is the zone invoice dates and financial years are reckoned in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// FinancialYear returns the Indian financial year (April to March) that t
// falls in, formatted as "2025-26".
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FormatInvoiceNumber renders a sequence number as PREFIX/2025-26/0001.
func FormatInvoiceNumber(prefix, financialYear string, seq int64) string {
	return fmt.Sprintf("%s/%s/%04d", prefix, financialYear, seq)
}
