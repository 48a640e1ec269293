package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradebook/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Invoice Number",
	"Firm",
	"Invoice Date",
	"Customer Name",
	"Customer Phone",
	"Customer GSTIN",
	"Consignee",
	"Line Item Count",
	"Gross Amount",
	"Discount %",
	"Discount Amount",
	"Taxable Amount",
	"GST Rate %",
	"GST Amount",
	"CGST",
	"SGST",
	"Grand Total",
	"Previous Pending",
	"Old Pending Adjusted",
	"Amount Paid",
	"Credit Applied",
	"Carry Forward",
	"Status",
	"Created At",
}

// Writer wraps csv.Writer for exporting sales invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteOrders converts a batch of orders to CSV rows and writes them.
func (w *Writer) WriteOrders(orders []domain.Order) error {
	for i := range orders {
		if err := w.csv.Write(orderToRow(&orders[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func orderToRow(o *domain.Order) []string {
	gstRate := ""
	if o.WithGST {
		gstRate = strconv.Itoa(o.GSTRate)
	}
	return []string{
		o.InvoiceNumber,
		string(o.Firm),
		o.CreatedAt.In(domain.IST).Format("02-01-2006"),
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerGSTIN,
		o.ConsigneeName,
		strconv.Itoa(len(o.Items)),
		formatMoney(o.GrossAmount),
		o.DiscountPercent.String(),
		formatMoney(o.DiscountAmount),
		formatMoney(o.TaxableAmount),
		gstRate,
		formatMoney(o.GSTAmount),
		formatMoney(o.CGST),
		formatMoney(o.SGST),
		formatMoney(o.GrandTotal),
		formatMoney(o.PreviousPending),
		formatMoney(o.OldPendingAdjusted),
		formatMoney(o.AmountPaid),
		formatMoney(o.CreditApplied),
		formatMoney(o.CarryForward),
		Status(o.CarryForward),
		o.CreatedAt.Format(time.RFC3339),
	}
}

// Status labels an invoice by what remains outstanding on it.
func Status(carryForward decimal.Decimal) string {
	switch {
	case carryForward.IsZero():
		return "PAID"
	case carryForward.IsNegative():
		return "CREDIT"
	default:
		return "DUE"
	}
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string, now time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "export"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), ext)
}
