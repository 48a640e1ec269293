// Package invoicepdf lays out a sales invoice as an A4 PDF.
package invoicepdf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
)

const (
	pageWidth   = 210.0
	margin      = 12.0
	contentW    = pageWidth - 2*margin
	lineH       = 5.0
	totalsLabel = 50.0
	totalsValue = 35.0
)

// item table column widths, summing to contentW
var itemCols = []struct {
	title string
	width float64
	align string
}{
	{"Sr.", 10, "C"},
	{"Item", 68, "L"},
	{"HSN", 22, "C"},
	{"Qty", 16, "R"},
	{"Rate", 25, "R"},
	{"Disc %", 20, "R"},
	{"Amount", 25, "R"},
}

// Render writes the invoice for order to w.
func Render(w io.Writer, order *domain.Order) error {
	profile, err := order.Firm.Profile()
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(order.InvoiceNumber, false)
	pdf.SetAuthor(profile.DisplayName, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	writeHeading(pdf, tr, order, profile)
	writeParties(pdf, tr, order)
	writeItems(pdf, tr, order)
	writeTotals(pdf, order)
	writeBalance(pdf, order, profile)
	writeFooter(pdf, tr, profile)

	if order.IsPaid() {
		stampPaid(pdf)
	}

	return pdf.Output(w)
}

// Bytes renders order into memory.
func Bytes(order *domain.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, order); err != nil {
		return nil, fmt.Errorf("rendering invoice %s: %w", order.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func writeHeading(pdf *gofpdf.Fpdf, tr func(string) string, order *domain.Order, profile domain.FirmProfile) {
	title := "INVOICE"
	if order.WithGST {
		title = "TAX INVOICE"
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentW, 7, title, "B", 1, "C", false, 0, "")
	pdf.Ln(2)

	top := pdf.GetY()
	if order.WithGST {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(contentW*0.6, 8, tr(profile.DisplayName), "", 2, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(contentW*0.6, lineH, tr(profile.Address), "", 2, "L", false, 0, "")
		if profile.GSTIN != "" {
			pdf.SetTextColor(200, 0, 0)
			pdf.CellFormat(contentW*0.6, lineH, "GSTIN: "+profile.GSTIN, "", 2, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		if profile.Mobile != "" {
			pdf.CellFormat(contentW*0.6, lineH, "Mobile: "+profile.Mobile, "", 2, "L", false, 0, "")
		}
		pdf.CellFormat(contentW*0.6, lineH, tr("State Name: "+profile.State), "", 2, "L", false, 0, "")
	} else {
		pdf.SetFont("Arial", "B", 18)
		pdf.CellFormat(contentW*0.6, 10, "ESTIMATED BILL", "", 2, "L", false, 0, "")
	}
	bottom := pdf.GetY()

	pdf.SetXY(margin+contentW*0.6, top)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(contentW*0.4, lineH, "Invoice No: "+order.InvoiceNumber, "", 2, "R", false, 0, "")
	pdf.CellFormat(contentW*0.4, lineH, "Dated: "+order.CreatedAt.In(domain.IST).Format("02 Jan, 2006"), "", 2, "R", false, 0, "")

	if pdf.GetY() > bottom {
		bottom = pdf.GetY()
	}
	pdf.SetXY(margin, bottom+3)
}

func writeParties(pdf *gofpdf.Fpdf, tr func(string) string, order *domain.Order) {
	pdf.SetFont("Arial", "", 9)
	if order.WithGST && order.ConsigneeName != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(contentW, lineH, "Consignee (Ship To)", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(contentW, lineH, tr(order.ConsigneeName), "", 1, "L", false, 0, "")
		if order.ConsigneeAddress != "" {
			pdf.MultiCell(contentW, lineH, tr(order.ConsigneeAddress), "", "L", false)
		}
		pdf.CellFormat(contentW, lineH, "GSTIN/UIN: "+order.ConsigneeGSTIN, "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, lineH, "PAN/IT NO: "+order.ConsigneePAN, "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, lineH, tr("State Name: "+order.ConsigneeState), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	rows := [][2]string{
		{"Name", order.CustomerName},
		{"Phone", order.CustomerPhone},
		{"Address", order.CustomerAddress},
		{"GSTIN", order.CustomerGSTIN},
		{"State", order.CustomerState},
	}
	for _, r := range rows {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(20, lineH, r[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(contentW-20, lineH, tr(r[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func writeItems(pdf *gofpdf.Fpdf, tr func(string) string, order *domain.Order) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for _, c := range itemCols {
		pdf.CellFormat(c.width, 6, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, item := range order.Items {
		hsn := item.HSN
		if hsn == "" {
			hsn = "-"
		}
		cells := []string{
			strconv.Itoa(i + 1),
			tr(item.Name),
			hsn,
			strconv.Itoa(item.Quantity),
			money(item.Price),
			item.DiscountPercent.String(),
			money(item.LineTotal),
		}
		for j, c := range itemCols {
			pdf.CellFormat(c.width, 6, cells[j], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

func writeTotals(pdf *gofpdf.Fpdf, order *domain.Order) {
	rows := [][2]string{{"Gross", money(order.GrossAmount)}}
	if order.DiscountAmount.IsPositive() {
		rows = append(rows, [2]string{"Discount @" + order.DiscountPercent.String() + "%", "- " + money(order.DiscountAmount)})
		rows = append(rows, [2]string{"Taxable", money(order.TaxableAmount)})
	}
	if order.WithGST {
		half := decimal.NewFromInt(int64(order.GSTRate)).Div(decimal.NewFromInt(2)).String()
		rows = append(rows,
			[2]string{"CGST @" + half + "%", money(order.CGST)},
			[2]string{"SGST @" + half + "%", money(order.SGST)},
		)
	}

	x := margin + contentW - totalsLabel - totalsValue
	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.SetX(x)
		pdf.CellFormat(totalsLabel, 6, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(totalsValue, 6, r[1], "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetX(x)
	pdf.CellFormat(totalsLabel, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(totalsValue, 7, money(order.GrandTotal), "1", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "BI", 9)
	pdf.MultiCell(contentW, 6, "In Words: "+billing.AmountInWords(order.GrandTotal), "1", "L", false)
	pdf.Ln(3)
}

func writeBalance(pdf *gofpdf.Fpdf, order *domain.Order, profile domain.FirmProfile) {
	top := pdf.GetY()
	pdf.SetFont("Arial", "", 9)
	if profile.BankName != "" {
		pdf.CellFormat(contentW/2, lineH, "Bank Name: "+profile.BankName, "", 2, "L", false, 0, "")
		pdf.CellFormat(contentW/2, lineH, "IFSC: "+profile.IFSC, "", 2, "L", false, 0, "")
	}
	bankBottom := pdf.GetY()

	rows := [][2]string{
		{"Previous Pending", money(order.PreviousPending)},
		{"Adjust from Previous", money(order.OldPendingAdjusted)},
		{"Amount Paid", money(order.AmountPaid)},
	}
	if order.CreditApplied.IsPositive() {
		rows = append(rows, [2]string{"Credit Applied", money(order.CreditApplied)})
	}
	x := margin + contentW - totalsLabel - totalsValue
	pdf.SetXY(x, top)
	for _, r := range rows {
		pdf.SetX(x)
		pdf.CellFormat(totalsLabel, 6, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(totalsValue, 6, r[1], "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetX(x)
	pdf.CellFormat(totalsLabel, 6, "Carry Forward", "1", 0, "L", false, 0, "")
	pdf.CellFormat(totalsValue, 6, money(order.CarryForward), "1", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if bankBottom > pdf.GetY() {
		pdf.SetY(bankBottom)
	}
	pdf.Ln(4)
}

func writeFooter(pdf *gofpdf.Fpdf, tr func(string) string, profile domain.FirmProfile) {
	top := pdf.GetY()
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(contentW/2, lineH, "Terms & Conditions:", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(contentW/2, lineH, "1. Goods once sold will not be taken back.", "", 2, "L", false, 0, "")
	pdf.CellFormat(contentW/2, lineH, tr("2. All disputes are subject to "+profile.Jurisdiction+" Jurisdiction."), "", 2, "L", false, 0, "")
	pdf.CellFormat(contentW/2, lineH, "3. E & O.E.", "", 2, "L", false, 0, "")
	bottom := pdf.GetY()

	pdf.SetXY(margin+contentW/2, top)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(contentW/2, lineH, tr("for: "+profile.DisplayName), "", 2, "R", false, 0, "")
	pdf.Ln(8)
	pdf.SetX(margin + contentW/2)
	pdf.CellFormat(contentW/2, lineH, "Auth. Signatory", "", 2, "R", false, 0, "")

	pdf.SetXY(margin, bottom+4)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(contentW, lineH, "This is a Computer Generated Invoice. Signature Not Required.", "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func stampPaid(pdf *gofpdf.Fpdf) {
	pdf.SetPage(1)
	pdf.SetFont("Arial", "B", 40)
	pdf.SetTextColor(0, 150, 0)
	pdf.SetDrawColor(0, 150, 0)
	pdf.SetLineWidth(1)
	pdf.SetXY(pageWidth-margin-60, 40)
	pdf.CellFormat(50, 18, "PAID", "1", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
}

func money(v decimal.Decimal) string {
	return "Rs. " + v.StringFixed(2)
}
