// Package catalogimport reads a product price list from an Excel workbook.
//
// The first non-empty row is the header. Columns are matched by name, case
// insensitively: name (required), category, hsn, price and stock. Unknown
// columns are ignored so shop price lists can carry their own notes.
package catalogimport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tradebook/internal/billing"
	"tradebook/internal/domain"
	"tradebook/internal/validator"
)

var (
	ErrNoHeader  = errors.New("sheet has no header row with a name column")
	errBlankName = errors.New("name is required")
	errBadPrice  = errors.New("price is not a number")
	errBadStock  = errors.New("stock is not a whole number")
	errNegStock  = errors.New("stock must not be negative")
)

// RowError is a spreadsheet row that could not be imported. Row is 1-based,
// as shown by Excel.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

type columns struct {
	name, category, hsn, price, stock int
}

var headerAliases = map[string]string{
	"name":         "name",
	"product":      "name",
	"product name": "name",
	"item":         "name",
	"category":     "category",
	"hsn":          "hsn",
	"hsn code":     "hsn",
	"price":        "price",
	"rate":         "price",
	"mrp":          "price",
	"stock":        "stock",
	"qty":          "stock",
	"quantity":     "stock",
}

func findColumns(header []string) (columns, error) {
	cols := columns{name: -1, category: -1, hsn: -1, price: -1, stock: -1}
	for i, h := range header {
		switch headerAliases[strings.ToLower(strings.TrimSpace(h))] {
		case "name":
			cols.name = i
		case "category":
			cols.category = i
		case "hsn":
			cols.hsn = i
		case "price":
			cols.price = i
		case "stock":
			cols.stock = i
		}
	}
	if cols.name < 0 {
		return cols, ErrNoHeader
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ReadSheet parses the named sheet, or the first sheet when name is empty.
// Valid rows are returned as products ready for upsert; invalid rows are
// reported individually and skipped.
func ReadSheet(f *excelize.File, name string) ([]domain.Product, []RowError, error) {
	if name == "" {
		name = f.GetSheetName(0)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}

	start := -1
	for i, r := range rows {
		if len(strings.TrimSpace(strings.Join(r, ""))) > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil, ErrNoHeader
	}
	cols, err := findColumns(rows[start])
	if err != nil {
		return nil, nil, err
	}

	var products []domain.Product
	var rowErrs []RowError
	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if len(strings.TrimSpace(strings.Join(row, ""))) == 0 {
			continue
		}
		p, err := parseRow(row, cols)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Err: err})
			continue
		}
		products = append(products, p)
	}
	return products, rowErrs, nil
}

func parseRow(row []string, cols columns) (domain.Product, error) {
	p := domain.Product{
		Name:     cell(row, cols.name),
		Category: cell(row, cols.category),
		HSN:      cell(row, cols.hsn),
		Price:    decimal.Zero,
	}
	if p.Name == "" {
		return p, errBlankName
	}

	if raw := strings.ReplaceAll(cell(row, cols.price), ",", ""); raw != "" {
		price, err := decimal.NewFromString(strings.TrimPrefix(raw, "₹"))
		if err != nil {
			return p, errBadPrice
		}
		if price.IsNegative() {
			return p, billing.ErrNegativePrice
		}
		p.Price = price.Round(2)
	}

	if raw := cell(row, cols.stock); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return p, errBadStock
		}
		if stock < 0 {
			return p, errNegStock
		}
		p.Stock = stock
	}

	ve := &billing.ValidationError{}
	validator.CheckHSN(ve, "hsn", p.HSN)
	if err := ve.Err(); err != nil {
		return p, domain.ErrInvalidHSN
	}
	return p, nil
}
