package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yashas-13/inv-123/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Column headers of the product sheet. Headers are matched after trimming,
// so "measurement " in older exports is accepted too.
const (
	colProductName = "Product Name"
	colQuantity    = "Quantity"
	colMeasurement = "measurement"
	colPrice       = "Price (₹)"
)

// ParseProductSheet reads a product sheet in CSV or XLSX form (chosen by the
// file name's extension) and returns one product per row with a name. Rows
// without a name are skipped but still count towards the row index used for
// generated ids.
func ParseProductSheet(r io.Reader, filename string) ([]model.Product, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSXRows(r)
	default:
		rows, err = readCSVRows(r)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := header[colProductName]; !ok {
		return nil, fmt.Errorf("%w: missing %q column", ErrInvalidInput, colProductName)
	}
	cell := func(row []string, col, fallback string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return fallback
		}
		return strings.TrimSpace(row[i])
	}

	products := make([]model.Product, 0, len(rows)-1)
	for idx, row := range rows[1:] {
		name := cell(row, colProductName, "")
		if name == "" {
			continue
		}
		qty := cell(row, colQuantity, "1")
		unit := cell(row, colMeasurement, "")
		price := cell(row, colPrice, "0")

		pack, err := decimal.NewFromString(qty)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: quantity %q", ErrInvalidInput, idx+2, qty)
		}
		if price == "" {
			price = "0"
		}
		mrp, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: price %q", ErrInvalidInput, idx+2, price)
		}

		uom := unit
		if uom == "" {
			uom = "unit"
		}
		products = append(products, model.Product{
			ProductID:        GenerateProductID(name, qty, unit, idx+1),
			ProductName:      name,
			UnitOfMeasure:    uom,
			StandardPackSize: pack,
			MRP:              &mrp,
		})
	}
	return products, nil
}

// GenerateProductID builds an id from the initials of the product name, the
// pack quantity and the unit, e.g. "Millet Soup", "500", "g" → "MS500G".
// A name with no usable initials falls back to PROD<index>.
func GenerateProductID(name, qty, unit string, index int) string {
	var b strings.Builder
	for _, word := range strings.Fields(strings.ToUpper(name)) {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = fmt.Sprintf("PROD%d", index)
	}
	return base + qty + strings.ToUpper(unit)
}

func readCSVRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}
