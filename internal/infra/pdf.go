package infra

// pdf.go renders the inventory reports with go-pdf/fpdf:
//   - the warehouse stock sheet served by GET /v1/warehouse-stock/report.pdf
//   - the expiring stock report attached to expiry alert emails

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yashas-13/inv-123/internal/dto"

	"github.com/go-pdf/fpdf"
)

func newReport(title, subtitle string) (*fpdf.Fpdf, float64) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, subtitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)
	return pdf, contentW
}

// WriteWarehouseReport writes a one-table PDF of per-product totals held at
// warehouseID.
func WriteWarehouseReport(w io.Writer, warehouseID string, generatedAt time.Time, rows []dto.ProductTotalResponse) error {
	pdf, contentW := newReport(
		"Warehouse Stock",
		fmt.Sprintf("Location %s  |  generated %s", warehouseID, generatedAt.Format("02 Jan 2006 15:04")),
	)

	col1 := contentW * 0.7
	col2 := contentW * 0.3

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(col1, 7, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Units", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var total int64
	for _, r := range rows {
		pdf.CellFormat(col1, 6, r.ProductID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", r.Quantity), "1", 1, "R", false, 0, "")
		total += r.Quantity
	}
	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentW, 6, "No stock recorded at this location.", "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, fmt.Sprintf("%d", total), "1", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write warehouse report: %w", err)
	}
	return nil
}

// GenerateExpiryReportPDF writes the expiring stock report into storagePath
// (created if needed) and returns the file path.
func GenerateExpiryReportPDF(report *dto.ExpiringStockResponse, storagePath string, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("expiring_%s.pdf", generatedAt.Format("20060102_150405")))

	pdf, contentW := newReport(
		"Expiring Stock",
		fmt.Sprintf("Batches expiring on or before %s (%d days)  |  %d units on hand",
			report.Cutoff, report.Days, report.TotalUnits),
	)

	col1 := contentW * 0.3
	col2 := contentW * 0.25
	col3 := contentW * 0.2
	col4 := contentW * 0.25

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(col1, 7, "Batch", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Expires", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col3, 7, "Products", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col4, 7, "Units on hand", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, b := range report.Batches {
		pdf.CellFormat(col1, 6, b.BatchID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, b.ExpiryDate, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprintf("%d", len(b.Items)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, fmt.Sprintf("%d", b.UnitsOnHand), "1", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
