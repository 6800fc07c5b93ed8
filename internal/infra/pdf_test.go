package infra

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yashas-13/inv-123/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportTime = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

func TestWriteWarehouseReport(t *testing.T) {
	var buf bytes.Buffer

	err := WriteWarehouseReport(&buf, "MAIN_WH", reportTime, []dto.ProductTotalResponse{
		{ProductID: "MS500G", Quantity: 70},
		{ProductID: "RM1KG", Quantity: 5},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteWarehouseReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWarehouseReport(&buf, "MAIN_WH", reportTime, nil))
	assert.NotZero(t, buf.Len())
}

func TestGenerateExpiryReportPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	report := &dto.ExpiringStockResponse{
		Days: 30, Cutoff: "2026-04-09", TotalUnits: 55,
		Batches: []dto.ExpiringBatchResponse{{BatchID: "B1", ExpiryDate: "2026-03-20", UnitsOnHand: 55}},
	}

	path, err := GenerateExpiryReportPDF(report, dir, reportTime)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "expiring_20260310_083000.pdf"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
