package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/middleware"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Service fakes ────────────────────────────────────────────────────────────
// Each fake returns err when set, otherwise a canned response.

type fakeBatches struct {
	err  error
	last dto.CreateBatchRequest
}

var _ service.BatchService = (*fakeBatches)(nil)

func (f *fakeBatches) Create(_ context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.BatchResponse{BatchID: req.BatchID, DateManufactured: req.DateManufactured}, nil
}

func (f *fakeBatches) List(context.Context) ([]dto.BatchResponse, error) {
	return []dto.BatchResponse{}, f.err
}

type fakeMovements struct{ err error }

var _ service.MovementService = (*fakeMovements)(nil)

func (f *fakeMovements) Create(_ context.Context, req dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.MovementResponse{MovementID: req.MovementID, Quantity: req.Quantity}, nil
}

func (f *fakeMovements) List(context.Context) ([]dto.MovementResponse, error) {
	return []dto.MovementResponse{}, f.err
}

type fakeSales struct {
	err   error
	calls int
}

var _ service.SaleService = (*fakeSales)(nil)

func (f *fakeSales) Create(_ context.Context, req dto.CreateRetailSaleRequest) (*dto.RetailSaleResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RetailSaleResponse{SaleID: req.SaleID, StoreID: req.StoreID}, nil
}

func (f *fakeSales) List(context.Context) ([]dto.RetailSaleResponse, error) {
	return []dto.RetailSaleResponse{}, f.err
}

type fakeDashboard struct {
	service.DashboardService // unimplemented methods panic
	stores                   map[string]bool
	totals                   []dto.ProductTotalResponse
	lastWarehouse            string
	lastDays                 int
}

func (f *fakeDashboard) CheckStore(_ context.Context, storeID string) error {
	if !f.stores[storeID] {
		return service.ErrStoreNotFound
	}
	return nil
}

func (f *fakeDashboard) StoreDashboard(_ context.Context, storeID string) (*dto.StoreDashboardResponse, error) {
	return &dto.StoreDashboardResponse{StoreID: storeID, CurrentStock: 30, SalesToday: 3}, nil
}

func (f *fakeDashboard) StoreStockDetail(context.Context, string) ([]dto.StockRowResponse, error) {
	return []dto.StockRowResponse{}, nil
}

func (f *fakeDashboard) ExpiringStock(_ context.Context, days int) (*dto.ExpiringStockResponse, error) {
	f.lastDays = days
	return &dto.ExpiringStockResponse{Days: days, Batches: []dto.ExpiringBatchResponse{}}, nil
}

func (f *fakeDashboard) WarehouseProductTotals(_ context.Context, warehouseID string) ([]dto.ProductTotalResponse, error) {
	f.lastWarehouse = warehouseID
	return f.totals, nil
}

// ── Request helpers ──────────────────────────────────────────────────────────

// withClaims installs claims the way middleware.Authenticate would.
func withClaims(claims *middleware.JWTClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ClaimsKey, claims)
		}
		c.Next()
	}
}

func serve(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
