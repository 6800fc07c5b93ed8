package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/yashas-13/inv-123/internal/infra"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc         service.DashboardService
	warehouseID string
}

func NewDashboardHandler(svc service.DashboardService, warehouseID string) *DashboardHandler {
	return &DashboardHandler{svc: svc, warehouseID: warehouseID}
}

// Arivu godoc
// @Summary Manufacturer dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.ArivuDashboardResponse
// @Router /v1/dashboard/arivu [get]
func (h *DashboardHandler) Arivu(c *gin.Context) {
	resp, err := h.svc.ManufacturerDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExpiringStock godoc
// @Summary Batches expiring within a window
// @Tags dashboard
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} dto.ExpiringStockResponse
// @Router /v1/expiring-stock [get]
func (h *DashboardHandler) ExpiringStock(c *gin.Context) {
	days, ok := queryInt(c, "days", service.DefaultExpiringStockDays)
	if !ok {
		return
	}
	resp, err := h.svc.ExpiringStock(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecentSales godoc
// @Summary Most recent retail sales
// @Tags dashboard
// @Produce json
// @Param limit query int false "Rows" default(5)
// @Success 200 {array} dto.RetailSaleResponse
// @Router /v1/dashboard/recent-sales [get]
func (h *DashboardHandler) RecentSales(c *gin.Context) {
	limit, ok := queryInt(c, "limit", service.DefaultRecentLimit)
	if !ok {
		return
	}
	resp, err := h.svc.RecentSales(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Store views ──────────────────────────────────────────────────────────────
// Unknown stores are a 404 here; the service itself answers zero or empty.

func (h *DashboardHandler) store(c *gin.Context) (string, bool) {
	storeID := c.Param("store_id")
	if err := h.svc.CheckStore(c.Request.Context(), storeID); err != nil {
		respondError(c, err)
		return "", false
	}
	return storeID, true
}

// Store godoc
// @Summary Store dashboard
// @Tags dashboard
// @Produce json
// @Param store_id path string true "Store ID"
// @Success 200 {object} dto.StoreDashboardResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/dashboard/store/{store_id} [get]
func (h *DashboardHandler) Store(c *gin.Context) {
	storeID, ok := h.store(c)
	if !ok {
		return
	}
	resp, err := h.svc.StoreDashboard(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StoreStock godoc
// @Summary Ledger rows held by a store
// @Tags dashboard
// @Produce json
// @Param store_id path string true "Store ID"
// @Success 200 {array} dto.StockRowResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/dashboard/store/{store_id}/stock [get]
func (h *DashboardHandler) StoreStock(c *gin.Context) {
	storeID, ok := h.store(c)
	if !ok {
		return
	}
	resp, err := h.svc.StoreStockDetail(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StoreDeliveries godoc
// @Summary Movements headed to a store from today on
// @Tags dashboard
// @Produce json
// @Param store_id path string true "Store ID"
// @Success 200 {array} dto.DeliveryResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/dashboard/store/{store_id}/deliveries [get]
func (h *DashboardHandler) StoreDeliveries(c *gin.Context) {
	storeID, ok := h.store(c)
	if !ok {
		return
	}
	resp, err := h.svc.StoreUpcomingDeliveries(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Warehouse views ──────────────────────────────────────────────────────────

func (h *DashboardHandler) warehouse(c *gin.Context) string {
	return c.DefaultQuery("warehouse_id", h.warehouseID)
}

// WarehouseStock godoc
// @Summary Ledger rows held at a warehouse
// @Tags warehouse
// @Produce json
// @Param warehouse_id query string false "Warehouse" default(MAIN_WH)
// @Success 200 {array} dto.StockRowResponse
// @Router /v1/warehouse-stock [get]
func (h *DashboardHandler) WarehouseStock(c *gin.Context) {
	resp, err := h.svc.WarehouseStock(c.Request.Context(), h.warehouse(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WarehouseSummary godoc
// @Summary Units per product at a warehouse
// @Tags warehouse
// @Produce json
// @Param warehouse_id query string false "Warehouse" default(MAIN_WH)
// @Success 200 {array} dto.ProductTotalResponse
// @Router /v1/warehouse-stock/summary [get]
func (h *DashboardHandler) WarehouseSummary(c *gin.Context) {
	resp, err := h.svc.WarehouseProductTotals(c.Request.Context(), h.warehouse(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WarehouseReport godoc
// @Summary Warehouse stock as PDF
// @Tags warehouse
// @Produce application/pdf
// @Param warehouse_id query string false "Warehouse" default(MAIN_WH)
// @Success 200 {file} file
// @Router /v1/warehouse-stock/report.pdf [get]
func (h *DashboardHandler) WarehouseReport(c *gin.Context) {
	warehouseID := h.warehouse(c)
	totals, err := h.svc.WarehouseProductTotals(c.Request.Context(), warehouseID)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.WriteWarehouseReport(&buf, warehouseID, time.Now(), totals); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="warehouse_`+warehouseID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
