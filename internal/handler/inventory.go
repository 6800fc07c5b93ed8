package handler

import (
	"net/http"

	"github.com/yashas-13/inv-123/internal/apierror"
	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/middleware"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/gin-gonic/gin"
)

// InventoryHandler accepts the three ledger-changing events: production
// batches, stock movements and retail sales.
type InventoryHandler struct {
	batches   service.BatchService
	movements service.MovementService
	sales     service.SaleService
}

func NewInventoryHandler(batches service.BatchService, movements service.MovementService, sales service.SaleService) *InventoryHandler {
	return &InventoryHandler{batches: batches, movements: movements, sales: sales}
}

// CreateBatch godoc
// @Summary Record a production batch
// @Description Inserts the batch and credits every line to the main warehouse.
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.CreateBatchRequest true "Batch"
// @Success 201 {object} dto.BatchResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/batches [post]
func (h *InventoryHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.batches.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListBatches godoc
// @Summary List batches with their lines
// @Tags inventory
// @Produce json
// @Success 200 {array} dto.BatchResponse
// @Router /v1/batches [get]
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	resp, err := h.batches.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateMovement godoc
// @Summary Record a stock movement
// @Description Decrements the source (clamped at zero) and increments the destination.
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.CreateMovementRequest true "Movement"
// @Success 201 {object} dto.MovementResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/stock-movements [post]
func (h *InventoryHandler) CreateMovement(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.movements.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	resp, err := h.movements.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSale godoc
// @Summary Record a retail sale
// @Description Decrements the selling store's ledger row when the store and batch resolve.
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.CreateRetailSaleRequest true "Sale"
// @Success 201 {object} dto.RetailSaleResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/retail-sales [post]
func (h *InventoryHandler) CreateSale(c *gin.Context) {
	var req dto.CreateRetailSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if claims := middleware.GetClaims(c); claims != nil && claims.Role == model.RoleStore {
		if claims.StoreID == nil || *claims.StoreID != req.StoreID {
			c.JSON(http.StatusForbidden, apierror.New("Sales can only be recorded for your own store"))
			return
		}
	}
	resp, err := h.sales.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) ListSales(c *gin.Context) {
	resp, err := h.sales.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
