package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/yashas-13/inv-123/internal/apierror"
	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc service.CatalogService
	// productsFile is read by /products/sync when no file is uploaded.
	productsFile string
}

func NewCatalogHandler(svc service.CatalogService, productsFile string) *CatalogHandler {
	return &CatalogHandler{svc: svc, productsFile: productsFile}
}

// ── Products ─────────────────────────────────────────────────────────────────

// ListProducts godoc
// @Summary List products
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.ProductResponse
// @Router /v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	resp, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body dto.CreateProductRequest true "Product"
// @Success 201 {object} dto.ProductResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SyncProducts godoc
// @Summary Upsert products from a CSV or XLSX sheet
// @Description Upload the sheet as multipart field "file"; without an upload the server-side products file is read.
// @Tags catalog
// @Accept mpfd
// @Produce json
// @Param file formData file false "Product sheet"
// @Success 200 {object} dto.SyncProductsResponse
// @Router /v1/products/sync [post]
func (h *CatalogHandler) SyncProducts(c *gin.Context) {
	var (
		count int
		err   error
	)
	if fh, ferr := c.FormFile("file"); ferr == nil {
		f, oerr := fh.Open()
		if oerr != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Cannot read uploaded file"))
			return
		}
		defer f.Close()
		count, err = h.svc.SyncProducts(c.Request.Context(), f, fh.Filename)
	} else {
		f, oerr := os.Open(h.productsFile)
		if oerr != nil {
			c.JSON(http.StatusOK, dto.SyncProductsResponse{Synced: 0, Message: "products file not found; nothing to sync"})
			return
		}
		defer f.Close()
		count, err = h.svc.SyncProducts(c.Request.Context(), f, filepath.Base(h.productsFile))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SyncProductsResponse{Synced: count, Message: fmt.Sprintf("%d products synced", count)})
}

// ── Locations ────────────────────────────────────────────────────────────────

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	resp, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateLocation godoc
// @Summary Create a location
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body dto.CreateLocationRequest true "Location"
// @Success 201 {object} dto.LocationResponse
// @Router /v1/locations [post]
func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLocation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── Agents ───────────────────────────────────────────────────────────────────

func (h *CatalogHandler) ListAgents(c *gin.Context) {
	resp, err := h.svc.ListAgents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) CreateAgent(c *gin.Context) {
	var req dto.CreateAgentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAgent(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── Retail partners ──────────────────────────────────────────────────────────

func (h *CatalogHandler) ListRetailPartners(c *gin.Context) {
	resp, err := h.svc.ListRetailPartners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRetailPartner godoc
// @Summary Register a retail partner
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body dto.CreateRetailPartnerRequest true "Partner"
// @Success 201 {object} dto.RetailPartnerResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/retail-partners [post]
func (h *CatalogHandler) CreateRetailPartner(c *gin.Context) {
	var req dto.CreateRetailPartnerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRetailPartner(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
