package dto

import "github.com/shopspring/decimal"

type CreateRetailSaleRequest struct {
	SaleID           string           `json:"sale_id"             validate:"required,max=50"`
	SaleDate         string           `json:"sale_date"           validate:"required,datetime=2006-01-02"`
	StoreID          string           `json:"store_id"            validate:"required,max=50"`
	ProductID        string           `json:"product_id"          validate:"required,max=50"`
	BatchID          *string          `json:"batch_id"            validate:"omitempty,max=50"`
	QuantitySold     int              `json:"quantity_sold"       validate:"required,gt=0"`
	SalesAgentID     *string          `json:"sales_agent_id"      validate:"omitempty,max=50"`
	SalePricePerUnit *decimal.Decimal `json:"sale_price_per_unit"`
	Remarks          *string          `json:"remarks"`
}

type RetailSaleResponse struct {
	SaleID           string           `json:"sale_id"`
	SaleDate         string           `json:"sale_date"`
	StoreID          string           `json:"store_id"`
	ProductID        string           `json:"product_id"`
	BatchID          *string          `json:"batch_id"`
	QuantitySold     int              `json:"quantity_sold"`
	SalePricePerUnit *decimal.Decimal `json:"sale_price_per_unit"`
}
