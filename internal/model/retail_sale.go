package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RetailSale is a sale reported by a retail partner. StoreID is not a foreign
// key: a sale for a store that does not resolve is kept in the log even though
// it cannot be applied to the ledger.
type RetailSale struct {
	SaleID           string           `gorm:"type:varchar(50);primaryKey"`
	SaleDate         time.Time        `gorm:"type:date;not null;index"`
	StoreID          string           `gorm:"type:varchar(50);not null;index"`
	ProductID        string           `gorm:"type:varchar(50);not null"`
	BatchID          *string          `gorm:"type:varchar(50)"`
	QuantitySold     int              `gorm:"not null"`
	SalesAgentID     *string          `gorm:"type:varchar(50)"`
	SalePricePerUnit *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Remarks          *string
}
