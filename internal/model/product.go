package model

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog item. ProductID is business-assigned (e.g. "MS500G")
// and referenced by batch lines, movements, sales and ledger rows.
type Product struct {
	ProductID        string           `gorm:"type:varchar(50);primaryKey"`
	ProductName      string           `gorm:"type:varchar(255);not null"`
	UnitOfMeasure    string           `gorm:"type:varchar(50);not null"`
	StandardPackSize decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	MRP              *decimal.Decimal `gorm:"column:mrp;type:decimal(10,2)"`
}
