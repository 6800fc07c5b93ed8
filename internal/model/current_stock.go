package model

import (
	"time"

	"github.com/google/uuid"
)

// CurrentStock is one ledger row: the quantity of a product batch held at a
// location. Quantity never goes below zero and rows are never deleted, so a
// zero row still records that the combination once reached the location.
type CurrentStock struct {
	StockID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_current_stock_key,priority:1"`
	BatchID     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_current_stock_key,priority:2"`
	LocationID  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_current_stock_key,priority:3;index"`
	Quantity    int       `gorm:"not null;default:0"`
	LastUpdated time.Time `gorm:"not null"`
}

// TableName overrides GORM's default pluralization (current_stocks → current_stock).
func (CurrentStock) TableName() string { return "current_stock" }
