package model

import "time"

// DefaultShelfLifeDays is applied when a batch is created without an expiry date.
const DefaultShelfLifeDays = 90

// Batch is one production run. A batch may span several products, each
// recorded as a BatchLine.
type Batch struct {
	BatchID          string     `gorm:"type:varchar(50);primaryKey"`
	DateManufactured time.Time  `gorm:"type:date;not null"`
	ExpiryDate       *time.Time `gorm:"type:date;index"`
	Remarks          *string
	CreatedAt        time.Time

	Lines []BatchLine `gorm:"foreignKey:BatchID;references:BatchID"`
}

// BatchLine stores the quantity of one product produced in a batch.
type BatchLine struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	BatchID          string `gorm:"type:varchar(50);not null;index"`
	ProductID        string `gorm:"type:varchar(50);not null"`
	QuantityProduced int    `gorm:"not null"`
}

// TableName keeps the original table name used by existing deployments.
func (BatchLine) TableName() string { return "batch_products" }
