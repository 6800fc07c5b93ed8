package model

import (
	"time"
)

// StockMovement is an immutable record of product moving into, out of, or
// between locations. Source and destination are both optional: source only is
// a dispatch, destination only is a receipt, both is a transfer.
type StockMovement struct {
	MovementID            string    `gorm:"type:varchar(50);primaryKey"`
	ProductID             string    `gorm:"type:varchar(50);not null;index"`
	BatchID               string    `gorm:"type:varchar(50);not null;index"`
	MovementDate          time.Time `gorm:"not null;index"`
	MovementType          string    `gorm:"type:varchar(50);not null"` // "dispatch" | "transfer" | "receipt" | ...
	SourceLocationID      *string   `gorm:"type:varchar(50)"`
	DestinationLocationID *string   `gorm:"type:varchar(50);index"`
	Quantity              int       `gorm:"not null"`
	AgentID               *string   `gorm:"type:varchar(50)"`
	Remarks               *string
}
