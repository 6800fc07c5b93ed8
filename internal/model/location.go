package model

// Location types used by the stock rollups. Any other value is allowed and
// simply excluded from the warehouse/retail totals.
const (
	LocationWarehouse   = "Warehouse"
	LocationRetailStore = "Retail Store"
)

type Location struct {
	LocationID   string  `gorm:"type:varchar(50);primaryKey"`
	LocationName string  `gorm:"type:varchar(255);not null"`
	LocationType string  `gorm:"type:varchar(50);not null;index"`
	Address      *string `gorm:"type:varchar(500)"`
	City         *string `gorm:"type:varchar(100)"`
	State        *string `gorm:"type:varchar(100)"`
	ZipCode      *string `gorm:"type:varchar(20)"`
	Country      string  `gorm:"type:varchar(100);not null;default:'India'"`
}
