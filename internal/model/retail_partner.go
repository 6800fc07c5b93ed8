package model

// RetailPartner is a store carrying Arivu products. Every store-scoped query
// goes through LocationID; the store id itself is never matched against
// ledger rows.
type RetailPartner struct {
	StoreID       string  `gorm:"type:varchar(50);primaryKey"`
	LocationID    string  `gorm:"type:varchar(50);not null;index"`
	StoreName     string  `gorm:"type:varchar(255);not null"`
	ContactPerson *string `gorm:"type:varchar(255)"`
	ContactNumber *string `gorm:"type:varchar(50)"`
	Email         *string `gorm:"type:varchar(255)"`

	Location *Location `gorm:"foreignKey:LocationID;references:LocationID"`
}
