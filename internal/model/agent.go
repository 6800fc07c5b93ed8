package model

// Agent is a sales or dispatch agent referenced by movements and sales.
type Agent struct {
	AgentID       string  `gorm:"type:varchar(50);primaryKey"`
	AgentName     string  `gorm:"type:varchar(255);not null"`
	ContactNumber *string `gorm:"type:varchar(50)"`
	Email         *string `gorm:"type:varchar(255)"`
}
