package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleArivu = "arivu"
	RoleStore = "store"
)

// Values of the "typ" claim. Only access tokens authenticate requests; a
// refresh token is only good for /v1/auth/refresh.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// User is an application account. Store users carry the retail partner they
// belong to and only see that store's dashboard.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	StoreID      *string   `gorm:"type:varchar(50)"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
