package dto

import "github.com/shopspring/decimal"

// ─── Products ────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	ProductID        string           `json:"product_id"         validate:"required,max=50"`
	ProductName      string           `json:"product_name"       validate:"required,max=255"`
	UnitOfMeasure    string           `json:"unit_of_measure"    validate:"required,max=50"`
	StandardPackSize decimal.Decimal  `json:"standard_pack_size" validate:"required,gt=0"`
	MRP              *decimal.Decimal `json:"mrp"`
}

type ProductResponse struct {
	ProductID        string           `json:"product_id"`
	ProductName      string           `json:"product_name"`
	UnitOfMeasure    string           `json:"unit_of_measure"`
	StandardPackSize decimal.Decimal  `json:"standard_pack_size"`
	MRP              *decimal.Decimal `json:"mrp"`
}

type SyncProductsResponse struct {
	Synced  int    `json:"synced"`
	Message string `json:"message"`
}

// ─── Locations ───────────────────────────────────────────────────────────────

type CreateLocationRequest struct {
	LocationID   string  `json:"location_id"   validate:"required,max=50"`
	LocationName string  `json:"location_name" validate:"required,max=255"`
	LocationType string  `json:"location_type" validate:"required,max=50"`
	Address      *string `json:"address"       validate:"omitempty,max=500"`
	City         *string `json:"city"          validate:"omitempty,max=100"`
	State        *string `json:"state"         validate:"omitempty,max=100"`
	ZipCode      *string `json:"zip_code"      validate:"omitempty,max=20"`
	Country      string  `json:"country"       validate:"omitempty,max=100"`
}

type LocationResponse struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	LocationType string `json:"location_type"`
}

// ─── Agents ──────────────────────────────────────────────────────────────────

type CreateAgentRequest struct {
	AgentID       string  `json:"agent_id"       validate:"required,max=50"`
	AgentName     string  `json:"agent_name"     validate:"required,max=255"`
	ContactNumber *string `json:"contact_number" validate:"omitempty,max=50"`
	Email         *string `json:"email"          validate:"omitempty,email"`
}

type AgentResponse struct {
	AgentID       string  `json:"agent_id"`
	AgentName     string  `json:"agent_name"`
	ContactNumber *string `json:"contact_number"`
	Email         *string `json:"email"`
}

// ─── Retail partners ─────────────────────────────────────────────────────────

type CreateRetailPartnerRequest struct {
	StoreID       string  `json:"store_id"       validate:"required,max=50"`
	LocationID    string  `json:"location_id"    validate:"required,max=50"`
	StoreName     string  `json:"store_name"     validate:"required,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	ContactNumber *string `json:"contact_number" validate:"omitempty,max=50"`
	Email         *string `json:"email"          validate:"omitempty,email"`
}

type RetailPartnerResponse struct {
	StoreID    string `json:"store_id"`
	LocationID string `json:"location_id"`
	StoreName  string `json:"store_name"`
}

// CreateStorePartnerAccountRequest registers a retail partner together with
// the login used by the store's staff.
type CreateStorePartnerAccountRequest struct {
	CreateRetailPartnerRequest
	Username string `json:"username" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type StorePartnerAccountResponse struct {
	StoreID string `json:"store_id"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}
