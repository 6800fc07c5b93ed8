package dto

// StockRowResponse is one ledger row as shown on stock tables.
type StockRowResponse struct {
	ProductID   string `json:"product_id"`
	BatchID     string `json:"batch_id"`
	LocationID  string `json:"location_id"`
	Quantity    int    `json:"quantity"`
	LastUpdated string `json:"last_updated"`
}

type ProductTotalResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type RecentMovementResponse struct {
	MovementID   string `json:"movement_id"`
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	MovementDate string `json:"movement_date"`
}

type ArivuDashboardResponse struct {
	TotalProducts   int64                    `json:"total_products"`
	WarehouseStock  int64                    `json:"warehouse_stock"`
	RetailStock     int64                    `json:"retail_stock"`
	ExpiringSoon    int64                    `json:"expiring_soon"`
	RecentMovements []RecentMovementResponse `json:"recent_movements"`
}

type StoreDashboardResponse struct {
	StoreID      string `json:"store_id"`
	CurrentStock int64  `json:"current_stock"`
	SalesToday   int64  `json:"sales_today"`
}

type DeliveryResponse struct {
	MovementID   string `json:"movement_id"`
	ProductID    string `json:"product_id"`
	BatchID      string `json:"batch_id"`
	Quantity     int    `json:"quantity"`
	MovementDate string `json:"movement_date"`
}

type ExpiringBatchResponse struct {
	BatchID     string              `json:"batch_id"`
	ExpiryDate  string              `json:"expiry_date"`
	UnitsOnHand int64               `json:"units_on_hand"`
	Items       []BatchLineResponse `json:"items"`
}

type ExpiringStockResponse struct {
	Days       int                     `json:"days"`
	Cutoff     string                  `json:"cutoff"`
	TotalUnits int64                   `json:"total_units"`
	Batches    []ExpiringBatchResponse `json:"batches"`
}
