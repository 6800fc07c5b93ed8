package dto

type BatchLineRequest struct {
	ProductID        string `json:"product_id"        validate:"required,max=50"`
	QuantityProduced int    `json:"quantity_produced" validate:"required,gt=0"`
}

// CreateBatchRequest dates use the YYYY-MM-DD layout. ExpiryDate defaults to
// DateManufactured + 90 days.
type CreateBatchRequest struct {
	BatchID          string             `json:"batch_id"          validate:"required,max=50"`
	DateManufactured string             `json:"date_manufactured" validate:"required,datetime=2006-01-02"`
	ExpiryDate       *string            `json:"expiry_date"       validate:"omitempty,datetime=2006-01-02"`
	Remarks          *string            `json:"remarks"`
	Items            []BatchLineRequest `json:"items"             validate:"required,min=1,dive"`
}

type BatchLineResponse struct {
	ProductID        string `json:"product_id"`
	QuantityProduced int    `json:"quantity_produced"`
}

type BatchResponse struct {
	BatchID          string              `json:"batch_id"`
	DateManufactured string              `json:"date_manufactured"`
	ExpiryDate       *string             `json:"expiry_date"`
	Remarks          *string             `json:"remarks"`
	Items            []BatchLineResponse `json:"items"`
}
