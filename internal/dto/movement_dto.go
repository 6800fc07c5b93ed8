package dto

type CreateMovementRequest struct {
	MovementID            string  `json:"movement_id"             validate:"required,max=50"`
	ProductID             string  `json:"product_id"              validate:"required,max=50"`
	BatchID               string  `json:"batch_id"                validate:"required,max=50"`
	MovementType          string  `json:"movement_type"           validate:"required,max=50"`
	SourceLocationID      *string `json:"source_location_id"      validate:"omitempty,max=50"`
	DestinationLocationID *string `json:"destination_location_id" validate:"omitempty,max=50"`
	Quantity              int     `json:"quantity"                validate:"required,gt=0"`
	AgentID               *string `json:"agent_id"                validate:"omitempty,max=50"`
	Remarks               *string `json:"remarks"`
	// MovementDate is RFC 3339; omitted means "now". A future date schedules
	// the movement as an upcoming delivery for the destination store.
	MovementDate *string `json:"movement_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type MovementResponse struct {
	MovementID            string  `json:"movement_id"`
	ProductID             string  `json:"product_id"`
	BatchID               string  `json:"batch_id"`
	MovementDate          string  `json:"movement_date"`
	MovementType          string  `json:"movement_type"`
	SourceLocationID      *string `json:"source_location_id"`
	DestinationLocationID *string `json:"destination_location_id"`
	Quantity              int     `json:"quantity"`
	AgentID               *string `json:"agent_id"`
	Remarks               *string `json:"remarks"`
}
