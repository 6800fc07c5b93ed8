package repository

import (
	"context"
	"time"

	"github.com/yashas-13/inv-123/internal/model"

	"gorm.io/gorm"
)

type MovementRepository interface {
	ExistsTx(tx *gorm.DB, movementID string) (bool, error)
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context) ([]model.StockMovement, error)
	// Recent returns the newest movements first, at most limit rows.
	Recent(ctx context.Context, limit int) ([]model.StockMovement, error)
	// ListIncoming returns movements destined for locationID dated on or
	// after from, oldest first.
	ListIncoming(ctx context.Context, locationID string, from time.Time) ([]model.StockMovement, error)
	DB() *gorm.DB
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) ExistsTx(tx *gorm.DB, movementID string) (bool, error) {
	var n int64
	err := tx.Model(&model.StockMovement{}).Where("movement_id = ?", movementID).Count(&n).Error
	return n > 0, err
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) List(ctx context.Context) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Order("movement_date DESC, movement_id ASC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) Recent(ctx context.Context, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Order("movement_date DESC, movement_id DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) ListIncoming(ctx context.Context, locationID string, from time.Time) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("destination_location_id = ? AND movement_date >= ?", locationID, from).
		Order("movement_date ASC, movement_id ASC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) DB() *gorm.DB { return r.db }
