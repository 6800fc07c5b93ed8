package repository

import (
	"context"
	"time"

	"github.com/yashas-13/inv-123/internal/model"

	"gorm.io/gorm"
)

type BatchRepository interface {
	ExistsTx(tx *gorm.DB, batchID string) (bool, error)
	// CreateTx inserts the batch and its lines in the caller's transaction.
	CreateTx(tx *gorm.DB, b *model.Batch) error
	FindByID(ctx context.Context, batchID string) (*model.Batch, error)
	FindByIDTx(tx *gorm.DB, batchID string) (*model.Batch, error)
	List(ctx context.Context) ([]model.Batch, error)
	// ListExpiring returns batches with an expiry date on or before cutoff,
	// soonest first.
	ListExpiring(ctx context.Context, cutoff time.Time) ([]model.Batch, error)
	DB() *gorm.DB
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) ExistsTx(tx *gorm.DB, batchID string) (bool, error) {
	var n int64
	err := tx.Model(&model.Batch{}).Where("batch_id = ?", batchID).Count(&n).Error
	return n > 0, err
}

func (r *batchRepo) CreateTx(tx *gorm.DB, b *model.Batch) error {
	return tx.Create(b).Error
}

func (r *batchRepo) FindByID(ctx context.Context, batchID string) (*model.Batch, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), batchID)
}

func (r *batchRepo) FindByIDTx(tx *gorm.DB, batchID string) (*model.Batch, error) {
	var b model.Batch
	if err := tx.Preload("Lines").Where("batch_id = ?", batchID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepo) List(ctx context.Context) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("date_manufactured DESC, batch_id ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ListExpiring(ctx context.Context, cutoff time.Time) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", cutoff.Format("2006-01-02")).
		Order("expiry_date ASC, batch_id ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) DB() *gorm.DB { return r.db }
