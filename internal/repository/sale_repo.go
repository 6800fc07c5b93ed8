package repository

import (
	"context"
	"time"

	"github.com/yashas-13/inv-123/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	ExistsTx(tx *gorm.DB, saleID string) (bool, error)
	CreateTx(tx *gorm.DB, s *model.RetailSale) error
	List(ctx context.Context) ([]model.RetailSale, error)
	// Recent returns the newest sales first, at most limit rows.
	Recent(ctx context.Context, limit int) ([]model.RetailSale, error)
	// SumQuantityOn totals quantity_sold for a store on a single calendar day.
	SumQuantityOn(ctx context.Context, storeID string, day time.Time) (int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) ExistsTx(tx *gorm.DB, saleID string) (bool, error) {
	var n int64
	err := tx.Model(&model.RetailSale{}).Where("sale_id = ?", saleID).Count(&n).Error
	return n > 0, err
}

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.RetailSale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) List(ctx context.Context) ([]model.RetailSale, error) {
	var sales []model.RetailSale
	err := r.db.WithContext(ctx).Order("sale_date DESC, sale_id ASC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Recent(ctx context.Context, limit int) ([]model.RetailSale, error) {
	var sales []model.RetailSale
	err := r.db.WithContext(ctx).
		Order("sale_date DESC, sale_id DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SumQuantityOn(ctx context.Context, storeID string, day time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.RetailSale{}).
		Select("COALESCE(SUM(quantity_sold), 0)").
		Where("store_id = ? AND sale_date = ?", storeID, day.Format("2006-01-02")).
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
