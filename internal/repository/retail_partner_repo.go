package repository

import (
	"context"

	"github.com/yashas-13/inv-123/internal/model"

	"gorm.io/gorm"
)

// RetailPartnerRepository resolves retail stores to their physical location.
// Lookups return gorm.ErrRecordNotFound for unknown stores; callers decide
// whether that is an error or an empty result.
type RetailPartnerRepository interface {
	Create(ctx context.Context, p *model.RetailPartner) error
	CreateTx(tx *gorm.DB, p *model.RetailPartner) error
	FindByStoreID(ctx context.Context, storeID string) (*model.RetailPartner, error)
	FindByStoreIDTx(tx *gorm.DB, storeID string) (*model.RetailPartner, error)
	List(ctx context.Context) ([]model.RetailPartner, error)
	DB() *gorm.DB
}

type retailPartnerRepo struct{ db *gorm.DB }

func NewRetailPartnerRepository(db *gorm.DB) RetailPartnerRepository {
	return &retailPartnerRepo{db: db}
}

func (r *retailPartnerRepo) Create(ctx context.Context, p *model.RetailPartner) error {
	return r.CreateTx(r.db.WithContext(ctx), p)
}

func (r *retailPartnerRepo) CreateTx(tx *gorm.DB, p *model.RetailPartner) error {
	return tx.Omit("Location").Create(p).Error
}

func (r *retailPartnerRepo) FindByStoreID(ctx context.Context, storeID string) (*model.RetailPartner, error) {
	return r.FindByStoreIDTx(r.db.WithContext(ctx), storeID)
}

func (r *retailPartnerRepo) FindByStoreIDTx(tx *gorm.DB, storeID string) (*model.RetailPartner, error) {
	var p model.RetailPartner
	if err := tx.Where("store_id = ?", storeID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *retailPartnerRepo) List(ctx context.Context) ([]model.RetailPartner, error) {
	var partners []model.RetailPartner
	err := r.db.WithContext(ctx).Order("store_id ASC").Find(&partners).Error
	return partners, err
}

func (r *retailPartnerRepo) DB() *gorm.DB { return r.db }
