package repository

import (
	"context"
	"time"

	"github.com/yashas-13/inv-123/internal/model"

	"gorm.io/gorm"
)

// ProductTotal is the summed ledger quantity of one product at a location.
type ProductTotal struct {
	ProductID string
	Quantity  int64
}

// StockRepository is the only writer of the current_stock table. Write methods
// take the caller's transaction; read methods are plain aggregations.
type StockRepository interface {
	// FindByKeyTx returns gorm.ErrRecordNotFound when the triple has never
	// been seen.
	FindByKeyTx(tx *gorm.DB, productID, batchID, locationID string) (*model.CurrentStock, error)
	CreateTx(tx *gorm.DB, s *model.CurrentStock) error
	// SaveQuantityTx persists s.Quantity and s.LastUpdated.
	SaveQuantityTx(tx *gorm.DB, s *model.CurrentStock) error

	ListByLocation(ctx context.Context, locationID string) ([]model.CurrentStock, error)
	SumByLocation(ctx context.Context, locationID string) (int64, error)
	SumByLocationType(ctx context.Context, locationType string) (int64, error)
	// SumExpiring totals ledger quantities whose batch expires on or before cutoff.
	SumExpiring(ctx context.Context, cutoff time.Time) (int64, error)
	SumByBatch(ctx context.Context, batchIDs []string) (map[string]int64, error)
	ProductTotals(ctx context.Context, locationID string) ([]ProductTotal, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) FindByKeyTx(tx *gorm.DB, productID, batchID, locationID string) (*model.CurrentStock, error) {
	var s model.CurrentStock
	err := tx.Where("product_id = ? AND batch_id = ? AND location_id = ?", productID, batchID, locationID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stockRepo) CreateTx(tx *gorm.DB, s *model.CurrentStock) error {
	return tx.Create(s).Error
}

func (r *stockRepo) SaveQuantityTx(tx *gorm.DB, s *model.CurrentStock) error {
	return tx.Model(&model.CurrentStock{}).
		Where("stock_id = ?", s.StockID).
		Updates(map[string]interface{}{
			"quantity":     s.Quantity,
			"last_updated": s.LastUpdated,
		}).Error
}

func (r *stockRepo) ListByLocation(ctx context.Context, locationID string) ([]model.CurrentStock, error) {
	var rows []model.CurrentStock
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("product_id ASC, batch_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *stockRepo) SumByLocation(ctx context.Context, locationID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.CurrentStock{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("location_id = ?", locationID).
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) SumByLocationType(ctx context.Context, locationType string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Table("current_stock AS cs").
		Select("COALESCE(SUM(cs.quantity), 0)").
		Joins("JOIN locations l ON l.location_id = cs.location_id").
		Where("l.location_type = ?", locationType).
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) SumExpiring(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Table("current_stock AS cs").
		Select("COALESCE(SUM(cs.quantity), 0)").
		Joins("JOIN batches b ON b.batch_id = cs.batch_id").
		Where("b.expiry_date IS NOT NULL AND b.expiry_date <= ?", cutoff.Format("2006-01-02")).
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) SumByBatch(ctx context.Context, batchIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(batchIDs))
	if len(batchIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		BatchID  string
		Quantity int64
	}
	err := r.db.WithContext(ctx).Model(&model.CurrentStock{}).
		Select("batch_id, COALESCE(SUM(quantity), 0) AS quantity").
		Where("batch_id IN ?", batchIDs).
		Group("batch_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.BatchID] = row.Quantity
	}
	return out, nil
}

func (r *stockRepo) ProductTotals(ctx context.Context, locationID string) ([]ProductTotal, error) {
	var totals []ProductTotal
	err := r.db.WithContext(ctx).Model(&model.CurrentStock{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS quantity").
		Where("location_id = ?", locationID).
		Group("product_id").
		Order("product_id ASC").
		Scan(&totals).Error
	return totals, err
}
