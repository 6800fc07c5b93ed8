package service

import (
	"context"
	"time"

	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	// DashboardExpiryDays is the window behind the manufacturer dashboard's
	// "expiring soon" tile.
	DashboardExpiryDays = 60
	// DefaultExpiringStockDays is the window of the explicit expiring-stock query.
	DefaultExpiringStockDays = 30
	DefaultRecentLimit       = 5

	ManufacturerDashboardKey = "dashboard:arivu"
	manufacturerDashboardTTL = 30 * time.Second
)

// Cache stores computed aggregates as JSON. A miss is (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// DashboardService answers the read-side questions over the ledger and the
// event tables. Store views resolve a store id to its location through the
// retail partner record; an unknown store yields zero or an empty list.
type DashboardService interface {
	TotalProducts(ctx context.Context) (int64, error)
	TotalStockByLocationType(ctx context.Context, locationType string) (int64, error)
	ExpiringUnits(ctx context.Context, days int) (int64, error)
	ExpiringStock(ctx context.Context, days int) (*dto.ExpiringStockResponse, error)
	RecentMovements(ctx context.Context, limit int) ([]dto.RecentMovementResponse, error)
	RecentSales(ctx context.Context, limit int) ([]dto.RetailSaleResponse, error)

	// CheckStore returns ErrStoreNotFound for a store id with no partner record.
	CheckStore(ctx context.Context, storeID string) error
	StoreCurrentStock(ctx context.Context, storeID string) (int64, error)
	StoreStockDetail(ctx context.Context, storeID string) ([]dto.StockRowResponse, error)
	StoreUpcomingDeliveries(ctx context.Context, storeID string) ([]dto.DeliveryResponse, error)
	StoreSalesToday(ctx context.Context, storeID string) (int64, error)
	StoreDashboard(ctx context.Context, storeID string) (*dto.StoreDashboardResponse, error)

	WarehouseStock(ctx context.Context, warehouseID string) ([]dto.StockRowResponse, error)
	WarehouseProductTotals(ctx context.Context, warehouseID string) ([]dto.ProductTotalResponse, error)
	ManufacturerDashboard(ctx context.Context) (*dto.ArivuDashboardResponse, error)
}

type dashboardService struct {
	products  repository.ProductRepository
	partners  repository.RetailPartnerRepository
	batches   repository.BatchRepository
	movements repository.MovementRepository
	sales     repository.SaleRepository
	stock     repository.StockRepository
	cache     Cache
	now       func() time.Time
}

// DashboardDeps groups the read repositories. Cache and Clock are optional.
type DashboardDeps struct {
	Products  repository.ProductRepository
	Partners  repository.RetailPartnerRepository
	Batches   repository.BatchRepository
	Movements repository.MovementRepository
	Sales     repository.SaleRepository
	Stock     repository.StockRepository
	Cache     Cache
	Clock     func() time.Time
}

func NewDashboardService(d DashboardDeps) DashboardService {
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}
	return &dashboardService{
		products:  d.Products,
		partners:  d.Partners,
		batches:   d.Batches,
		movements: d.Movements,
		sales:     d.Sales,
		stock:     d.Stock,
		cache:     d.Cache,
		now:       clock,
	}
}

func (s *dashboardService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *dashboardService) TotalProducts(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

func (s *dashboardService) TotalStockByLocationType(ctx context.Context, locationType string) (int64, error) {
	return s.stock.SumByLocationType(ctx, locationType)
}

func (s *dashboardService) ExpiringUnits(ctx context.Context, days int) (int64, error) {
	return s.stock.SumExpiring(ctx, s.today().AddDate(0, 0, days))
}

func (s *dashboardService) ExpiringStock(ctx context.Context, days int) (*dto.ExpiringStockResponse, error) {
	cutoff := s.today().AddDate(0, 0, days)
	batches, err := s.batches.ListExpiring(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(batches))
	for i, b := range batches {
		ids[i] = b.BatchID
	}
	onHand, err := s.stock.SumByBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.ExpiringStockResponse{
		Days:    days,
		Cutoff:  cutoff.Format(dateLayout),
		Batches: make([]dto.ExpiringBatchResponse, 0, len(batches)),
	}
	for _, b := range batches {
		units := onHand[b.BatchID]
		resp.TotalUnits += units
		resp.Batches = append(resp.Batches, dto.ExpiringBatchResponse{
			BatchID:     b.BatchID,
			ExpiryDate:  b.ExpiryDate.Format(dateLayout),
			UnitsOnHand: units,
			Items:       linesToResponse(b.Lines),
		})
	}
	return resp, nil
}

func (s *dashboardService) RecentMovements(ctx context.Context, limit int) ([]dto.RecentMovementResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	moves, err := s.movements.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RecentMovementResponse, len(moves))
	for i, m := range moves {
		resp[i] = dto.RecentMovementResponse{
			MovementID:   m.MovementID,
			ProductID:    m.ProductID,
			Quantity:     m.Quantity,
			MovementDate: m.MovementDate.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *dashboardService) RecentSales(ctx context.Context, limit int) ([]dto.RetailSaleResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	sales, err := s.sales.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return salesToResponse(sales), nil
}

// ── Store views ──────────────────────────────────────────────────────────────

// storeLocation resolves a store id to its location id. ok is false when the
// store has no partner record.
func (s *dashboardService) storeLocation(ctx context.Context, storeID string) (string, bool, error) {
	p, err := s.partners.FindByStoreID(ctx, storeID)
	if isNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return p.LocationID, true, nil
}

func (s *dashboardService) CheckStore(ctx context.Context, storeID string) error {
	_, ok, err := s.storeLocation(ctx, storeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStoreNotFound
	}
	return nil
}

func (s *dashboardService) StoreCurrentStock(ctx context.Context, storeID string) (int64, error) {
	loc, ok, err := s.storeLocation(ctx, storeID)
	if err != nil || !ok {
		return 0, err
	}
	return s.stock.SumByLocation(ctx, loc)
}

func (s *dashboardService) StoreStockDetail(ctx context.Context, storeID string) ([]dto.StockRowResponse, error) {
	loc, ok, err := s.storeLocation(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []dto.StockRowResponse{}, nil
	}
	rows, err := s.stock.ListByLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	return stockRowsToResponse(rows), nil
}

func (s *dashboardService) StoreUpcomingDeliveries(ctx context.Context, storeID string) ([]dto.DeliveryResponse, error) {
	loc, ok, err := s.storeLocation(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []dto.DeliveryResponse{}, nil
	}
	moves, err := s.movements.ListIncoming(ctx, loc, s.today())
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DeliveryResponse, len(moves))
	for i, m := range moves {
		resp[i] = dto.DeliveryResponse{
			MovementID:   m.MovementID,
			ProductID:    m.ProductID,
			BatchID:      m.BatchID,
			Quantity:     m.Quantity,
			MovementDate: m.MovementDate.Format(time.RFC3339),
		}
	}
	return resp, nil
}

// StoreSalesToday sums sales recorded under the store id for the current
// day. Sales are keyed by store id, so no location lookup is involved.
func (s *dashboardService) StoreSalesToday(ctx context.Context, storeID string) (int64, error) {
	return s.sales.SumQuantityOn(ctx, storeID, s.today())
}

func (s *dashboardService) StoreDashboard(ctx context.Context, storeID string) (*dto.StoreDashboardResponse, error) {
	stock, err := s.StoreCurrentStock(ctx, storeID)
	if err != nil {
		return nil, err
	}
	sold, err := s.StoreSalesToday(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &dto.StoreDashboardResponse{StoreID: storeID, CurrentStock: stock, SalesToday: sold}, nil
}

// ── Warehouse views ──────────────────────────────────────────────────────────

func (s *dashboardService) WarehouseStock(ctx context.Context, warehouseID string) ([]dto.StockRowResponse, error) {
	rows, err := s.stock.ListByLocation(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return stockRowsToResponse(rows), nil
}

func (s *dashboardService) WarehouseProductTotals(ctx context.Context, warehouseID string) ([]dto.ProductTotalResponse, error) {
	totals, err := s.stock.ProductTotals(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = dto.ProductTotalResponse{ProductID: t.ProductID, Quantity: t.Quantity}
	}
	return resp, nil
}

// ── Manufacturer dashboard ───────────────────────────────────────────────────

// ManufacturerDashboard is read through the cache. Cache failures are logged
// and the figures are computed from the database.
func (s *dashboardService) ManufacturerDashboard(ctx context.Context) (*dto.ArivuDashboardResponse, error) {
	if s.cache != nil {
		var cached dto.ArivuDashboardResponse
		hit, err := s.cache.GetJSON(ctx, ManufacturerDashboardKey, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("dashboard cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	resp, err := s.computeManufacturerDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, ManufacturerDashboardKey, resp, manufacturerDashboardTTL); err != nil {
			log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return resp, nil
}

func (s *dashboardService) computeManufacturerDashboard(ctx context.Context) (*dto.ArivuDashboardResponse, error) {
	var (
		resp dto.ArivuDashboardResponse
		err  error
	)
	if resp.TotalProducts, err = s.TotalProducts(ctx); err != nil {
		return nil, err
	}
	if resp.WarehouseStock, err = s.TotalStockByLocationType(ctx, model.LocationWarehouse); err != nil {
		return nil, err
	}
	if resp.RetailStock, err = s.TotalStockByLocationType(ctx, model.LocationRetailStore); err != nil {
		return nil, err
	}
	if resp.ExpiringSoon, err = s.ExpiringUnits(ctx, DashboardExpiryDays); err != nil {
		return nil, err
	}
	if resp.RecentMovements, err = s.RecentMovements(ctx, DefaultRecentLimit); err != nil {
		return nil, err
	}
	return &resp, nil
}

func stockRowsToResponse(rows []model.CurrentStock) []dto.StockRowResponse {
	resp := make([]dto.StockRowResponse, len(rows))
	for i, r := range rows {
		resp[i] = dto.StockRowResponse{
			ProductID:   r.ProductID,
			BatchID:     r.BatchID,
			LocationID:  r.LocationID,
			Quantity:    r.Quantity,
			LastUpdated: r.LastUpdated.Format(time.RFC3339),
		}
	}
	return resp
}
