package service

import (
	"context"
	"time"

	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// LedgerService applies accepted events to the current_stock ledger. Every
// method runs inside the caller's transaction so the event row and its ledger
// effect commit or roll back together.
//
// Missing ledger rows are never an error: a decrement against an untracked
// row does nothing, and a decrement larger than the stock on hand leaves the
// row at zero.
type LedgerService interface {
	FoldBatchIntake(ctx context.Context, tx *gorm.DB, batch *model.Batch, lines []model.BatchLine, warehouseID string) error
	FoldMovement(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error
	FoldSale(ctx context.Context, tx *gorm.DB, s *model.RetailSale) error
}

type ledgerService struct {
	stock    repository.StockRepository
	partners repository.RetailPartnerRepository
	observer LedgerObserver
	tracer   trace.Tracer
	now      func() time.Time
}

func NewLedgerService(stock repository.StockRepository, partners repository.RetailPartnerRepository, observer LedgerObserver) LedgerService {
	if observer == nil {
		observer = LogObserver{}
	}
	return &ledgerService{
		stock:    stock,
		partners: partners,
		observer: observer,
		tracer:   otel.Tracer("github.com/yashas-13/inv-123/internal/service/ledger"),
		now:      time.Now,
	}
}

func (s *ledgerService) FoldBatchIntake(ctx context.Context, tx *gorm.DB, batch *model.Batch, lines []model.BatchLine, warehouseID string) (err error) {
	_, span := s.tracer.Start(ctx, "ledger.FoldBatchIntake", trace.WithAttributes(
		attribute.String("batch_id", batch.BatchID),
		attribute.String("location_id", warehouseID),
		attribute.Int("lines", len(lines)),
	))
	defer endSpan(span, &err)

	now := s.now()
	for _, line := range lines {
		if err := s.increment(tx, line.ProductID, batch.BatchID, warehouseID, line.QuantityProduced, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *ledgerService) FoldMovement(ctx context.Context, tx *gorm.DB, m *model.StockMovement) (err error) {
	_, span := s.tracer.Start(ctx, "ledger.FoldMovement", trace.WithAttributes(
		attribute.String("movement_id", m.MovementID),
		attribute.Int("quantity", m.Quantity),
	))
	defer endSpan(span, &err)

	now := s.now()
	if m.SourceLocationID != nil {
		found, err := s.decrement(tx, m.ProductID, m.BatchID, *m.SourceLocationID, m.Quantity, now)
		if err != nil {
			return err
		}
		if !found {
			s.observer.SourceMissing(m)
		}
	}
	if m.DestinationLocationID != nil {
		if err := s.increment(tx, m.ProductID, m.BatchID, *m.DestinationLocationID, m.Quantity, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *ledgerService) FoldSale(ctx context.Context, tx *gorm.DB, sale *model.RetailSale) (err error) {
	_, span := s.tracer.Start(ctx, "ledger.FoldSale", trace.WithAttributes(
		attribute.String("sale_id", sale.SaleID),
		attribute.String("store_id", sale.StoreID),
	))
	defer endSpan(span, &err)

	partner, err := s.partners.FindByStoreIDTx(tx, sale.StoreID)
	if isNotFound(err) {
		s.observer.StoreUnresolved(sale)
		return nil
	}
	if err != nil {
		return err
	}

	// Ledger rows always carry a batch, so a sale without one cannot match.
	if sale.BatchID == nil {
		s.observer.SaleRowMissing(sale, partner.LocationID)
		return nil
	}

	found, err := s.decrement(tx, sale.ProductID, *sale.BatchID, partner.LocationID, sale.QuantitySold, s.now())
	if err != nil {
		return err
	}
	if !found {
		s.observer.SaleRowMissing(sale, partner.LocationID)
	}
	return nil
}

// increment adds qty to the (product, batch, location) row, creating it on
// first reference.
func (s *ledgerService) increment(tx *gorm.DB, productID, batchID, locationID string, qty int, now time.Time) error {
	row, err := s.stock.FindByKeyTx(tx, productID, batchID, locationID)
	if isNotFound(err) {
		return s.stock.CreateTx(tx, &model.CurrentStock{
			StockID:     uuid.New(),
			ProductID:   productID,
			BatchID:     batchID,
			LocationID:  locationID,
			Quantity:    qty,
			LastUpdated: now,
		})
	}
	if err != nil {
		return err
	}
	row.Quantity += qty
	row.LastUpdated = now
	return s.stock.SaveQuantityTx(tx, row)
}

// decrement removes qty from an existing row, clamping at zero. It reports
// whether the row existed.
func (s *ledgerService) decrement(tx *gorm.DB, productID, batchID, locationID string, qty int, now time.Time) (bool, error) {
	row, err := s.stock.FindByKeyTx(tx, productID, batchID, locationID)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	remaining, clamped := clampSub(row.Quantity, qty)
	if clamped {
		s.observer.Clamped(productID, batchID, locationID, row.Quantity, qty)
	}
	row.Quantity = remaining
	row.LastUpdated = now
	return true, s.stock.SaveQuantityTx(tx, row)
}

// clampSub returns max(0, have-take) and whether the floor was hit.
func clampSub(have, take int) (int, bool) {
	if take > have {
		return 0, true
	}
	return have - take, false
}

func endSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}
