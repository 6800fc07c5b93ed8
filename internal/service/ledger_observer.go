package service

import (
	"github.com/yashas-13/inv-123/internal/model"

	"github.com/rs/zerolog/log"
)

// LedgerObserver is notified of the conditions the folds absorb silently:
// a decrement clamped at zero, a dispatch from an untracked source, a sale
// whose store does not resolve, and a sale against a row that does not
// exist. None of them change what the fold returns.
type LedgerObserver interface {
	Clamped(productID, batchID, locationID string, onHand, requested int)
	SourceMissing(m *model.StockMovement)
	StoreUnresolved(s *model.RetailSale)
	SaleRowMissing(s *model.RetailSale, locationID string)
}

// LogObserver reports ledger anomalies through zerolog.
type LogObserver struct{}

func (LogObserver) Clamped(productID, batchID, locationID string, onHand, requested int) {
	log.Warn().
		Str("product_id", productID).
		Str("batch_id", batchID).
		Str("location_id", locationID).
		Int("on_hand", onHand).
		Int("requested", requested).
		Msg("ledger: decrement clamped at zero")
}

func (LogObserver) SourceMissing(m *model.StockMovement) {
	log.Warn().
		Str("movement_id", m.MovementID).
		Str("product_id", m.ProductID).
		Str("batch_id", m.BatchID).
		Str("source_location_id", deref(m.SourceLocationID)).
		Msg("ledger: dispatch from untracked source, source side skipped")
}

func (LogObserver) StoreUnresolved(s *model.RetailSale) {
	log.Warn().
		Str("sale_id", s.SaleID).
		Str("store_id", s.StoreID).
		Msg("ledger: sale store does not resolve to a location, ledger untouched")
}

func (LogObserver) SaleRowMissing(s *model.RetailSale, locationID string) {
	log.Debug().
		Str("sale_id", s.SaleID).
		Str("product_id", s.ProductID).
		Str("batch_id", deref(s.BatchID)).
		Str("location_id", locationID).
		Msg("ledger: no stock row for sale, nothing to adjust")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
