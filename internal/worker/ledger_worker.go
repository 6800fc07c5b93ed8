package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yashas-13/inv-123/internal/service"

	"github.com/rs/zerolog/log"
)

const (
	JobLedgerChanged = "ledger.changed"
	JobEmail         = "email"
)

// LedgerEvent is the payload of a ledger.changed job.
type LedgerEvent struct {
	Kind string    `json:"kind"`
	Ref  string    `json:"ref"`
	At   time.Time `json:"at"`
}

// CacheInvalidator drops cached keys.
type CacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// LedgerWorker drops the cached aggregates after an event has been folded
// into the ledger.
type LedgerWorker struct {
	cache CacheInvalidator
}

func NewLedgerWorker(cache CacheInvalidator) *LedgerWorker {
	return &LedgerWorker{cache: cache}
}

func (w *LedgerWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var ev LedgerEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		// A malformed payload will not get better on retry.
		log.Error().Err(err).Msg("ledger_worker: invalid payload")
		return nil
	}
	if err := w.cache.Delete(ctx, service.ManufacturerDashboardKey); err != nil {
		return fmt.Errorf("ledger_worker: invalidate dashboard: %w", err)
	}
	log.Debug().Str("kind", ev.Kind).Str("ref", ev.Ref).Msg("ledger_worker: dashboard cache invalidated")
	return nil
}
