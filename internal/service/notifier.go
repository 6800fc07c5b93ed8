package service

import "context"

// Ledger event kinds passed to LedgerNotifier.
const (
	EventBatchIntake = "batch_intake"
	EventMovement    = "movement"
	EventSale        = "sale"
)

// LedgerNotifier is told after a ledger-changing transaction commits so that
// cached aggregates can be refreshed. A nil notifier is allowed.
type LedgerNotifier interface {
	LedgerChanged(ctx context.Context, kind, ref string) error
}
