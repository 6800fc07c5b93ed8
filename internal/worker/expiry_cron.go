package worker

// expiry_cron.go
// Background goroutine that periodically checks for stock nearing expiry and
// raises an alert. A Redis lock keeps replicas from alerting twice per tick.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/infra"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"
)

const expiryLockKey = "lock:expiry-alert"

// ExpiringStockSource is the part of service.DashboardService the cron needs.
type ExpiringStockSource interface {
	ExpiringStock(ctx context.Context, days int) (*dto.ExpiringStockResponse, error)
}

// EmailEnqueuer is implemented by Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// ExpiryCronConfig holds all dependencies for the expiry alert goroutine.
type ExpiryCronConfig struct {
	Stock      ExpiringStockSource
	Locker     *redislock.Client
	Emails     EmailEnqueuer
	AlertEmail string // comma separated; empty only logs
	Days       int
	Interval   time.Duration
	ReportPath string

	// writeReport renders the PDF attachment; nil uses infra.GenerateExpiryReportPDF.
	writeReport func(report *dto.ExpiringStockResponse, dir string, at time.Time) (string, error)
}

// StartExpiryCron runs one check immediately and then once per Interval
// until ctx is cancelled.
func StartExpiryCron(ctx context.Context, cfg ExpiryCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Int("days", cfg.Days).Msg("expiry_cron: started")
		runLocked(ctx, cfg)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiry_cron: shutting down")
				return
			case <-ticker.C:
				runLocked(ctx, cfg)
			}
		}
	}()
}

func runLocked(ctx context.Context, cfg ExpiryCronConfig) {
	if cfg.Locker != nil {
		// The lock is never released; it expires on its own so other replicas
		// skip the rest of this interval.
		_, err := cfg.Locker.Obtain(ctx, expiryLockKey, lockTTL(cfg.Interval), nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			log.Debug().Msg("expiry_cron: another replica holds the lock, skipping tick")
			return
		}
		if err != nil {
			log.Warn().Err(err).Msg("expiry_cron: could not obtain lock, skipping tick")
			return
		}
	}
	if err := checkExpiring(ctx, cfg, time.Now()); err != nil {
		log.Error().Err(err).Msg("expiry_cron: check failed")
	}
}

// lockTTL holds the lock for almost the whole interval. The margin lets the
// holder's own next tick find it expired.
func lockTTL(interval time.Duration) time.Duration {
	margin := interval / 20
	if margin > time.Minute {
		margin = time.Minute
	}
	return interval - margin
}

// checkExpiring logs the expiring stock and, when recipients are configured,
// renders the report and queues the alert email.
func checkExpiring(ctx context.Context, cfg ExpiryCronConfig, now time.Time) error {
	report, err := cfg.Stock.ExpiringStock(ctx, cfg.Days)
	if err != nil {
		return fmt.Errorf("query expiring stock: %w", err)
	}
	if report.TotalUnits == 0 {
		log.Debug().Int("days", cfg.Days).Msg("expiry_cron: nothing expiring")
		return nil
	}

	log.Warn().
		Int("days", cfg.Days).
		Str("cutoff", report.Cutoff).
		Int("batches", len(report.Batches)).
		Int64("units", report.TotalUnits).
		Msg("expiry_cron: stock nearing expiry")

	recipients := splitRecipients(cfg.AlertEmail)
	if len(recipients) == 0 || cfg.Emails == nil {
		return nil
	}

	write := cfg.writeReport
	if write == nil {
		write = infra.GenerateExpiryReportPDF
	}
	path, err := write(report, cfg.ReportPath, now)
	if err != nil {
		return err
	}

	return cfg.Emails.EnqueueEmail(ctx, EmailJobPayload{
		To:             recipients,
		Subject:        fmt.Sprintf("%d units expire by %s", report.TotalUnits, report.Cutoff),
		Body:           alertBody(report),
		AttachmentPath: path,
	})
}

func alertBody(report *dto.ExpiringStockResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d units across %d batches expire on or before %s.\n\n",
		report.TotalUnits, len(report.Batches), report.Cutoff)
	for _, batch := range report.Batches {
		fmt.Fprintf(&b, "  %s  expires %s  %d units on hand\n", batch.BatchID, batch.ExpiryDate, batch.UnitsOnHand)
	}
	return b.String()
}

func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
