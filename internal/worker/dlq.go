package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces the dead letter list of each job queue: dlq:jobs:ledger.
const DLQPrefix = "dlq:"

// DLQEntry wraps a job that failed every attempt.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

// DeadLetterSink receives jobs the pool gave up on.
type DeadLetterSink interface {
	Send(ctx context.Context, entry DLQEntry) error
}

// DeadLetters keeps failed jobs in one Redis list per source queue so they
// can be inspected and replayed by hand.
type DeadLetters struct {
	rdb    *redis.Client
	queues []string
}

// NewDeadLetters watches the dead letter lists of queues. Pending sums them.
func NewDeadLetters(rdb *redis.Client, queues ...string) *DeadLetters {
	return &DeadLetters{rdb: rdb, queues: queues}
}

func (d *DeadLetters) Send(ctx context.Context, entry DLQEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, DLQPrefix+entry.OriginalQueue, data).Err()
}

// Length returns the number of dead letters for one queue.
func (d *DeadLetters) Length(ctx context.Context, queue string) (int64, error) {
	return d.rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// Pending returns the dead letters across every watched queue.
func (d *DeadLetters) Pending(ctx context.Context) (int64, error) {
	var total int64
	for _, q := range d.queues {
		n, err := d.Length(ctx, q)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Peek decodes up to n of the newest dead letters of queue. Entries that no
// longer decode are skipped.
func (d *DeadLetters) Peek(ctx context.Context, queue string, n int64) ([]DLQEntry, error) {
	raw, err := d.rdb.LRange(ctx, DLQPrefix+queue, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]DLQEntry, 0, len(raw))
	for _, r := range raw {
		var e DLQEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: undecodable entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// deadLetter hands a failed job to sink. A sink failure is logged; the job
// is lost at that point.
func deadLetter(ctx context.Context, sink DeadLetterSink, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      attempts,
	}
	if err := sink.Send(ctx, entry); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job_type", jobType).Msg("dlq: failed to store dead letter")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}
