package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLedger = "jobs:ledger"
	QueueEmail  = "jobs:email"

	// MaxJobAttempts is how often a failing job is tried before it is moved
	// to the dead letter queue.
	MaxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes the payload of one job. A returned error makes the pool
// retry the job.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// LedgerChanged enqueues a ledger.changed job. It satisfies
// service.LedgerNotifier.
func (d *Dispatcher) LedgerChanged(ctx context.Context, kind, ref string) error {
	return d.enqueue(ctx, QueueLedger, JobLedgerChanged, LedgerEvent{Kind: kind, Ref: ref, At: time.Now().UTC()})
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	dlq      DeadLetterSink
}

// NewPool maps each queue to the handler that processes its jobs. Jobs that
// fail every attempt go to dlq.
func NewPool(rdb *redis.Client, handlers map[string]Handler, dlq DeadLetterSink) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, dlq: dlq}
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP and stops when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	queues := make([]string, 0, len(p.handlers))
	for q := range p.handlers {
		queues = append(queues, q)
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i, queues)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", queues).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

// process runs one job with retries and dead-letters it when every attempt
// fails.
func (p *Pool) process(ctx context.Context, queue, raw string) {
	job, attempts, err := p.dispatch(ctx, queue, raw)
	if err == nil {
		return
	}
	log.Error().Err(err).Str("queue", queue).Str("type", job.Type).Int("attempts", attempts).Msg("job failed")
	payload := job.Payload
	if payload == nil {
		payload = json.RawMessage(raw)
	}
	deadLetter(ctx, p.dlq, queue, job.Type, payload, err.Error(), attempts)
}

// dispatch decodes raw and hands it to the queue's handler, retrying with
// backoff. It returns the decoded job, the number of attempts made and the
// last error.
func (p *Pool) dispatch(ctx context.Context, queue, raw string) (Job, int, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return job, 0, fmt.Errorf("decode job: %w", err)
	}
	h, ok := p.handlers[queue]
	if !ok {
		return job, 0, fmt.Errorf("no handler for queue %s", queue)
	}
	attempts := 0
	err := withRetry(ctx, MaxJobAttempts, func(int) error {
		attempts++
		return h.Process(ctx, job.Payload)
	})
	return job, attempts, err
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := retryBackoff * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// retryBackoff is the first retry delay; tests shorten it.
var retryBackoff = time.Second
