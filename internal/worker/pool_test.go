package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	calls   int
	failFor int
	got     []json.RawMessage
}

func (h *countingHandler) Process(_ context.Context, payload json.RawMessage) error {
	h.calls++
	h.got = append(h.got, payload)
	if h.calls <= h.failFor {
		return errors.New("transient")
	}
	return nil
}

type memSink struct{ entries []DLQEntry }

func (s *memSink) Send(_ context.Context, e DLQEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func fastRetries(t *testing.T) {
	t.Helper()
	prev := retryBackoff
	retryBackoff = time.Millisecond
	t.Cleanup(func() { retryBackoff = prev })
}

func encodeJob(t *testing.T, jobType string, payload interface{}) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(Job{Type: jobType, Payload: data})
	require.NoError(t, err)
	return string(raw)
}

func TestPool_DispatchRetriesUntilSuccess(t *testing.T) {
	fastRetries(t)
	h := &countingHandler{failFor: 2}
	p := NewPool(nil, map[string]Handler{QueueLedger: h}, &memSink{})

	job, attempts, err := p.dispatch(context.Background(), QueueLedger, encodeJob(t, JobLedgerChanged, LedgerEvent{Kind: "sale", Ref: "S1"}))

	require.NoError(t, err)
	assert.Equal(t, JobLedgerChanged, job.Type)
	assert.Equal(t, 3, attempts)
	assert.JSONEq(t, `{"kind":"sale","ref":"S1","at":"0001-01-01T00:00:00Z"}`, string(h.got[0]))
}

func TestPool_ExhaustedJobIsDeadLettered(t *testing.T) {
	fastRetries(t)
	h := &countingHandler{failFor: 10}
	sink := &memSink{}
	p := NewPool(nil, map[string]Handler{QueueEmail: h}, sink)

	p.process(context.Background(), QueueEmail, encodeJob(t, JobEmail, EmailJobPayload{To: []string{"ops@example.com"}}))

	assert.Equal(t, MaxJobAttempts, h.calls)
	require.Len(t, sink.entries, 1)
	e := sink.entries[0]
	assert.Equal(t, QueueEmail, e.OriginalQueue)
	assert.Equal(t, JobEmail, e.JobType)
	assert.Equal(t, MaxJobAttempts, e.Attempts)
	assert.Equal(t, "transient", e.Reason)
}

func TestPool_UndecodableJobGoesStraightToDLQ(t *testing.T) {
	h := &countingHandler{}
	sink := &memSink{}
	p := NewPool(nil, map[string]Handler{QueueLedger: h}, sink)

	p.process(context.Background(), QueueLedger, "{not json")

	assert.Zero(t, h.calls)
	require.Len(t, sink.entries, 1)
	assert.Zero(t, sink.entries[0].Attempts)
	assert.Equal(t, "{not json", string(sink.entries[0].Payload))
}

func TestPool_UnknownQueue(t *testing.T) {
	p := NewPool(nil, map[string]Handler{}, &memSink{})

	_, _, err := p.dispatch(context.Background(), "jobs:other", encodeJob(t, "x", 1))

	assert.Error(t, err)
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	retryBackoff = time.Hour
	t.Cleanup(func() { retryBackoff = time.Second })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, 3, func(int) error { calls++; return errors.New("fail") })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
