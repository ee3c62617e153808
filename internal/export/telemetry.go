package export

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Telemetry is the run's single aggregation point for counters and recorded
// errors. Counters are safe to increment from concurrently running fetch
// tasks; the snapshot is read once after all tasks join. Nothing here is
// persisted across runs.
type Telemetry struct {
	RunID string

	conversations  atomic.Int64
	messages       atomic.Int64
	threads        atomic.Int64
	rateLimitWaits atomic.Int64
	calls          atomic.Int64

	mu   sync.Mutex
	errs []ErrorRecord
}

// ErrorRecord names a failed unit of work and the redacted reason. The
// reason never contains the credential or raw message text.
type ErrorRecord struct {
	Unit   string `json:"unit"`
	Reason string `json:"reason"`
}

// Snapshot is the read-only view of a completed run's telemetry.
type Snapshot struct {
	RunID           string        `json:"run_id"`
	Conversations   int64         `json:"conversations"`
	Messages        int64         `json:"messages"`
	ThreadsExpanded int64         `json:"threads_expanded"`
	RateLimitWaits  int64         `json:"rate_limit_waits"`
	Calls           int64         `json:"calls"`
	Errors          []ErrorRecord `json:"errors,omitempty"`
}

// NewTelemetry creates fresh telemetry for one run.
func NewTelemetry() *Telemetry {
	return &Telemetry{RunID: uuid.NewString()}
}

func (t *Telemetry) IncCalls()          { t.calls.Add(1) }
func (t *Telemetry) IncRateLimitWaits() { t.rateLimitWaits.Add(1) }
func (t *Telemetry) IncConversations()  { t.conversations.Add(1) }
func (t *Telemetry) IncThreads()        { t.threads.Add(1) }
func (t *Telemetry) AddMessages(n int)  { t.messages.Add(int64(n)) }

// RecordError appends a failed unit to the ordered error list.
func (t *Telemetry) RecordError(unit string, err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs = append(t.errs, ErrorRecord{Unit: unit, Reason: err.Error()})
}

// Snapshot returns the current state. Call after the run has joined all
// fetch tasks.
func (t *Telemetry) Snapshot() Snapshot {
	t.mu.Lock()
	errs := make([]ErrorRecord, len(t.errs))
	copy(errs, t.errs)
	t.mu.Unlock()

	return Snapshot{
		RunID:           t.RunID,
		Conversations:   t.conversations.Load(),
		Messages:        t.messages.Load(),
		ThreadsExpanded: t.threads.Load(),
		RateLimitWaits:  t.rateLimitWaits.Load(),
		Calls:           t.calls.Load(),
		Errors:          errs,
	}
}
