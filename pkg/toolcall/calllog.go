package toolcall

import (
	"sync"
	"time"
)

// CallRecord is a single attempt captured by a CallRecorder. It carries
// timing and outcome but no payloads.
type CallRecord struct {
	Tool        string    `json:"tool"`
	TraceID     string    `json:"trace_id"`
	RunID       string    `json:"run_id,omitempty"`
	Attempt     int       `json:"attempt"`
	Outcome     string    `json:"outcome"`
	LatencyMS   int64     `json:"latency_ms"`
	CacheHit    bool      `json:"cache_hit"`
	ErrorReason string    `json:"error_reason,omitempty"`
	At          time.Time `json:"at"`
}

// CallRecorder is an AttemptLogger that keeps a bounded in-memory ring of
// recent attempt records for diagnostics. Safe for concurrent use.
type CallRecorder struct {
	mu      sync.Mutex
	max     int
	records []CallRecord
	now     func() time.Time
}

// NewCallRecorder creates a recorder holding at most max records; older
// records are dropped first. max <= 0 defaults to 256.
func NewCallRecorder(max int) *CallRecorder {
	if max <= 0 {
		max = 256
	}
	return &CallRecorder{
		max: max,
		now: time.Now,
	}
}

// LogAttempt implements AttemptLogger.
func (r *CallRecorder) LogAttempt(ctx ToolContext, attempt int, outcome string, latency time.Duration, cacheHit bool, errorReason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, CallRecord{
		Tool:        ctx.ToolName,
		TraceID:     ctx.TraceID,
		RunID:       ctx.RunID,
		Attempt:     attempt,
		Outcome:     outcome,
		LatencyMS:   latency.Milliseconds(),
		CacheHit:    cacheHit,
		ErrorReason: errorReason,
		At:          r.now(),
	})
	if len(r.records) > r.max {
		r.records = r.records[len(r.records)-r.max:]
	}
}

// Records returns a copy of the retained records, oldest first.
func (r *CallRecorder) Records() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]CallRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of retained records.
func (r *CallRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}
