package toolcall

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker state.
type BreakerState string

const (
	// BreakerClosed lets calls flow normally.
	BreakerClosed BreakerState = "closed"
	// BreakerOpen rejects calls without executing them.
	BreakerOpen BreakerState = "open"
	// BreakerHalfOpen allows probe calls through to test recovery.
	BreakerHalfOpen BreakerState = "half_open"
)

// CircuitBreaker is a per-tool failure-window state machine. Failures within
// a sliding time window open the breaker; after a cooldown it admits probe
// calls, closing again on a successful probe. All methods are safe for
// concurrent use.
type CircuitBreaker struct {
	mu sync.Mutex

	toolName         string
	failureThreshold int
	window           time.Duration
	halfOpenAfter    time.Duration

	state        BreakerState
	failureTimes []time.Time
	openedAt     time.Time
}

// NewCircuitBreaker creates a closed breaker for toolName.
func NewCircuitBreaker(toolName string, failureThreshold int, window, halfOpenAfter time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		toolName:         toolName,
		failureThreshold: failureThreshold,
		window:           window,
		halfOpenAfter:    halfOpenAfter,
		state:            BreakerClosed,
	}
}

// ToolName returns the tool this breaker guards.
func (b *CircuitBreaker) ToolName() string {
	return b.toolName
}

// RecordSuccess notes a successful execution. Only a half-open breaker
// reacts: it closes and clears its failure history. Failures of a closed
// breaker already age out via the window, so a success while closed is a
// no-op.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerHalfOpen {
		b.state = BreakerClosed
		b.failureTimes = nil
		b.openedAt = time.Time{}
	}
}

// RecordFailure notes a failed execution at now. Failures older than the
// window are pruned first; if the count then reaches the threshold the
// breaker opens and its cooldown clock restarts. The rule applies identically
// in the half-open state, so a single failed probe re-opens the breaker.
func (b *CircuitBreaker) RecordFailure(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := now.Add(-b.window)
	kept := b.failureTimes[:0]
	for _, t := range b.failureTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.failureTimes = append(kept, now)

	if len(b.failureTimes) >= b.failureThreshold {
		b.state = BreakerOpen
		b.openedAt = now
	}
}

// State applies the lazy open-to-half-open transition and returns the
// resulting state. This is the only path into half-open; there is no
// background timer.
func (b *CircuitBreaker) State(now time.Time) BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && !b.openedAt.IsZero() && now.Sub(b.openedAt) >= b.halfOpenAfter {
		b.state = BreakerHalfOpen
	}
	return b.state
}

// IsOpen reports whether the breaker currently rejects calls. A half-open
// breaker returns false: calls are allowed through as probes.
func (b *CircuitBreaker) IsOpen(now time.Time) bool {
	return b.State(now) == BreakerOpen
}

// FailureCount returns the number of failures still inside the window.
func (b *CircuitBreaker) FailureCount(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := now.Add(-b.window)
	n := 0
	for _, t := range b.failureTimes {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}

// BreakerRegistry maps tool names to their circuit breakers so breaker state
// survives across independent executor calls for the same tool. It is an
// explicitly owned object: construct one per process and thread it through
// the dependency graph rather than sharing a package global.
type BreakerRegistry struct {
	mu     sync.Mutex
	byTool map[string]*CircuitBreaker
}

// NewBreakerRegistry creates an empty registry.
func NewBreakerRegistry() *BreakerRegistry {
	return &BreakerRegistry{
		byTool: make(map[string]*CircuitBreaker),
	}
}

// GetOrCreate returns the breaker for toolName, creating it with the given
// parameters on first use. Parameters are honored only at creation; callers
// must keep breaker config stable for a given tool.
func (r *BreakerRegistry) GetOrCreate(toolName string, failureThreshold int, window, halfOpenAfter time.Duration) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.byTool[toolName]; ok {
		return b
	}
	b := NewCircuitBreaker(toolName, failureThreshold, window, halfOpenAfter)
	r.byTool[toolName] = b
	return b
}

// Clear removes all breakers. Intended for test isolation.
func (r *BreakerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byTool = make(map[string]*CircuitBreaker)
}
