package toolcall

import "time"

// ToolConfig holds per-call execution settings. It is passed fresh on every
// call and never mutated by the executor.
type ToolConfig struct {
	// SoftTimeout is an early-warning latency threshold. Attempts that
	// succeed but run longer than this emit a "slow" metric and a warning
	// log; the outcome is unaffected.
	SoftTimeout time.Duration
	// HardTimeout bounds each individual attempt.
	HardTimeout time.Duration
	// RetryCount is the number of retries after the first attempt.
	RetryCount int
	// RetryJitterMin and RetryJitterMax bound the uniformly random backoff
	// slept between attempts.
	RetryJitterMin time.Duration
	RetryJitterMax time.Duration

	// Circuit breaker settings, honored on first breaker creation per tool.
	BreakerFailureThreshold int
	BreakerWindow           time.Duration
	BreakerHalfOpenAfter    time.Duration

	// CacheTTL enables result caching when > 0.
	CacheTTL time.Duration
}

// DefaultConfig returns the production defaults: 2s soft / 4s hard timeout,
// one retry with 200-500ms jitter, breaker opens after 5 failures in 60s and
// probes after 30s, caching off.
func DefaultConfig() ToolConfig {
	return ToolConfig{
		SoftTimeout:             2 * time.Second,
		HardTimeout:             4 * time.Second,
		RetryCount:              1,
		RetryJitterMin:          200 * time.Millisecond,
		RetryJitterMax:          500 * time.Millisecond,
		BreakerFailureThreshold: 5,
		BreakerWindow:           60 * time.Second,
		BreakerHalfOpenAfter:    30 * time.Second,
		CacheTTL:                0,
	}
}
