package toolcall

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Func is a unit of work: it takes a typed payload and returns a typed value
// or an error. The executor cancels ctx when the hard timeout elapses; a
// timed-out Func is abandoned, not awaited, so implementations should honor
// ctx cancellation.
type Func[P, T any] func(ctx context.Context, payload P) (T, error)

// Provenance records where a value came from and when, for downstream
// citation and staleness decisions. Immutable once constructed.
type Provenance struct {
	Source         string    `json:"source"`
	FetchedAt      time.Time `json:"fetched_at"`
	CacheHit       bool      `json:"cache_hit"`
	ResponseDigest string    `json:"response_digest,omitempty"`
}

// Result pairs a tool's value with its provenance.
type Result[T any] struct {
	Value      T
	Provenance Provenance
}

// Executor orchestrates tool calls: cache lookup, breaker gate, bounded
// retries with jittered backoff under a hard timeout, and observer
// notifications. A zero-option executor uses no-op observers, a fresh
// registry, and a fresh cache.
type Executor struct {
	metrics  Metrics
	logger   AttemptLogger
	registry *BreakerRegistry
	cache    *ToolCache

	now   func() time.Time
	sleep func(d time.Duration)
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics sets the metrics collector.
func WithMetrics(m Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithAttemptLogger sets the per-attempt logger.
func WithAttemptLogger(l AttemptLogger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithRegistry sets the breaker registry shared across calls.
func WithRegistry(r *BreakerRegistry) Option {
	return func(e *Executor) { e.registry = r }
}

// WithCache sets the result cache shared across calls.
func WithCache(c *ToolCache) Option {
	return func(e *Executor) { e.cache = c }
}

// WithClock substitutes the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// WithSleep substitutes the backoff sleep. Intended for tests.
func WithSleep(sleep func(d time.Duration)) Option {
	return func(e *Executor) { e.sleep = sleep }
}

// NewExecutor creates an executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		metrics:  NopMetrics{},
		logger:   NopAttemptLogger{},
		registry: NewBreakerRegistry(),
		cache:    NewToolCache(),
		now:      time.Now,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the executor's breaker registry.
func (e *Executor) Registry() *BreakerRegistry {
	return e.registry
}

// Cache returns the executor's result cache.
func (e *Executor) Cache() *ToolCache {
	return e.cache
}

type callOptions struct {
	token    *CancelToken
	cache    *ToolCache
	breaker  *CircuitBreaker
	cacheTTL time.Duration
}

// CallOption overrides per-call collaborators.
type CallOption func(*callOptions)

// WithCancelToken attaches a caller-owned cancellation token.
func WithCancelToken(t *CancelToken) CallOption {
	return func(o *callOptions) { o.token = t }
}

// WithCallCache uses c instead of the executor's cache for this call.
func WithCallCache(c *ToolCache) CallOption {
	return func(o *callOptions) { o.cache = c }
}

// WithBreaker uses b instead of the registry-backed breaker for this call.
func WithBreaker(b *CircuitBreaker) CallOption {
	return func(o *callOptions) { o.breaker = b }
}

// WithCacheTTL overrides the config's CacheTTL for this call.
func WithCacheTTL(ttl time.Duration) CallOption {
	return func(o *callOptions) { o.cacheTTL = ttl }
}

// Execute runs fn(payload) with the executor's full pipeline: cancellation
// check, cache lookup, breaker gate, then up to cfg.RetryCount+1 attempts
// each bounded by cfg.HardTimeout, with uniform random jitter slept between
// attempts.
//
// The cache is consulted before the breaker on purpose: a fresh cached answer
// stays servable while the live tool is failing, trading freshness for
// availability.
//
// Errors are always a *ToolError of one of the four kinds. Timeouts and
// execution errors count as breaker failures and are retried; cancellations
// never count and are never retried.
func Execute[P, T any](ctx context.Context, e *Executor, tctx ToolContext, cfg ToolConfig, fn Func[P, T], payload P, opts ...CallOption) (Result[T], error) {
	var zero Result[T]

	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}
	token := co.token
	cache := co.cache
	if cache == nil {
		cache = e.cache
	}
	breaker := co.breaker
	if breaker == nil {
		breaker = e.registry.GetOrCreate(tctx.ToolName, cfg.BreakerFailureThreshold, cfg.BreakerWindow, cfg.BreakerHalfOpenAfter)
	}
	ttl := co.cacheTTL
	if ttl == 0 {
		ttl = cfg.CacheTTL
	}

	start := e.now()

	if err := token.Err(); err != nil {
		return zero, newToolError(KindCancelled, tctx.ToolName, err)
	}

	now := e.now()
	var cacheKey string
	if ttl > 0 {
		cacheKey = cache.MakeKey(tctx.ToolName, payload)
		if entry, ok := cache.Get(cacheKey, now); ok {
			if value, ok := entry.Value.(T); ok {
				elapsed := e.now().Sub(start)
				e.metrics.RecordLatency(tctx.ToolName, OutcomeCacheHit, elapsed)
				e.metrics.IncCacheHit(tctx.ToolName)
				e.logger.LogAttempt(tctx, 0, OutcomeCacheHit, elapsed, true, "")
				return Result[T]{
					Value: value,
					Provenance: Provenance{
						Source:         tctx.ToolName,
						FetchedAt:      entry.FetchedAt,
						CacheHit:       true,
						ResponseDigest: entry.Digest,
					},
				}, nil
			}
			// Entry holds a different result type; treat as a miss.
		}
	}

	if breaker.IsOpen(now) {
		elapsed := e.now().Sub(start)
		e.metrics.RecordLatency(tctx.ToolName, OutcomeBreakerOpen, elapsed)
		e.metrics.IncError(tctx.ToolName, ReasonBreakerOpen)
		e.logger.LogAttempt(tctx, 0, OutcomeBreakerOpen, elapsed, false, ReasonBreakerOpen)
		return zero, newToolError(KindCircuitOpen, tctx.ToolName, nil)
	}

	var lastErr error
	lastWasTimeout := false
	for attempt := 0; attempt <= cfg.RetryCount; attempt++ {
		if err := token.Err(); err != nil {
			return zero, newToolError(KindCancelled, tctx.ToolName, err)
		}

		attemptStart := e.now()
		value, err := invoke(ctx, cfg.HardTimeout, fn, payload)
		elapsed := e.now().Sub(attemptStart)

		switch {
		case err == nil:
			fetchedAt := e.now()
			breaker.RecordSuccess()
			e.metrics.RecordLatency(tctx.ToolName, OutcomeSuccess, elapsed)
			reason := ""
			if cfg.SoftTimeout > 0 && elapsed > cfg.SoftTimeout {
				reason = ReasonSlow
				e.metrics.IncError(tctx.ToolName, ReasonSlow)
			}
			e.logger.LogAttempt(tctx, attempt+1, OutcomeSuccess, elapsed, false, reason)

			digest := Fingerprint(value)
			if ttl > 0 {
				cache.Set(cacheKey, value, digest, ttl, fetchedAt)
			}
			return Result[T]{
				Value: value,
				Provenance: Provenance{
					Source:         tctx.ToolName,
					FetchedAt:      fetchedAt,
					CacheHit:       false,
					ResponseDigest: digest,
				},
			}, nil

		case isCancellation(err):
			e.metrics.RecordLatency(tctx.ToolName, OutcomeCancelled, elapsed)
			e.logger.LogAttempt(tctx, attempt+1, OutcomeCancelled, elapsed, false, ReasonCancelled)
			return zero, newToolError(KindCancelled, tctx.ToolName, err)

		case errors.Is(err, context.DeadlineExceeded):
			lastErr = err
			lastWasTimeout = true
			e.metrics.IncError(tctx.ToolName, ReasonTimeout)
			e.logger.LogAttempt(tctx, attempt+1, OutcomeTimeout, elapsed, false, ReasonTimeout)
			breaker.RecordFailure(e.now())

		default:
			lastErr = err
			lastWasTimeout = false
			e.metrics.IncError(tctx.ToolName, ReasonExecutionError)
			e.logger.LogAttempt(tctx, attempt+1, OutcomeError, elapsed, false, ReasonExecutionError)
			breaker.RecordFailure(e.now())
		}

		if attempt < cfg.RetryCount {
			if err := token.Err(); err != nil {
				return zero, newToolError(KindCancelled, tctx.ToolName, err)
			}
			e.sleep(jitter(cfg.RetryJitterMin, cfg.RetryJitterMax))
		}
	}

	if lastWasTimeout {
		return zero, newToolError(KindTimeout, tctx.ToolName, lastErr)
	}
	return zero, newToolError(KindExecutionFailed, tctx.ToolName, lastErr)
}

// invoke runs one attempt bounded by timeout. The unit of work runs in its
// own goroutine; on timeout it is left to finish against its cancelled ctx
// while the executor moves on.
func invoke[P, T any](ctx context.Context, timeout time.Duration, fn Func[P, T], payload P) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(callCtx, payload)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-callCtx.Done():
		var zero T
		if err := ctx.Err(); err != nil {
			// Parent context ended, not the per-attempt deadline.
			return zero, err
		}
		return zero, callCtx.Err()
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

func jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}
