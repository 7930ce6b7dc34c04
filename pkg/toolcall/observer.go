package toolcall

import (
	"time"

	"github.com/rs/zerolog"
)

// Attempt outcomes reported to observers.
const (
	OutcomeSuccess     = "success"
	OutcomeCacheHit    = "cache_hit"
	OutcomeTimeout     = "timeout"
	OutcomeBreakerOpen = "breaker_open"
	OutcomeCancelled   = "cancelled"
	OutcomeError       = "error"
)

// Error reasons reported to metrics.
const (
	ReasonTimeout        = "timeout"
	ReasonExecutionError = "execution_error"
	ReasonBreakerOpen    = "breaker_open"
	ReasonCancelled      = "cancelled"
	ReasonSlow           = "slow"
)

// Metrics receives execution measurements. Implementations must be safe for
// concurrent use.
type Metrics interface {
	RecordLatency(tool, outcome string, latency time.Duration)
	IncError(tool, reason string)
	IncCacheHit(tool string)
}

// NopMetrics discards all measurements. It is the default when no collector
// is wired.
type NopMetrics struct{}

func (NopMetrics) RecordLatency(tool, outcome string, latency time.Duration) {}
func (NopMetrics) IncError(tool, reason string)                              {}
func (NopMetrics) IncCacheHit(tool string)                                   {}

// AttemptLogger receives one event per attempt, including the cache-hit and
// breaker-rejection short-circuits (logged as attempt 0).
type AttemptLogger interface {
	LogAttempt(ctx ToolContext, attempt int, outcome string, latency time.Duration, cacheHit bool, errorReason string)
}

// NopAttemptLogger discards all attempt events.
type NopAttemptLogger struct{}

func (NopAttemptLogger) LogAttempt(ctx ToolContext, attempt int, outcome string, latency time.Duration, cacheHit bool, errorReason string) {
}

// ZerologAttemptLogger emits structured attempt events on a zerolog logger.
type ZerologAttemptLogger struct {
	logger zerolog.Logger
}

// NewZerologAttemptLogger wraps logger as an AttemptLogger.
func NewZerologAttemptLogger(logger zerolog.Logger) *ZerologAttemptLogger {
	return &ZerologAttemptLogger{logger: logger}
}

// LogAttempt implements AttemptLogger. Failures log at warn level, everything
// else at debug.
func (l *ZerologAttemptLogger) LogAttempt(ctx ToolContext, attempt int, outcome string, latency time.Duration, cacheHit bool, errorReason string) {
	var event *zerolog.Event
	switch outcome {
	case OutcomeTimeout, OutcomeBreakerOpen, OutcomeError:
		event = l.logger.Warn()
	default:
		event = l.logger.Debug()
	}

	event = event.
		Str("trace_id", ctx.TraceID).
		Str("tool", ctx.ToolName).
		Int("attempt", attempt).
		Str("outcome", outcome).
		Dur("latency", latency).
		Bool("cache_hit", cacheHit)
	if ctx.RunID != "" {
		event = event.Str("run_id", ctx.RunID)
	}
	if errorReason != "" {
		event = event.Str("error_reason", errorReason)
	}
	event.Msg("tool attempt")
}

// MultiAttemptLogger fans attempt events out to several loggers.
func MultiAttemptLogger(loggers ...AttemptLogger) AttemptLogger {
	return multiAttemptLogger(loggers)
}

type multiAttemptLogger []AttemptLogger

func (m multiAttemptLogger) LogAttempt(ctx ToolContext, attempt int, outcome string, latency time.Duration, cacheHit bool, errorReason string) {
	for _, l := range m {
		l.LogAttempt(ctx, attempt, outcome, latency, cacheHit, errorReason)
	}
}
