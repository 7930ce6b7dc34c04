package toolcall

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ToolContext identifies a logical call site for logging and metrics.
// It carries no mutable state.
type ToolContext struct {
	TraceID  string
	RunID    string // optional
	ToolName string
}

// NewToolContext creates a context for toolName with a fresh trace ID.
func NewToolContext(toolName string) ToolContext {
	return ToolContext{
		TraceID:  uuid.New().String(),
		ToolName: toolName,
	}
}

// CancelToken is a cooperative cancellation flag shared by reference between
// the caller and the executor. The caller flips it (typically on request
// abort); the executor only reads it at defined suspension points. Cancelling
// mid-flight does not interrupt a running unit of work; the next suspension
// point observes it.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a token in the not-cancelled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the flag. Safe to call from any goroutine, idempotent.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called. A nil token is never
// cancelled.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// Err returns ErrCancelled if the token is cancelled, nil otherwise.
func (t *CancelToken) Err() error {
	if t.Cancelled() {
		return ErrCancelled
	}
	return nil
}
