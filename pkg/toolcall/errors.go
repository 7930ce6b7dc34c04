package toolcall

import (
	"errors"
	"fmt"
)

// Kind classifies a tool call failure. The set is closed: every error
// returned by Execute is a *ToolError carrying exactly one of these kinds.
type Kind string

const (
	// KindTimeout means every attempt exceeded the hard timeout.
	KindTimeout Kind = "timeout"
	// KindCircuitOpen means the breaker rejected the call before any attempt ran.
	KindCircuitOpen Kind = "circuit_open"
	// KindCancelled means the caller requested cancellation.
	KindCancelled Kind = "cancelled"
	// KindExecutionFailed means the unit of work failed on every attempt.
	KindExecutionFailed Kind = "execution_failed"
)

// Sentinel errors for errors.Is matching. A *ToolError matches the sentinel
// for its kind.
var (
	ErrTimeout         = errors.New("tool call timed out")
	ErrCircuitOpen     = errors.New("circuit breaker open")
	ErrCancelled       = errors.New("tool call cancelled")
	ErrExecutionFailed = errors.New("tool execution failed")
)

// ToolError is the error type returned by Execute.
type ToolError struct {
	Kind Kind
	Tool string
	Err  error // final underlying error, may be nil
}

func (e *ToolError) Error() string {
	msg := string(e.Kind)
	switch e.Kind {
	case KindTimeout:
		msg = "timed out after all retries"
	case KindCircuitOpen:
		msg = "circuit breaker open"
	case KindCancelled:
		msg = "cancelled"
	case KindExecutionFailed:
		msg = "execution failed after all retries"
	}
	if e.Err != nil {
		return fmt.Sprintf("tool %s: %s: %v", e.Tool, msg, e.Err)
	}
	return fmt.Sprintf("tool %s: %s", e.Tool, msg)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the ToolError's kind, so callers can use
// errors.Is(err, toolcall.ErrCircuitOpen) without unwrapping manually.
func (e *ToolError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrCircuitOpen:
		return e.Kind == KindCircuitOpen
	case ErrCancelled:
		return e.Kind == KindCancelled
	case ErrExecutionFailed:
		return e.Kind == KindExecutionFailed
	}
	return false
}

func newToolError(kind Kind, tool string, err error) *ToolError {
	return &ToolError{Kind: kind, Tool: tool, Err: err}
}
