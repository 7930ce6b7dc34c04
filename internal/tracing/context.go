package tracing

import (
	"context"

	"github.com/google/uuid"

	"github.com/amra/tripkit/pkg/toolcall"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID
	TraceIDKey ContextKey = "trace_id"
	// RunIDKey is the context key for run ID
	RunIDKey ContextKey = "run_id"
)

// NewTraceID generates a new trace ID
func NewTraceID() string {
	return uuid.New().String()
}

// NewRunID generates a new run ID
func NewRunID() string {
	return uuid.New().String()
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// TraceIDFromContext extracts the trace ID from the context, or "" if unset
func TraceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

// RunIDFromContext extracts the run ID from the context, or "" if unset
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RunIDKey).(string); ok {
		return v
	}
	return ""
}

// ToolContextFromContext builds a toolcall.ToolContext for toolName using the
// trace and run IDs carried by ctx, generating a fresh trace ID when absent.
func ToolContextFromContext(ctx context.Context, toolName string) toolcall.ToolContext {
	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = NewTraceID()
	}
	return toolcall.ToolContext{
		TraceID:  traceID,
		RunID:    RunIDFromContext(ctx),
		ToolName: toolName,
	}
}
