package toolcall

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolError_SentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		sentinel error
		others   []error
	}{
		{
			name:     "timeout",
			kind:     KindTimeout,
			sentinel: ErrTimeout,
			others:   []error{ErrCircuitOpen, ErrCancelled, ErrExecutionFailed},
		},
		{
			name:     "circuit open",
			kind:     KindCircuitOpen,
			sentinel: ErrCircuitOpen,
			others:   []error{ErrTimeout, ErrCancelled, ErrExecutionFailed},
		},
		{
			name:     "cancelled",
			kind:     KindCancelled,
			sentinel: ErrCancelled,
			others:   []error{ErrTimeout, ErrCircuitOpen, ErrExecutionFailed},
		},
		{
			name:     "execution failed",
			kind:     KindExecutionFailed,
			sentinel: ErrExecutionFailed,
			others:   []error{ErrTimeout, ErrCircuitOpen, ErrCancelled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newToolError(tt.kind, "adapter.flights", nil)
			assert.ErrorIs(t, err, tt.sentinel)
			for _, other := range tt.others {
				assert.NotErrorIs(t, err, other)
			}
		})
	}
}

func TestToolError_WrapsUnderlying(t *testing.T) {
	underlying := fmt.Errorf("upstream said 503")
	err := newToolError(KindExecutionFailed, "adapter.lodging", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "adapter.lodging")
	assert.Contains(t, err.Error(), "upstream said 503")

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, KindExecutionFailed, toolErr.Kind)
	assert.Equal(t, "adapter.lodging", toolErr.Tool)
}

func TestToolError_MessageWithoutUnderlying(t *testing.T) {
	err := newToolError(KindCircuitOpen, "adapter.fx", nil)

	assert.Equal(t, "tool adapter.fx: circuit breaker open", err.Error())
}
