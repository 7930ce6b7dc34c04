package toolcall

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewToolContext(t *testing.T) {
	ctx := NewToolContext("adapter.weather")

	assert.Equal(t, "adapter.weather", ctx.ToolName)
	assert.NotEmpty(t, ctx.TraceID)
	assert.Empty(t, ctx.RunID)

	other := NewToolContext("adapter.weather")
	assert.NotEqual(t, ctx.TraceID, other.TraceID)
}

func TestCancelToken_NotCancelledByDefault(t *testing.T) {
	token := NewCancelToken()

	assert.False(t, token.Cancelled())
	assert.NoError(t, token.Err())
}

func TestCancelToken_ErrWhenCancelled(t *testing.T) {
	token := NewCancelToken()
	token.Cancel()

	assert.True(t, token.Cancelled())
	assert.ErrorIs(t, token.Err(), ErrCancelled)

	// Idempotent.
	token.Cancel()
	assert.True(t, token.Cancelled())
}

func TestCancelToken_NilIsNotCancelled(t *testing.T) {
	var token *CancelToken

	assert.False(t, token.Cancelled())
	assert.NoError(t, token.Err())
}

func TestCancelToken_ConcurrentCancel(t *testing.T) {
	token := NewCancelToken()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token.Cancel()
		}()
	}
	wg.Wait()

	assert.True(t, token.Cancelled())
}
