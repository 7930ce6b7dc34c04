package toolcall

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestZerologAttemptLogger_SuccessLogsDebugWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAttemptLogger(zerolog.New(&buf))

	tctx := ToolContext{TraceID: "trace-1", RunID: "run-1", ToolName: "adapter.fx"}
	logger.LogAttempt(tctx, 1, OutcomeSuccess, 120*time.Millisecond, false, "")

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "adapter.fx", entry["tool"])
	assert.Equal(t, float64(1), entry["attempt"])
	assert.Equal(t, OutcomeSuccess, entry["outcome"])
	assert.Equal(t, false, entry["cache_hit"])
	assert.Equal(t, "tool attempt", entry["message"])
	assert.NotContains(t, entry, "error_reason")
}

func TestZerologAttemptLogger_FailuresLogWarn(t *testing.T) {
	cases := []struct {
		outcome string
		reason  string
	}{
		{outcome: OutcomeTimeout, reason: ReasonTimeout},
		{outcome: OutcomeBreakerOpen, reason: ReasonBreakerOpen},
		{outcome: OutcomeError, reason: ReasonExecutionError},
	}

	for _, tc := range cases {
		t.Run(tc.outcome, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewZerologAttemptLogger(zerolog.New(&buf))

			logger.LogAttempt(NewToolContext("adapter.weather"), 2, tc.outcome, time.Second, false, tc.reason)

			entry := decodeLogLine(t, &buf)
			assert.Equal(t, "warn", entry["level"])
			assert.Equal(t, tc.outcome, entry["outcome"])
			assert.Equal(t, tc.reason, entry["error_reason"])
		})
	}
}

func TestZerologAttemptLogger_OmitsEmptyRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAttemptLogger(zerolog.New(&buf))

	tctx := ToolContext{TraceID: "trace-1", ToolName: "adapter.fx"}
	logger.LogAttempt(tctx, 1, OutcomeCacheHit, 0, true, "")

	entry := decodeLogLine(t, &buf)
	assert.NotContains(t, entry, "run_id")
	assert.Equal(t, true, entry["cache_hit"])
}

func TestMultiAttemptLogger_FansOut(t *testing.T) {
	first := NewCallRecorder(4)
	second := NewCallRecorder(4)
	multi := MultiAttemptLogger(first, second)

	multi.LogAttempt(NewToolContext("adapter.fx"), 1, OutcomeSuccess, time.Millisecond, false, "")

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}
