package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amra/tripkit/internal/config"
	"github.com/amra/tripkit/internal/logger"
	"github.com/amra/tripkit/internal/metrics"
	"github.com/amra/tripkit/internal/tracing"
	"github.com/amra/tripkit/pkg/toolcall"
)

var (
	probeTool     string
	probeCalls    int
	probeFailures int
	probeLatency  time.Duration
	probeCacheTTL time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run a synthetic tool through the executor",
	Long: `Probe runs a synthetic unit of work (fails a configured number of times,
then succeeds with a fixed latency) through a fully wired executor and prints
each call's outcome. Use it to verify retry, breaker, and cache settings in a
deployment before pointing real adapters at them.`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().StringVar(&probeTool, "tool", "probe.synthetic", "tool name for breaker/cache/metrics identity")
	probeCmd.Flags().IntVar(&probeCalls, "calls", 8, "number of calls to issue")
	probeCmd.Flags().IntVar(&probeFailures, "failures", 3, "number of initial calls that fail")
	probeCmd.Flags().DurationVar(&probeLatency, "latency", 50*time.Millisecond, "synthetic latency per attempt")
	probeCmd.Flags().DurationVar(&probeCacheTTL, "cache-ttl", 0, "cache TTL for the probe payload (0 disables)")
	rootCmd.AddCommand(probeCmd)
}

type probePayload struct {
	Target string `json:"target"`
}

// CacheKey makes all probe calls with the same target share a cache entry.
func (p probePayload) CacheKey() string {
	return p.Target
}

type probeResponse struct {
	Target string `json:"target"`
	Calls  int    `json:"calls"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	logCfg.Level = logLevel
	lg, err := logger.New(logger.Config{
		Level:   logCfg.Level,
		File:    logCfg.File,
		Console: logCfg.Console,
		Pretty:  logCfg.Pretty,
	})
	if err != nil {
		return err
	}
	defer lg.Close()

	collector := metrics.New()
	recorder := toolcall.NewCallRecorder(probeCalls * 4)
	exec := toolcall.NewExecutor(
		toolcall.WithMetrics(collector),
		toolcall.WithAttemptLogger(toolcall.MultiAttemptLogger(
			toolcall.NewZerologAttemptLogger(lg.GetZerolog()),
			recorder,
		)),
	)

	toolCfg := cfg.ToolConfig(probeTool)
	if probeCacheTTL > 0 {
		toolCfg.CacheTTL = probeCacheTTL
	}

	invoked := 0
	fn := func(ctx context.Context, payload probePayload) (probeResponse, error) {
		invoked++
		select {
		case <-time.After(probeLatency):
		case <-ctx.Done():
			return probeResponse{}, ctx.Err()
		}
		if invoked <= probeFailures {
			return probeResponse{}, fmt.Errorf("synthetic failure %d", invoked)
		}
		return probeResponse{Target: payload.Target, Calls: invoked}, nil
	}

	ctx := tracing.WithTraceID(cmd.Context(), tracing.NewTraceID())
	payload := probePayload{Target: "probe"}

	for i := 1; i <= probeCalls; i++ {
		tctx := tracing.ToolContextFromContext(ctx, probeTool)
		res, err := toolcall.Execute(ctx, exec, tctx, toolCfg, fn, payload)
		switch {
		case err == nil:
			fmt.Printf("call %d: ok (cache_hit=%t fetched_at=%s)\n",
				i, res.Provenance.CacheHit, res.Provenance.FetchedAt.Format(time.RFC3339))
		case errors.Is(err, toolcall.ErrCircuitOpen):
			fmt.Printf("call %d: rejected, breaker open\n", i)
		default:
			fmt.Printf("call %d: failed: %v\n", i, err)
		}
	}

	fmt.Printf("unit of work invoked %d times across %d calls\n", invoked, probeCalls)
	for _, rec := range recorder.Records() {
		fmt.Printf("  attempt %d tool=%s outcome=%s latency_ms=%d cache_hit=%t\n",
			rec.Attempt, rec.Tool, rec.Outcome, rec.LatencyMS, rec.CacheHit)
	}

	return nil
}
