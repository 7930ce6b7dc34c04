// Package toolcall wraps calls to unreliable external data providers with
// uniform timeout, retry, circuit-breaking, and caching semantics, and stamps
// every result with provenance metadata for downstream citation.
//
// Invariants:
//   - Cache lookups precede the breaker gate; a fresh cached answer stays
//     servable even while the live tool is failing.
//   - Timeouts and execution errors count as breaker failures; cancellations
//     never do and are never retried.
//   - Every failure surfaces as a *ToolError of one of four kinds.
//
// Usage:
//
//	exec := toolcall.NewExecutor(toolcall.WithMetrics(collector))
//	tctx := toolcall.NewToolContext("adapter.weather")
//	res, err := toolcall.Execute(ctx, exec, tctx, toolcall.DefaultConfig(),
//		fetchForecast, payload, toolcall.WithCacheTTL(24*time.Hour))
package toolcall
