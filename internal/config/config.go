package config

import (
	"fmt"
	"time"

	"github.com/amra/tripkit/pkg/toolcall"
)

// Config represents the main tripkit configuration
type Config struct {
	// Tools
	Tools ToolsConfig `json:"tools" mapstructure:"tools"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ToolsConfig holds tool invocation settings
type ToolsConfig struct {
	SoftTimeoutMS    int `json:"soft_timeout_ms" mapstructure:"soft_timeout_ms"`
	HardTimeoutMS    int `json:"hard_timeout_ms" mapstructure:"hard_timeout_ms"`
	RetryCount       int `json:"retry_count" mapstructure:"retry_count"`
	RetryJitterMinMS int `json:"retry_jitter_min_ms" mapstructure:"retry_jitter_min_ms"`
	RetryJitterMaxMS int `json:"retry_jitter_max_ms" mapstructure:"retry_jitter_max_ms"`

	BreakerFailureThreshold int `json:"breaker_failure_threshold" mapstructure:"breaker_failure_threshold"`
	BreakerWindowSec        int `json:"breaker_window_sec" mapstructure:"breaker_window_sec"`
	BreakerHalfOpenSec      int `json:"breaker_half_open_sec" mapstructure:"breaker_half_open_sec"`

	// CacheTTLSec maps tool name to cache TTL in seconds; absent or zero
	// disables caching for that tool.
	CacheTTLSec map[string]int `json:"cache_ttl_sec" mapstructure:"cache_ttl_sec"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration. Tool settings mirror the
// production deployment: 2s/4s timeouts, one retry with 200-500ms jitter,
// breaker at 5 failures per 60s with a 30s half-open cooldown, and 24h cache
// TTLs for the slow-moving weather and FX lookups.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			SoftTimeoutMS:           2000,
			HardTimeoutMS:           4000,
			RetryCount:              1,
			RetryJitterMinMS:        200,
			RetryJitterMaxMS:        500,
			BreakerFailureThreshold: 5,
			BreakerWindowSec:        60,
			BreakerHalfOpenSec:      30,
			CacheTTLSec: map[string]int{
				"adapter.weather": 24 * 3600,
				"adapter.fx":      24 * 3600,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	t := c.Tools
	if t.HardTimeoutMS <= 0 {
		return fmt.Errorf("tools.hard_timeout_ms must be positive")
	}
	if t.SoftTimeoutMS > t.HardTimeoutMS {
		return fmt.Errorf("tools.soft_timeout_ms must not exceed tools.hard_timeout_ms")
	}
	if t.RetryCount < 0 {
		return fmt.Errorf("tools.retry_count must not be negative")
	}
	if t.RetryJitterMinMS < 0 || t.RetryJitterMaxMS < t.RetryJitterMinMS {
		return fmt.Errorf("tools.retry_jitter bounds are invalid")
	}
	if t.BreakerFailureThreshold <= 0 {
		return fmt.Errorf("tools.breaker_failure_threshold must be positive")
	}
	if t.BreakerWindowSec <= 0 || t.BreakerHalfOpenSec <= 0 {
		return fmt.Errorf("tools.breaker window and half-open durations must be positive")
	}
	for tool, ttl := range t.CacheTTLSec {
		if ttl < 0 {
			return fmt.Errorf("tools.cache_ttl_sec[%s] must not be negative", tool)
		}
	}
	return nil
}

// ToolConfig builds the per-call toolcall.ToolConfig for toolName, applying
// that tool's cache TTL.
func (c *Config) ToolConfig(toolName string) toolcall.ToolConfig {
	t := c.Tools
	return toolcall.ToolConfig{
		SoftTimeout:             time.Duration(t.SoftTimeoutMS) * time.Millisecond,
		HardTimeout:             time.Duration(t.HardTimeoutMS) * time.Millisecond,
		RetryCount:              t.RetryCount,
		RetryJitterMin:          time.Duration(t.RetryJitterMinMS) * time.Millisecond,
		RetryJitterMax:          time.Duration(t.RetryJitterMaxMS) * time.Millisecond,
		BreakerFailureThreshold: t.BreakerFailureThreshold,
		BreakerWindow:           time.Duration(t.BreakerWindowSec) * time.Second,
		BreakerHalfOpenAfter:    time.Duration(t.BreakerHalfOpenSec) * time.Second,
		CacheTTL:                time.Duration(t.CacheTTLSec[toolName]) * time.Second,
	}
}
