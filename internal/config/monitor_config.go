package config

import (
	"time"
)

// MonitorConfig defines configuration for the monitoring loop
type MonitorConfig struct {
	CheckIntervalMs     int      `json:"check_interval_ms,omitempty" yaml:"check_interval_ms,omitempty" validate:"omitempty,min=1"`
	FetchTimeoutSeconds int      `json:"fetch_timeout_seconds,omitempty" yaml:"fetch_timeout_seconds,omitempty" validate:"omitempty,min=1"`
	MaxRetries          int      `json:"max_retries" yaml:"max_retries" validate:"min=0,max=10"`
	RetryBaseDelayMs    int      `json:"retry_base_delay_ms,omitempty" yaml:"retry_base_delay_ms,omitempty" validate:"omitempty,min=1"`
	RetryMaxDelayMs     int      `json:"retry_max_delay_ms,omitempty" yaml:"retry_max_delay_ms,omitempty" validate:"omitempty,min=1,gtefield=RetryBaseDelayMs"`
	EnableJitter        bool     `json:"enable_jitter" yaml:"enable_jitter"`
	MaxContentSize      int      `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"` // Max content size in bytes
	UserAgent           string   `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	InsecureSkipVerify  bool     `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	InitialTargets      []string `json:"initial_targets,omitempty" yaml:"initial_targets,omitempty" validate:"omitempty,dive,url"`
	MaxCycles           int      `json:"max_cycles,omitempty" yaml:"max_cycles,omitempty" validate:"omitempty,min=0"`
	CheckOnStart        bool     `json:"check_on_start" yaml:"check_on_start"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		CheckIntervalMs:     DefaultCheckIntervalMs,
		FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
		MaxRetries:          DefaultMaxRetries,
		RetryBaseDelayMs:    DefaultRetryBaseDelayMs,
		RetryMaxDelayMs:     DefaultRetryMaxDelayMs,
		EnableJitter:        false,
		MaxContentSize:      DefaultMaxContentSize,
		UserAgent:           DefaultUserAgent,
		InsecureSkipVerify:  false,
		InitialTargets:      []string{},
		MaxCycles:           0, // 0 means run indefinitely
		CheckOnStart:        false,
	}
}

// CheckInterval returns the scheduler period, falling back to the default for unset values.
func (mc MonitorConfig) CheckInterval() time.Duration {
	if mc.CheckIntervalMs <= 0 {
		return DefaultCheckIntervalMs * time.Millisecond
	}
	return time.Duration(mc.CheckIntervalMs) * time.Millisecond
}

// FetchTimeout returns the deadline for a single fetch attempt.
func (mc MonitorConfig) FetchTimeout() time.Duration {
	if mc.FetchTimeoutSeconds <= 0 {
		return DefaultFetchTimeoutSeconds * time.Second
	}
	return time.Duration(mc.FetchTimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the first backoff delay.
func (mc MonitorConfig) RetryBaseDelay() time.Duration {
	if mc.RetryBaseDelayMs <= 0 {
		return DefaultRetryBaseDelayMs * time.Millisecond
	}
	return time.Duration(mc.RetryBaseDelayMs) * time.Millisecond
}

// RetryMaxDelay returns the backoff cap.
func (mc MonitorConfig) RetryMaxDelay() time.Duration {
	if mc.RetryMaxDelayMs <= 0 {
		return DefaultRetryMaxDelayMs * time.Millisecond
	}
	return time.Duration(mc.RetryMaxDelayMs) * time.Millisecond
}
