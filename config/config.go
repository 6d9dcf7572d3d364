// Package config loads the running-coach backend configuration.
package config

import "time"

// Config represents the backend configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	Sync     SyncConfig     `mapstructure:"sync" toml:"sync"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// SyncConfig configures the background synchronization scheduler
type SyncConfig struct {
	// MaxConcurrentJobs caps how many sync jobs may run at once.
	// Read once per process lifetime (default: 3).
	MaxConcurrentJobs int `mapstructure:"max_concurrent_jobs" toml:"max_concurrent_jobs"`

	// PollIntervalSeconds is how often the scheduler polls for eligible
	// pending jobs (default: 30)
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" toml:"poll_interval_seconds"`

	// DefaultMaxRetries is the retry budget fixed on each job at creation
	// (default: 3)
	DefaultMaxRetries int `mapstructure:"default_max_retries" toml:"default_max_retries"`

	// RetentionDays is how long terminal jobs are kept before the cleanup
	// sweep deletes them (default: 7)
	RetentionDays int `mapstructure:"retention_days" toml:"retention_days"`

	// StaleRunningMinutes is how long a job may sit in running state before
	// the startup recovery sweep considers it orphaned by a crash
	// (default: 30)
	StaleRunningMinutes int `mapstructure:"stale_running_minutes" toml:"stale_running_minutes"`

	// ProviderMaxCallsPerMinute rate-limits calls to each wearable provider
	// (default: 60)
	ProviderMaxCallsPerMinute int `mapstructure:"provider_max_calls_per_minute" toml:"provider_max_calls_per_minute"`
}

// PollInterval returns the configured poll interval as a duration.
func (c SyncConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RetentionAge returns the configured retention threshold as a duration.
func (c SyncConfig) RetentionAge() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// StaleRunningTimeout returns the orphan-detection threshold as a duration.
func (c SyncConfig) StaleRunningTimeout() time.Duration {
	return time.Duration(c.StaleRunningMinutes) * time.Minute
}
