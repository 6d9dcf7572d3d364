package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "runcoach.db")

	// Sync scheduler defaults
	v.SetDefault("sync.max_concurrent_jobs", 3)
	v.SetDefault("sync.poll_interval_seconds", 30)
	v.SetDefault("sync.default_max_retries", 3)
	v.SetDefault("sync.retention_days", 7)
	v.SetDefault("sync.stale_running_minutes", 30)
	v.SetDefault("sync.provider_max_calls_per_minute", 60)
}
