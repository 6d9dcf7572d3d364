package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nadavyigal/Running-coach--sub004/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("database.path                      = %s\n", cfg.Database.Path)
		fmt.Printf("sync.max_concurrent_jobs           = %d\n", cfg.Sync.MaxConcurrentJobs)
		fmt.Printf("sync.poll_interval_seconds         = %d\n", cfg.Sync.PollIntervalSeconds)
		fmt.Printf("sync.default_max_retries           = %d\n", cfg.Sync.DefaultMaxRetries)
		fmt.Printf("sync.retention_days                = %d\n", cfg.Sync.RetentionDays)
		fmt.Printf("sync.stale_running_minutes         = %d\n", cfg.Sync.StaleRunningMinutes)
		fmt.Printf("sync.provider_max_calls_per_minute = %d\n", cfg.Sync.ProviderMaxCallsPerMinute)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the user config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		path, err := config.DefaultUserConfigPath()
		if err != nil {
			return err
		}

		if err := config.Persist(cfg, path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
