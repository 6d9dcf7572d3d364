// Package commands implements the runcoach CLI.
package commands

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/nadavyigal/Running-coach--sub004/config"
	"github.com/nadavyigal/Running-coach--sub004/db"
	"github.com/nadavyigal/Running-coach--sub004/errors"
	"github.com/nadavyigal/Running-coach--sub004/logger"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "runcoach",
	Short: "Running coach backend: wearable sync scheduler and training plans",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(jsonOutput)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit logs as JSON")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase opens the configured SQLite database and applies pending
// migrations. The caller owns the returned handle.
func openDatabase() (*sql.DB, error) {
	path, err := config.GetDatabasePath()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve database path")
	}

	conn, err := db.Open(path, logger.Logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(conn, logger.Logger); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
