package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadavyigal/Running-coach--sub004/activity"
	"github.com/nadavyigal/Running-coach--sub004/config"
	"github.com/nadavyigal/Running-coach--sub004/logger"
	"github.com/nadavyigal/Running-coach--sub004/sched"
	"github.com/nadavyigal/Running-coach--sub004/wearable"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage background wearable sync jobs",
}

var (
	syncType     string
	syncPriority string
	syncStatus   string
	syncLimit    int
)

var syncDaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the sync scheduler until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		jobStore := sched.NewStore(conn, logger.Logger)
		directory := wearable.NewDirectory(conn, logger.Logger)
		activityStore := activity.NewStore(conn, logger.Logger)

		// TODO: register vendor providers here once the OAuth
		// integrations land. Until then jobs for unregistered device
		// types fail as unsupported.
		registry := wearable.NewRegistry(cfg.Sync.ProviderMaxCallsPerMinute)

		executor := sched.NewSyncExecutor(registry, activityStore, jobStore, logger.Logger)
		scheduler := sched.NewScheduler(jobStore, directory, executor, cfg.Sync, logger.Logger)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if reset, err := scheduler.RecoverStaleJobs(ctx); err != nil {
			logger.Warnw("Stale job recovery failed", "error", err)
		} else if reset > 0 {
			logger.Infow("Recovered stale jobs from previous run", "count", reset)
		}

		scheduler.Start(ctx)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Infow("Shutting down sync scheduler", "signal", sig)

		scheduler.Stop()
		return nil
	},
}

var syncScheduleCmd = &cobra.Command{
	Use:   "schedule <user-id> <device-id>",
	Short: "Schedule a sync job for a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		jobStore := sched.NewStore(conn, logger.Logger)
		directory := wearable.NewDirectory(conn, logger.Logger)
		scheduler := sched.NewScheduler(jobStore, directory, nil, cfg.Sync, logger.Logger)

		job, err := scheduler.ScheduleSync(cmd.Context(), args[0], args[1],
			sched.JobType(syncType), sched.Priority(syncPriority), time.Now())
		if err != nil {
			return err
		}

		fmt.Printf("Scheduled %s job %s (status %s)\n", job.Type, job.ID, job.Status)
		return nil
	},
}

var syncLsCmd = &cobra.Command{
	Use:   "ls <user-id>",
	Short: "List a user's sync jobs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		jobStore := sched.NewStore(conn, logger.Logger)
		jobs, err := jobStore.ListByUser(cmd.Context(), args[0], sched.JobStatus(syncStatus), syncLimit)
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Println("No sync jobs found.")
			return nil
		}

		for _, job := range jobs {
			line := fmt.Sprintf("%s  %-14s %-10s device=%s progress=%d%%",
				job.ID, job.Type, job.Status, job.DeviceID, job.Progress)
			if job.RetryCount > 0 {
				line += fmt.Sprintf(" retries=%d", job.RetryCount)
			}
			if job.Error != "" {
				line += fmt.Sprintf(" error=%q", job.Error)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show one sync job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		jobStore := sched.NewStore(conn, logger.Logger)
		job, err := jobStore.GetJob(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Job:        %s\n", job.ID)
		fmt.Printf("Type:       %s\n", job.Type)
		fmt.Printf("Status:     %s\n", job.Status)
		fmt.Printf("Priority:   %s\n", job.Priority)
		fmt.Printf("Progress:   %d%%\n", job.Progress)
		fmt.Printf("Retries:    %d/%d\n", job.RetryCount, job.MaxRetries)
		fmt.Printf("Scheduled:  %s\n", job.ScheduledAt.Format(time.RFC3339))
		if job.StartedAt != nil {
			fmt.Printf("Started:    %s\n", job.StartedAt.Format(time.RFC3339))
		}
		if job.CompletedAt != nil {
			fmt.Printf("Completed:  %s\n", job.CompletedAt.Format(time.RFC3339))
		}
		if job.Error != "" {
			fmt.Printf("Error:      %s\n", job.Error)
		}
		for key, value := range job.Metadata {
			fmt.Printf("  %s: %v\n", key, value)
		}
		return nil
	},
}

var syncCancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a pending or running sync job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		jobStore := sched.NewStore(conn, logger.Logger)
		directory := wearable.NewDirectory(conn, logger.Logger)
		scheduler := sched.NewScheduler(jobStore, directory, nil, cfg.Sync, logger.Logger)

		if err := scheduler.CancelJob(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Cancelled job %s\n", args[0])
		return nil
	},
}

var syncCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete terminal sync jobs past the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		conn, err := openDatabase()
		if err != nil {
			return err
		}
		defer conn.Close()

		jobStore := sched.NewStore(conn, logger.Logger)
		cutoff := time.Now().Add(-cfg.Sync.RetentionAge())
		removed, err := jobStore.CleanupOldJobs(cmd.Context(), cutoff)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d old sync jobs.\n", removed)
		return nil
	},
}

func init() {
	syncScheduleCmd.Flags().StringVar(&syncType, "type", string(sched.JobFullSync),
		"job type: full_sync, activities, heart_rate, metrics")
	syncScheduleCmd.Flags().StringVar(&syncPriority, "priority", string(sched.PriorityNormal),
		"job priority: high, normal, low")
	syncLsCmd.Flags().StringVar(&syncStatus, "status", "", "filter by status")
	syncLsCmd.Flags().IntVar(&syncLimit, "limit", 10, "max jobs to show (0 for all)")

	syncCmd.AddCommand(syncDaemonCmd)
	syncCmd.AddCommand(syncScheduleCmd)
	syncCmd.AddCommand(syncLsCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncCancelCmd)
	syncCmd.AddCommand(syncCleanupCmd)
}
