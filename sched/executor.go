package sched

import (
	"context"

	"go.uber.org/zap"

	"github.com/nadavyigal/Running-coach--sub004/activity"
	"github.com/nadavyigal/Running-coach--sub004/errors"
	"github.com/nadavyigal/Running-coach--sub004/wearable"
)

// Executor performs the actual sync work for one job. The scheduler has
// already resolved the device and verified it is connected.
type Executor interface {
	Execute(ctx context.Context, job *Job, dev *wearable.Device) error
}

// SyncExecutor pulls data from wearable providers and stores it. One
// executor serves all job types.
type SyncExecutor struct {
	registry *wearable.Registry
	activity *activity.Store
	jobs     *Store
	logger   *zap.SugaredLogger
}

// NewSyncExecutor creates an executor over the given provider registry
// and stores.
func NewSyncExecutor(registry *wearable.Registry, activityStore *activity.Store, jobStore *Store, logger *zap.SugaredLogger) *SyncExecutor {
	return &SyncExecutor{
		registry: registry,
		activity: activityStore,
		jobs:     jobStore,
		logger:   logger,
	}
}

// Execute dispatches a job to its type-specific sync routine.
func (e *SyncExecutor) Execute(ctx context.Context, job *Job, dev *wearable.Device) error {
	provider, err := e.registry.Provider(dev.Type)
	if err != nil {
		return ErrUnsupportedDeviceType
	}

	cursor := wearable.SyncCursor{}
	if dev.LastSyncAt != nil {
		cursor.Since = *dev.LastSyncAt
	}

	switch job.Type {
	case JobActivities:
		return e.syncActivities(ctx, job, dev, provider, cursor)
	case JobHeartRate:
		return e.syncHeartRate(ctx, job, dev, provider, cursor)
	case JobMetrics:
		return e.syncMetrics(ctx, job, dev, provider, cursor)
	case JobFullSync:
		return e.fullSync(ctx, job, dev, provider, cursor)
	default:
		return errors.Newf("unknown job type: %s", job.Type)
	}
}

func (e *SyncExecutor) syncActivities(ctx context.Context, job *Job, dev *wearable.Device, provider wearable.Provider, cursor wearable.SyncCursor) error {
	records, err := provider.Activities(ctx, dev, cursor)
	if err != nil {
		return errors.Wrap(err, "failed to pull activities")
	}

	result, err := e.activity.ImportRuns(ctx, job.UserID, dev.ID, records)
	if err != nil {
		return err
	}

	job.Metadata["activities_imported"] = result.Imported
	job.Metadata["activities_skipped"] = result.Skipped
	return nil
}

func (e *SyncExecutor) syncHeartRate(ctx context.Context, job *Job, dev *wearable.Device, provider wearable.Provider, cursor wearable.SyncCursor) error {
	samples, err := provider.HeartRate(ctx, dev, cursor)
	if err != nil {
		return errors.Wrap(err, "failed to pull heart rate data")
	}

	if err := e.activity.SaveHeartRate(ctx, dev.ID, samples); err != nil {
		return err
	}

	job.Metadata["heart_rate_samples"] = len(samples)
	return nil
}

func (e *SyncExecutor) syncMetrics(ctx context.Context, job *Job, dev *wearable.Device, provider wearable.Provider, cursor wearable.SyncCursor) error {
	samples, err := provider.Metrics(ctx, dev, cursor)
	if err != nil {
		return errors.Wrap(err, "failed to pull device metrics")
	}

	if err := e.activity.SaveMetrics(ctx, dev.ID, samples); err != nil {
		return err
	}

	job.Metadata["metric_samples"] = len(samples)
	return nil
}

// fullSync runs the three phases in order, persisting progress after each
// and honoring cancellation requested while the job runs. Work already
// persisted by completed phases is kept when a later phase is cancelled.
func (e *SyncExecutor) fullSync(ctx context.Context, job *Job, dev *wearable.Device, provider wearable.Provider, cursor wearable.SyncCursor) error {
	phases := []struct {
		progress int
		run      func() error
	}{
		{33, func() error { return e.syncActivities(ctx, job, dev, provider, cursor) }},
		{66, func() error { return e.syncHeartRate(ctx, job, dev, provider, cursor) }},
		{100, func() error { return e.syncMetrics(ctx, job, dev, provider, cursor) }},
	}

	for _, phase := range phases {
		cancelled, err := e.cancellationRequested(ctx, job.ID)
		if err != nil {
			return err
		}
		if cancelled {
			return context.Canceled
		}

		if err := phase.run(); err != nil {
			return err
		}

		job.SetProgress(phase.progress)
		if err := e.jobs.UpdateProgress(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// cancellationRequested re-reads the persisted job status so a cancel
// issued mid-run takes effect at the next phase boundary.
func (e *SyncExecutor) cancellationRequested(ctx context.Context, jobID string) (bool, error) {
	current, err := e.jobs.GetJob(ctx, jobID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check for cancellation")
	}
	return current.Status == StatusCancelled, nil
}
