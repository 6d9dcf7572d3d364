package sched

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nadavyigal/Running-coach--sub004/config"
	"github.com/nadavyigal/Running-coach--sub004/errors"
	"github.com/nadavyigal/Running-coach--sub004/wearable"
)

// Scheduler polls for due sync jobs and runs them through an executor,
// capped at a configured number of concurrent jobs.
type Scheduler struct {
	store     *Store
	directory *wearable.Directory
	executor  Executor
	cfg       config.SyncConfig
	logger    *zap.SugaredLogger

	mu      sync.Mutex
	active  map[string]struct{}
	running bool
	cancel  context.CancelFunc

	pollWg sync.WaitGroup
	jobsWg sync.WaitGroup
}

// NewScheduler creates a sync scheduler. Start must be called before jobs
// are picked up.
func NewScheduler(store *Store, directory *wearable.Directory, executor Executor, cfg config.SyncConfig, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		store:     store,
		directory: directory,
		executor:  executor,
		cfg:       cfg,
		logger:    logger,
		active:    make(map[string]struct{}),
	}
}

// Start begins polling for due jobs. An immediate poll runs before the
// first tick so jobs scheduled while stopped are picked up right away.
// Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true

	pollCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Infow("Sync scheduler started",
			"poll_interval", s.cfg.PollInterval(),
			"max_concurrent_jobs", s.cfg.MaxConcurrentJobs)
	}

	// pollCtx only ends the loop. Claimed jobs run on the caller's
	// context so Stop never interrupts in-flight work.
	s.pollWg.Add(1)
	go func() {
		defer s.pollWg.Done()

		s.poll(ctx)

		ticker := time.NewTicker(s.cfg.PollInterval())
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()
}

// Stop halts polling and waits for in-flight jobs to finish. Jobs already
// running are not interrupted. Calling Stop on a stopped scheduler is a
// no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.pollWg.Wait()
	s.jobsWg.Wait()

	if s.logger != nil {
		s.logger.Infow("Sync scheduler stopped")
	}
}

// ScheduleSync enqueues a sync job for a device. When a pending or running
// job already exists for the same (user, device, type), that job is
// returned instead of creating a duplicate.
func (s *Scheduler) ScheduleSync(ctx context.Context, userID, deviceID string, jobType JobType, priority Priority, scheduledAt time.Time) (*Job, error) {
	if !ValidJobType(jobType) {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unknown job type %q", jobType)
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !ValidPriority(priority) {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "unknown priority %q", priority)
	}
	if scheduledAt.IsZero() {
		scheduledAt = time.Now()
	}

	existing, err := s.store.FindActiveJob(ctx, userID, deviceID, jobType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if s.logger != nil {
			s.logger.Debugw("Sync already scheduled, returning existing job",
				"job_id", existing.ID, "user_id", userID, "device_id", deviceID, "type", jobType)
		}
		return existing, nil
	}

	job := NewJob(userID, deviceID, jobType, priority, scheduledAt)
	if s.cfg.DefaultMaxRetries > 0 {
		job.MaxRetries = s.cfg.DefaultMaxRetries
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Infow("Sync job scheduled",
			"job_id", job.ID, "user_id", userID, "device_id", deviceID,
			"type", jobType, "priority", priority, "scheduled_at", scheduledAt)
	}
	return job, nil
}

// CancelJob cancels a pending or running job. A pending job is cancelled
// immediately. A running job keeps executing until its next phase boundary
// observes the persisted cancellation. Terminal jobs cannot be cancelled.
func (s *Scheduler) CancelJob(ctx context.Context, jobID string) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	if job.Status.Terminal() {
		return errors.Wrapf(errors.ErrInvalidRequest,
			"job %s is already %s and cannot be cancelled", jobID, job.Status)
	}

	job.MarkCancelled()
	if err := s.store.UpdateJob(ctx, job); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Infow("Sync job cancelled", "job_id", jobID)
	}
	return nil
}

// GetJobStatus returns the current record of a job.
func (s *Scheduler) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	return s.store.GetJob(ctx, jobID)
}

// GetUserJobs returns up to limit of a user's jobs, newest first,
// optionally filtered by status. A non-positive limit returns all.
func (s *Scheduler) GetUserJobs(ctx context.Context, userID string, status JobStatus, limit int) ([]*Job, error) {
	return s.store.ListByUser(ctx, userID, status, limit)
}

// CleanupOldJobs deletes terminal jobs older than the configured retention.
func (s *Scheduler) CleanupOldJobs(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.RetentionAge())
	return s.store.CleanupOldJobs(ctx, cutoff)
}

// RecoverStaleJobs returns jobs stuck in running state since before the
// configured stale timeout back to pending. Intended to run once at
// startup, before Start, to recover from a crashed process.
func (s *Scheduler) RecoverStaleJobs(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.StaleRunningTimeout())
	return s.store.ResetStaleRunning(ctx, cutoff)
}

// poll claims due jobs up to the free concurrency slots and launches them.
func (s *Scheduler) poll(ctx context.Context) {
	s.mu.Lock()
	free := s.cfg.MaxConcurrentJobs - len(s.active)
	s.mu.Unlock()

	if free <= 0 {
		return
	}

	due, err := s.store.ListDue(ctx, time.Now(), free)
	if err != nil {
		if s.logger != nil {
			s.logger.Errorw("Failed to poll for due jobs", "error", err)
		}
		return
	}

	for _, job := range due {
		if !s.claim(job.ID) {
			continue
		}

		claimed, err := s.store.ClaimJob(ctx, job)
		if err != nil {
			s.release(job.ID)
			if s.logger != nil {
				s.logger.Errorw("Failed to mark job running", "job_id", job.ID, "error", err)
			}
			continue
		}
		if !claimed {
			// No longer pending: cancelled since ListDue.
			s.release(job.ID)
			continue
		}

		s.jobsWg.Add(1)
		go func(job *Job) {
			defer s.jobsWg.Done()
			s.runJob(ctx, job)
		}(job)
	}
}

// claim reserves a concurrency slot for the job. Returns false when the
// job is already active or all slots are taken.
func (s *Scheduler) claim(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.active[jobID]; taken {
		return false
	}
	if len(s.active) >= s.cfg.MaxConcurrentJobs {
		return false
	}
	s.active[jobID] = struct{}{}
	return true
}

func (s *Scheduler) release(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, jobID)
}

// ActiveJobs returns how many jobs currently hold a concurrency slot.
func (s *Scheduler) ActiveJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// runJob resolves the job's device, executes it, and settles the outcome:
// completed, retried with backoff, failed, or left cancelled. The
// concurrency slot is released on every exit path.
func (s *Scheduler) runJob(ctx context.Context, job *Job) {
	defer s.release(job.ID)

	dev, err := s.resolveDevice(ctx, job)
	if err == nil {
		err = s.executor.Execute(ctx, job, dev)
	}

	if err == nil {
		s.settleSuccess(ctx, job, dev)
		return
	}

	if errors.Is(err, context.Canceled) {
		// Cancellation observed mid-run. The record is already
		// cancelled, keep whatever progress was persisted.
		if s.logger != nil {
			s.logger.Infow("Sync job stopped by cancellation", "job_id", job.ID)
		}
		return
	}

	s.settleFailure(ctx, job, err)
}

// resolveDevice looks up the job's device and verifies it can sync.
// Missing or disconnected devices are terminal failures.
func (s *Scheduler) resolveDevice(ctx context.Context, job *Job) (*wearable.Device, error) {
	dev, err := s.directory.Get(ctx, job.DeviceID)
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, ErrDeviceNotFound
	}
	if !dev.Connected() {
		return nil, ErrDeviceNotConnected
	}
	return dev, nil
}

func (s *Scheduler) settleSuccess(ctx context.Context, job *Job, dev *wearable.Device) {
	// A cancel issued while the job ran wins over the successful result.
	current, err := s.store.GetJob(ctx, job.ID)
	if err == nil && current.Status == StatusCancelled {
		if s.logger != nil {
			s.logger.Infow("Sync job finished but was cancelled, keeping cancellation", "job_id", job.ID)
		}
		return
	}

	job.MarkCompleted()
	if err := s.store.UpdateJob(ctx, job); err != nil {
		if s.logger != nil {
			s.logger.Errorw("Failed to mark job completed", "job_id", job.ID, "error", err)
		}
		return
	}

	if err := s.directory.TouchLastSync(ctx, dev.ID, time.Now()); err != nil {
		if s.logger != nil {
			s.logger.Warnw("Failed to update device last sync time",
				"device_id", dev.ID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Infow("Sync job completed",
			"job_id", job.ID, "type", job.Type, "retry_count", job.RetryCount)
	}
}

func (s *Scheduler) settleFailure(ctx context.Context, job *Job, execErr error) {
	// A cancel issued while the job ran wins over any retry or failure,
	// the same as on the success path. Cancelled is final.
	current, err := s.store.GetJob(ctx, job.ID)
	if err == nil && current.Status == StatusCancelled {
		if s.logger != nil {
			s.logger.Infow("Sync job failed but was cancelled, keeping cancellation",
				"job_id", job.ID, "error", execErr.Error())
		}
		return
	}

	if IsTerminal(execErr) {
		job.MarkFailed(execErr.Error())
		if err := s.store.UpdateJob(ctx, job); err != nil && s.logger != nil {
			s.logger.Errorw("Failed to mark job failed", "job_id", job.ID, "error", err)
		}
		if s.logger != nil {
			s.logger.Warnw("Sync job failed with non-retryable error",
				"job_id", job.ID, "error", execErr.Error())
		}
		return
	}

	if job.CanRetry() {
		backoff := backoffFor(job.RetryCount + 1)
		job.ScheduleRetry(execErr.Error(), time.Now().Add(backoff))
		if err := s.store.UpdateJob(ctx, job); err != nil && s.logger != nil {
			s.logger.Errorw("Failed to schedule job retry", "job_id", job.ID, "error", err)
		}
		if s.logger != nil {
			s.logger.Infow("Sync job scheduled for retry",
				"job_id", job.ID,
				"retry_count", job.RetryCount,
				"backoff", backoff,
				"error", execErr.Error())
		}
		return
	}

	job.MarkFailed(execErr.Error())
	if err := s.store.UpdateJob(ctx, job); err != nil && s.logger != nil {
		s.logger.Errorw("Failed to mark job failed", "job_id", job.ID, "error", err)
	}
	if s.logger != nil {
		s.logger.Warnw("Sync job failed after exhausting retries",
			"job_id", job.ID, "retry_count", job.RetryCount, "error", execErr.Error())
	}
}
