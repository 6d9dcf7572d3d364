package sched

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// Store persists sync job records in SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a job store backed by the given database.
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

// CreateJob inserts a new job row.
func (s *Store) CreateJob(ctx context.Context, job *Job) error {
	metadata, err := job.MetadataJSON()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sync_jobs (id, user_id, device_id, type, status, priority,
			scheduled_at, started_at, completed_at, error_message,
			retry_count, max_retries, progress, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.DeviceID, string(job.Type), string(job.Status), string(job.Priority),
		job.ScheduledAt, job.StartedAt, job.CompletedAt, nullableString(job.Error),
		job.RetryCount, job.MaxRetries, job.Progress, metadata, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "failed to create job %s", job.ID)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM sync_jobs WHERE id = ?`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, jobID))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "job %s", jobID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get job %s", jobID)
	}
	return job, nil
}

// UpdateJob persists the current state of a job.
func (s *Store) UpdateJob(ctx context.Context, job *Job) error {
	metadata, err := job.MetadataJSON()
	if err != nil {
		return err
	}
	job.UpdatedAt = time.Now()

	query := `
		UPDATE sync_jobs
		SET status = ?, priority = ?, scheduled_at = ?, started_at = ?,
			completed_at = ?, error_message = ?, retry_count = ?,
			progress = ?, metadata = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		string(job.Status), string(job.Priority), job.ScheduledAt, job.StartedAt,
		job.CompletedAt, nullableString(job.Error), job.RetryCount,
		job.Progress, metadata, job.UpdatedAt, job.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to update job %s", job.ID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "job %s", job.ID)
	}
	return nil
}

// UpdateProgress persists a job's progress and metadata without touching
// its status, so a cancellation written while the job runs survives the
// next phase-boundary checkpoint.
func (s *Store) UpdateProgress(ctx context.Context, job *Job) error {
	metadata, err := job.MetadataJSON()
	if err != nil {
		return err
	}
	job.UpdatedAt = time.Now()

	_, err = s.db.ExecContext(ctx,
		`UPDATE sync_jobs SET progress = ?, metadata = ?, updated_at = ? WHERE id = ?`,
		job.Progress, metadata, job.UpdatedAt, job.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to update progress for job %s", job.ID)
	}
	return nil
}

// ClaimJob transitions a pending job to running and stamps the start
// time. Returns false without writing when the job is no longer pending,
// so a cancel issued after the job was listed is never overwritten.
func (s *Store) ClaimJob(ctx context.Context, job *Job) (bool, error) {
	job.MarkRunning()

	result, err := s.db.ExecContext(ctx, `
		UPDATE sync_jobs
		SET status = ?, started_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		string(job.Status), job.StartedAt, job.UpdatedAt, job.ID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to claim job %s", job.ID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to check rows affected")
	}
	return rows == 1, nil
}

// DeleteJob removes a job row.
func (s *Store) DeleteJob(ctx context.Context, jobID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sync_jobs WHERE id = ?`, jobID)
	if err != nil {
		return errors.Wrapf(err, "failed to delete job %s", jobID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "job %s", jobID)
	}
	return nil
}

// FindActiveJob returns the non-terminal job for (user, device, type), or
// nil when none exists. At most one such job can exist at a time.
func (s *Store) FindActiveJob(ctx context.Context, userID, deviceID string, jobType JobType) (*Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM sync_jobs
		WHERE user_id = ? AND device_id = ? AND type = ? AND status IN ('pending', 'running')
		LIMIT 1`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, userID, deviceID, string(jobType)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active job")
	}
	return job, nil
}

// ListDue returns up to limit pending jobs whose scheduled time has
// passed, high priority first, then oldest scheduled time first.
func (s *Store) ListDue(ctx context.Context, now time.Time, limit int) ([]*Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM sync_jobs
		WHERE status = 'pending' AND scheduled_at <= ?
		ORDER BY
			CASE priority WHEN 'high' THEN 0 WHEN 'normal' THEN 1 ELSE 2 END,
			scheduled_at ASC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list due jobs")
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListByUser returns a user's jobs, newest first, optionally filtered by
// status. Pass an empty status to list all; limit <= 0 means no limit.
func (s *Store) ListByUser(ctx context.Context, userID string, status JobStatus, limit int) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM sync_jobs WHERE user_id = ?`
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list jobs for user")
	}
	defer rows.Close()

	return collectJobs(rows)
}

// CleanupOldJobs deletes terminal jobs completed before the cutoff and
// returns how many were removed.
func (s *Store) CleanupOldJobs(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM sync_jobs
		WHERE status IN ('completed', 'failed', 'cancelled') AND completed_at < ?`

	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "failed to clean up old jobs")
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count cleaned up jobs")
	}

	if removed > 0 && s.logger != nil {
		s.logger.Infow("Cleaned up old sync jobs", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// ResetStaleRunning returns running jobs that started before the cutoff
// back to pending so the next poll can pick them up. Used on startup to
// recover jobs orphaned by a crash.
func (s *Store) ResetStaleRunning(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE sync_jobs
		SET status = 'pending', started_at = NULL, updated_at = ?
		WHERE status = 'running' AND started_at < ?`

	result, err := s.db.ExecContext(ctx, query, time.Now(), cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "failed to reset stale running jobs")
	}

	reset, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count reset jobs")
	}

	if reset > 0 && s.logger != nil {
		s.logger.Warnw("Reset stale running jobs to pending", "reset", reset, "cutoff", cutoff)
	}
	return reset, nil
}

func collectJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan job row")
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
