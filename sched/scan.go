package sched

import (
	"database/sql"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// jobColumns is the column list every job query selects, in scan order.
const jobColumns = `id, user_id, device_id, type, status, priority,
	scheduled_at, started_at, completed_at, error_message,
	retry_count, max_retries, progress, metadata, created_at, updated_at`

// jobScanArgs holds intermediate values for scanning a job row.
type jobScanArgs struct {
	jobType     string
	status      string
	priority    string
	startedAt   sql.NullTime
	completedAt sql.NullTime
	errMsg      sql.NullString
	metadata    sql.NullString
}

// jobScanTargets returns scan destinations matching jobColumns order.
func jobScanTargets(job *Job, args *jobScanArgs) []interface{} {
	return []interface{}{
		&job.ID, &job.UserID, &job.DeviceID, &args.jobType, &args.status, &args.priority,
		&job.ScheduledAt, &args.startedAt, &args.completedAt, &args.errMsg,
		&job.RetryCount, &job.MaxRetries, &job.Progress, &args.metadata,
		&job.CreatedAt, &job.UpdatedAt,
	}
}

// applyJobScanArgs copies scanned intermediates onto the job.
func applyJobScanArgs(job *Job, args *jobScanArgs) error {
	job.Type = JobType(args.jobType)
	job.Status = JobStatus(args.status)
	job.Priority = Priority(args.priority)

	if args.startedAt.Valid {
		job.StartedAt = &args.startedAt.Time
	}
	if args.completedAt.Valid {
		job.CompletedAt = &args.completedAt.Time
	}
	if args.errMsg.Valid {
		job.Error = args.errMsg.String
	}

	metadata := ""
	if args.metadata.Valid {
		metadata = args.metadata.String
	}
	if err := job.SetMetadataJSON(metadata); err != nil {
		return errors.Wrapf(err, "job %s has corrupt metadata", job.ID)
	}
	return nil
}

// scanJob scans a single job row from a *sql.Row or *sql.Rows.
func scanJob(s interface{ Scan(...interface{}) error }) (*Job, error) {
	var job Job
	var args jobScanArgs

	if err := s.Scan(jobScanTargets(&job, &args)...); err != nil {
		return nil, err
	}
	if err := applyJobScanArgs(&job, &args); err != nil {
		return nil, err
	}
	return &job, nil
}
