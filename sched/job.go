// Package sched runs background wearable sync jobs: durable SQLite-backed
// job records, a polling scheduler with a concurrency cap, retry with
// exponential backoff, and cooperative cancellation.
package sched

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// JobType identifies the kind of sync work a job performs.
type JobType string

const (
	JobFullSync   JobType = "full_sync"
	JobActivities JobType = "activities"
	JobHeartRate  JobType = "heart_rate"
	JobMetrics    JobType = "metrics"
)

// ValidJobType reports whether t names a known sync job type.
func ValidJobType(t JobType) bool {
	switch t {
	case JobFullSync, JobActivities, JobHeartRate, JobMetrics:
		return true
	}
	return false
}

// JobStatus is the lifecycle state of a sync job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status is a final state.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Priority orders eligible jobs within a poll cycle.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// ValidPriority reports whether p names a known priority level.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// DefaultMaxRetries is the retry budget fixed on a job at creation.
const DefaultMaxRetries = 3

// Job is a durable sync job record.
type Job struct {
	ID          string
	UserID      string
	DeviceID    string
	Type        JobType
	Status      JobStatus
	Priority    Priority
	ScheduledAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Error       string
	RetryCount  int
	MaxRetries  int
	Progress    int
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewJob creates a pending job scheduled at the given time.
func NewJob(userID, deviceID string, jobType JobType, priority Priority, scheduledAt time.Time) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.New().String(),
		UserID:      userID,
		DeviceID:    deviceID,
		Type:        jobType,
		Status:      StatusPending,
		Priority:    priority,
		ScheduledAt: scheduledAt,
		MaxRetries:  DefaultMaxRetries,
		Metadata:    make(map[string]interface{}),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkRunning transitions the job to running and stamps the start time.
func (j *Job) MarkRunning() {
	now := time.Now()
	j.Status = StatusRunning
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted transitions the job to completed with full progress.
func (j *Job) MarkCompleted() {
	now := time.Now()
	j.Status = StatusCompleted
	j.CompletedAt = &now
	j.Progress = 100
	j.Error = ""
	j.UpdatedAt = now
}

// MarkFailed transitions the job to failed, recording the error message.
func (j *Job) MarkFailed(errMsg string) {
	now := time.Now()
	j.Status = StatusFailed
	j.CompletedAt = &now
	j.Error = errMsg
	j.UpdatedAt = now
}

// MarkCancelled transitions the job to cancelled.
func (j *Job) MarkCancelled() {
	now := time.Now()
	j.Status = StatusCancelled
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// ScheduleRetry resets the job to pending for another attempt, bumping the
// retry count and recording the error that triggered the retry.
func (j *Job) ScheduleRetry(errMsg string, at time.Time) {
	j.Status = StatusPending
	j.RetryCount++
	j.Error = errMsg
	j.ScheduledAt = at
	j.StartedAt = nil
	j.UpdatedAt = time.Now()
}

// CanRetry reports whether another attempt fits inside the retry budget.
func (j *Job) CanRetry() bool {
	return j.RetryCount+1 < j.MaxRetries
}

// SetProgress raises the progress percentage. Progress never moves
// backwards and is clamped to [0, 100].
func (j *Job) SetProgress(pct int) {
	if pct > 100 {
		pct = 100
	}
	if pct <= j.Progress {
		return
	}
	j.Progress = pct
	j.UpdatedAt = time.Now()
}

// MetadataJSON serializes the job metadata for storage.
func (j *Job) MetadataJSON() (string, error) {
	if len(j.Metadata) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(j.Metadata)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal job metadata")
	}
	return string(data), nil
}

// SetMetadataJSON deserializes stored metadata into the job.
func (j *Job) SetMetadataJSON(data string) error {
	if data == "" {
		j.Metadata = make(map[string]interface{})
		return nil
	}
	if err := json.Unmarshal([]byte(data), &j.Metadata); err != nil {
		return errors.Wrap(err, "failed to unmarshal job metadata")
	}
	return nil
}
