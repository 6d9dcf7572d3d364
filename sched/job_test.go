package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobDefaults(t *testing.T) {
	job := NewJob("user-1", "dev-1", JobFullSync, PriorityNormal, time.Now())

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, 0, job.RetryCount)
	assert.Equal(t, DefaultMaxRetries, job.MaxRetries)
	assert.Equal(t, 0, job.Progress)
	assert.NotNil(t, job.Metadata)
}

func TestJobLifecycleTransitions(t *testing.T) {
	job := NewJob("user-1", "dev-1", JobActivities, PriorityHigh, time.Now())

	job.MarkRunning()
	assert.Equal(t, StatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)

	job.MarkCompleted()
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Empty(t, job.Error)
	require.NotNil(t, job.CompletedAt)
	assert.True(t, job.Status.Terminal())
}

func TestJobMarkFailedRecordsError(t *testing.T) {
	job := NewJob("user-1", "dev-1", JobActivities, PriorityNormal, time.Now())
	job.MarkRunning()
	job.MarkFailed("provider timeout")

	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "provider timeout", job.Error)
	assert.True(t, job.Status.Terminal())
}

func TestJobCanRetryBudget(t *testing.T) {
	job := NewJob("user-1", "dev-1", JobActivities, PriorityNormal, time.Now())
	require.Equal(t, 3, job.MaxRetries)

	// With a budget of 3: first failure retries, second failure retries,
	// third failure exhausts the budget. The job runs at most 3 times.
	assert.True(t, job.CanRetry(), "retryCount=0")
	job.RetryCount = 1
	assert.True(t, job.CanRetry(), "retryCount=1")
	job.RetryCount = 2
	assert.False(t, job.CanRetry(), "retryCount=2 exhausts the budget")
}

func TestJobScheduleRetry(t *testing.T) {
	job := NewJob("user-1", "dev-1", JobActivities, PriorityNormal, time.Now())
	job.MarkRunning()

	next := time.Now().Add(2 * time.Minute)
	job.ScheduleRetry("provider timeout", next)

	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, "provider timeout", job.Error)
	assert.Nil(t, job.StartedAt)
	assert.Equal(t, next, job.ScheduledAt)
}

func TestJobProgressIsMonotonic(t *testing.T) {
	job := NewJob("user-1", "dev-1", JobFullSync, PriorityNormal, time.Now())

	job.SetProgress(33)
	assert.Equal(t, 33, job.Progress)

	job.SetProgress(10)
	assert.Equal(t, 33, job.Progress, "progress never moves backwards")

	job.SetProgress(66)
	assert.Equal(t, 66, job.Progress)

	job.SetProgress(150)
	assert.Equal(t, 100, job.Progress, "progress is clamped to 100")
}

func TestJobMetadataRoundTrip(t *testing.T) {
	job := NewJob("user-1", "dev-1", JobActivities, PriorityNormal, time.Now())
	job.Metadata["activities_imported"] = 12

	data, err := job.MetadataJSON()
	require.NoError(t, err)

	restored := NewJob("user-1", "dev-1", JobActivities, PriorityNormal, time.Now())
	require.NoError(t, restored.SetMetadataJSON(data))
	assert.Equal(t, float64(12), restored.Metadata["activities_imported"])
}

func TestValidJobType(t *testing.T) {
	assert.True(t, ValidJobType(JobFullSync))
	assert.True(t, ValidJobType(JobActivities))
	assert.True(t, ValidJobType(JobHeartRate))
	assert.True(t, ValidJobType(JobMetrics))
	assert.False(t, ValidJobType("sleep_tracking"))
}
