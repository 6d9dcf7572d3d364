package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaltesting "github.com/nadavyigal/Running-coach--sub004/internal/testing"
	"github.com/nadavyigal/Running-coach--sub004/wearable"
)

func TestImportRunsIdempotent(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	store := NewStore(conn, nil)
	ctx := context.Background()

	records := []wearable.ActivityRecord{
		{ExternalID: "garmin-100", StartedAt: time.Now().Add(-2 * time.Hour), DurationSeconds: 2400, DistanceMeters: 8000, AvgHeartRate: 152},
		{ExternalID: "garmin-101", StartedAt: time.Now().Add(-1 * time.Hour), DurationSeconds: 1800, DistanceMeters: 5000, AvgHeartRate: 145},
	}

	result, err := store.ImportRuns(ctx, "user-1", "dev-1", records)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)

	// Importing the same window again should skip everything.
	result, err = store.ImportRuns(ctx, "user-1", "dev-1", records)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 2, result.Skipped)

	runs, err := store.ListRuns(ctx, "user-1", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestImportRunsPartialOverlap(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	store := NewStore(conn, nil)
	ctx := context.Background()

	first := []wearable.ActivityRecord{
		{ExternalID: "act-1", StartedAt: time.Now().Add(-3 * time.Hour), DurationSeconds: 1800},
	}
	_, err := store.ImportRuns(ctx, "user-1", "dev-1", first)
	require.NoError(t, err)

	overlap := []wearable.ActivityRecord{
		{ExternalID: "act-1", StartedAt: time.Now().Add(-3 * time.Hour), DurationSeconds: 1800},
		{ExternalID: "act-2", StartedAt: time.Now().Add(-2 * time.Hour), DurationSeconds: 2400},
	}
	result, err := store.ImportRuns(ctx, "user-1", "dev-1", overlap)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportRunsSameExternalIDDifferentUsers(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	store := NewStore(conn, nil)
	ctx := context.Background()

	records := []wearable.ActivityRecord{
		{ExternalID: "shared-ext-id", StartedAt: time.Now(), DurationSeconds: 1200},
	}

	// The dedup key is (user, external id), so two users may both hold
	// the same vendor activity id.
	result, err := store.ImportRuns(ctx, "user-1", "dev-1", records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	result, err = store.ImportRuns(ctx, "user-2", "dev-2", records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestSaveHeartRateOverwrites(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	store := NewStore(conn, nil)
	ctx := context.Background()

	at := time.Now().Truncate(time.Second)
	require.NoError(t, store.SaveHeartRate(ctx, "dev-1", []wearable.HeartRateSample{{TakenAt: at, BPM: 140}}))
	require.NoError(t, store.SaveHeartRate(ctx, "dev-1", []wearable.HeartRateSample{{TakenAt: at, BPM: 150}}))

	var bpm int
	err := conn.QueryRow(`SELECT bpm FROM heart_rate_samples WHERE device_id = ?`, "dev-1").Scan(&bpm)
	require.NoError(t, err)
	assert.Equal(t, 150, bpm)
}

func TestSaveMetrics(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	store := NewStore(conn, nil)
	ctx := context.Background()

	at := time.Now().Truncate(time.Second)
	samples := []wearable.MetricSample{
		{TakenAt: at, Name: "weight_kg", Value: 71.2},
		{TakenAt: at, Name: "hrv_ms", Value: 64},
	}
	require.NoError(t, store.SaveMetrics(ctx, "dev-1", samples))

	var count int
	err := conn.QueryRow(`SELECT COUNT(*) FROM body_metrics WHERE device_id = ?`, "dev-1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDailyLoad(t *testing.T) {
	conn := internaltesting.CreateTestDB(t)
	store := NewStore(conn, nil)
	ctx := context.Background()

	records := []wearable.ActivityRecord{
		{ExternalID: "run-today", StartedAt: time.Now().Add(-1 * time.Hour), DurationSeconds: 3600},
		{ExternalID: "run-old", StartedAt: time.Now().AddDate(0, 0, -3), DurationSeconds: 1800},
	}
	_, err := store.ImportRuns(ctx, "user-1", "dev-1", records)
	require.NoError(t, err)

	loads, err := store.DailyLoad(ctx, "user-1", 7)
	require.NoError(t, err)
	require.Len(t, loads, 7)

	var total float64
	for _, l := range loads {
		total += l
	}
	assert.InDelta(t, 90.0, total, 0.01, "60 + 30 minutes of running")
	assert.InDelta(t, 60.0, loads[6], 0.01, "today's run lands in the last slot")
}

func TestDayIndexUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)

	// Shortly after local midnight: still the previous day in UTC, but
	// the run belongs to the local calendar day.
	run := time.Date(2026, 8, 31, 0, 30, 0, 0, loc)
	assert.Equal(t, 6, dayIndex(run, today, 7))

	// The same instant expressed in UTC buckets identically.
	assert.Equal(t, 6, dayIndex(run.UTC(), today, 7))

	// Just before local midnight lands in the previous day's bucket.
	late := time.Date(2026, 8, 30, 23, 30, 0, 0, loc)
	assert.Equal(t, 5, dayIndex(late, today, 7))

	// Runs outside the trailing window are dropped.
	old := time.Date(2026, 8, 20, 12, 0, 0, 0, loc)
	assert.Equal(t, -1, dayIndex(old, today, 7))
}
