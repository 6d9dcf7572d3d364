package activity

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nadavyigal/Running-coach--sub004/errors"
	"github.com/nadavyigal/Running-coach--sub004/wearable"
)

// Store persists synced training data.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates an activity store backed by the given database.
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

// ImportRuns inserts activity records pulled from a device. Records whose
// (user, external id) pair already exists are skipped, so re-syncing the
// same window never duplicates runs.
func (s *Store) ImportRuns(ctx context.Context, userID, deviceID string, records []wearable.ActivityRecord) (*ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin import transaction")
	}
	defer tx.Rollback()

	result := &ImportResult{}
	now := time.Now()

	for _, rec := range records {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM runs WHERE user_id = ? AND external_id = ?`,
			userID, rec.ExternalID).Scan(&exists)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check for existing run")
		}
		if exists > 0 {
			result.Skipped++
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO runs (id, user_id, device_id, external_id, started_at,
				duration_seconds, distance_meters, avg_heart_rate, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), userID, deviceID, rec.ExternalID, rec.StartedAt,
			rec.DurationSeconds, rec.DistanceMeters, rec.AvgHeartRate, now)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to import run %s", rec.ExternalID)
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit import")
	}

	if s.logger != nil {
		s.logger.Infow("Imported runs",
			"user_id", userID,
			"device_id", deviceID,
			"imported", result.Imported,
			"skipped", result.Skipped)
	}
	return result, nil
}

// SaveHeartRate stores heart rate samples for a device. Samples at an
// already-recorded timestamp are overwritten.
func (s *Store) SaveHeartRate(ctx context.Context, deviceID string, samples []wearable.HeartRateSample) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin heart rate transaction")
	}
	defer tx.Rollback()

	for _, sample := range samples {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO heart_rate_samples (device_id, taken_at, bpm)
			VALUES (?, ?, ?)`,
			deviceID, sample.TakenAt, sample.BPM)
		if err != nil {
			return errors.Wrap(err, "failed to save heart rate sample")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit heart rate samples")
}

// SaveMetrics stores body metric samples for a device. Samples at an
// already-recorded (timestamp, name) pair are overwritten.
func (s *Store) SaveMetrics(ctx context.Context, deviceID string, samples []wearable.MetricSample) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin metrics transaction")
	}
	defer tx.Rollback()

	for _, sample := range samples {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO body_metrics (device_id, taken_at, name, value)
			VALUES (?, ?, ?, ?)`,
			deviceID, sample.TakenAt, sample.Name, sample.Value)
		if err != nil {
			return errors.Wrap(err, "failed to save body metric")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit body metrics")
}

// ListRuns returns a user's runs started on or after since, oldest first.
func (s *Store) ListRuns(ctx context.Context, userID string, since time.Time) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, device_id, external_id, started_at,
			duration_seconds, distance_meters, avg_heart_rate, created_at
		FROM runs WHERE user_id = ? AND started_at >= ?
		ORDER BY started_at ASC`,
		userID, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		err := rows.Scan(&run.ID, &run.UserID, &run.DeviceID, &run.ExternalID,
			&run.StartedAt, &run.DurationSeconds, &run.DistanceMeters,
			&run.AvgHeartRate, &run.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// DailyLoad aggregates per-day training minutes for a user over the last
// days days, oldest day first. Days without runs contribute zero.
func (s *Store) DailyLoad(ctx context.Context, userID string, days int) ([]float64, error) {
	since := time.Now().AddDate(0, 0, -days)
	runs, err := s.ListRuns(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	loads := make([]float64, days)
	today := startOfDay(time.Now())
	for _, run := range runs {
		idx := dayIndex(run.StartedAt, today, days)
		if idx < 0 {
			continue
		}
		loads[idx] += float64(run.DurationSeconds) / 60.0
	}
	return loads, nil
}

// startOfDay returns midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayIndex buckets a run into a trailing window of days ending today,
// by calendar day in today's location. A run near midnight belongs to
// its local day, not the UTC one. Returns -1 outside the window.
// Rounding absorbs the off-by-one-hour day lengths around DST changes.
func dayIndex(startedAt, today time.Time, days int) int {
	day := startOfDay(startedAt.In(today.Location()))
	offset := int(math.Round(today.Sub(day).Hours() / 24))
	idx := days - 1 - offset
	if idx < 0 || idx >= days {
		return -1
	}
	return idx
}
