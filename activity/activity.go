// Package activity stores synced training data: runs, heart rate samples
// and body metrics pulled from wearable devices.
package activity

import "time"

// Run is a completed running activity imported from a device.
type Run struct {
	ID              string
	UserID          string
	DeviceID        string
	ExternalID      string
	StartedAt       time.Time
	DurationSeconds int
	DistanceMeters  float64
	AvgHeartRate    int
	CreatedAt       time.Time
}

// ImportResult summarizes an idempotent batch import.
type ImportResult struct {
	Imported int
	Skipped  int
}
