package wearable

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// Directory provides access to registered devices.
type Directory struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewDirectory creates a device directory backed by the given database.
func NewDirectory(db *sql.DB, logger *zap.SugaredLogger) *Directory {
	return &Directory{db: db, logger: logger}
}

// Register inserts a new device row.
func (d *Directory) Register(ctx context.Context, dev *Device) error {
	now := time.Now()
	dev.CreatedAt = now
	dev.UpdatedAt = now
	if dev.ConnectionStatus == "" {
		dev.ConnectionStatus = StatusDisconnected
	}

	query := `
		INSERT INTO devices (id, user_id, type, connection_status, last_sync_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		dev.ID, dev.UserID, string(dev.Type), string(dev.ConnectionStatus),
		dev.LastSyncAt, dev.CreatedAt, dev.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to register device")
	}

	if d.logger != nil {
		d.logger.Infow("Device registered", "device_id", dev.ID, "user_id", dev.UserID, "type", dev.Type)
	}
	return nil
}

// Get retrieves a device by ID. Returns (nil, nil) if no such device exists.
func (d *Directory) Get(ctx context.Context, deviceID string) (*Device, error) {
	query := `
		SELECT id, user_id, type, connection_status, last_sync_at, created_at, updated_at
		FROM devices WHERE id = ?`

	dev, err := scanDevice(d.db.QueryRowContext(ctx, query, deviceID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get device %s", deviceID)
	}
	return dev, nil
}

// ListByUser returns all devices registered by a user, newest first.
func (d *Directory) ListByUser(ctx context.Context, userID string) ([]*Device, error) {
	query := `
		SELECT id, user_id, type, connection_status, last_sync_at, created_at, updated_at
		FROM devices WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}
	defer rows.Close()

	var devices []*Device
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan device row")
		}
		devices = append(devices, dev)
	}
	return devices, rows.Err()
}

// SetConnectionStatus updates the pairing state of a device.
func (d *Directory) SetConnectionStatus(ctx context.Context, deviceID string, status ConnectionStatus) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE devices SET connection_status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now(), deviceID)
	if err != nil {
		return errors.Wrapf(err, "failed to update device %s status", deviceID)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check rows affected")
	}
	if rows == 0 {
		return errors.Newf("device not found: %s", deviceID)
	}
	return nil
}

// TouchLastSync records a successful sync completion time on the device.
func (d *Directory) TouchLastSync(ctx context.Context, deviceID string, at time.Time) error {
	_, err := d.db.ExecContext(ctx,
		`UPDATE devices SET last_sync_at = ?, updated_at = ? WHERE id = ?`,
		at, time.Now(), deviceID)
	if err != nil {
		return errors.Wrapf(err, "failed to touch last sync for device %s", deviceID)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanDevice.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDevice(s scanner) (*Device, error) {
	var dev Device
	var devType, status string
	var lastSync sql.NullTime

	err := s.Scan(&dev.ID, &dev.UserID, &devType, &status, &lastSync, &dev.CreatedAt, &dev.UpdatedAt)
	if err != nil {
		return nil, err
	}

	dev.Type = DeviceType(devType)
	dev.ConnectionStatus = ConnectionStatus(status)
	if lastSync.Valid {
		dev.LastSyncAt = &lastSync.Time
	}
	return &dev, nil
}
