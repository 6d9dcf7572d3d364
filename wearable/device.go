// Package wearable tracks registered wearable devices and the provider
// integrations that pull activity data from them.
package wearable

import "time"

// DeviceType identifies the vendor integration a device syncs through.
type DeviceType string

const (
	DeviceGarmin      DeviceType = "garmin"
	DeviceAppleWatch  DeviceType = "apple_watch"
	DeviceFitbit      DeviceType = "fitbit"
	DevicePolar       DeviceType = "polar"
	DeviceSuunto      DeviceType = "suunto"
	DeviceCorosFamily DeviceType = "coros"
)

// ConnectionStatus is the pairing state of a device.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusPairing      ConnectionStatus = "pairing"
)

// Device is a wearable registered by a user.
type Device struct {
	ID               string
	UserID           string
	Type             DeviceType
	ConnectionStatus ConnectionStatus
	LastSyncAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Connected reports whether the device can currently serve sync requests.
func (d *Device) Connected() bool {
	return d.ConnectionStatus == StatusConnected
}
