package wearable

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// ActivityRecord is a single completed activity pulled from a provider.
type ActivityRecord struct {
	ExternalID      string
	StartedAt       time.Time
	DurationSeconds int
	DistanceMeters  float64
	AvgHeartRate    int
}

// HeartRateSample is a timestamped heart rate reading.
type HeartRateSample struct {
	TakenAt time.Time
	BPM     int
}

// MetricSample is a timestamped body metric reading (weight, HRV, VO2max...).
type MetricSample struct {
	TakenAt time.Time
	Name    string
	Value   float64
}

// SyncCursor bounds an incremental pull to data newer than Since.
// The zero cursor requests a full history pull.
type SyncCursor struct {
	Since time.Time
}

// Provider pulls data from a wearable vendor's API for a device.
type Provider interface {
	// Activities returns completed activities newer than the cursor.
	Activities(ctx context.Context, dev *Device, cursor SyncCursor) ([]ActivityRecord, error)

	// HeartRate returns heart rate samples newer than the cursor.
	HeartRate(ctx context.Context, dev *Device, cursor SyncCursor) ([]HeartRateSample, error)

	// Metrics returns body metric samples newer than the cursor.
	Metrics(ctx context.Context, dev *Device, cursor SyncCursor) ([]MetricSample, error)
}

// Registry maps device types to their provider integrations.
type Registry struct {
	mu                sync.RWMutex
	providers         map[DeviceType]Provider
	maxCallsPerMinute int
}

// NewRegistry creates an empty provider registry. When maxCallsPerMinute
// is positive, every registered provider is wrapped with that call budget.
func NewRegistry(maxCallsPerMinute int) *Registry {
	return &Registry{
		providers:         make(map[DeviceType]Provider),
		maxCallsPerMinute: maxCallsPerMinute,
	}
}

// RegisterProvider binds a provider to a device type, replacing any
// previous binding.
func (r *Registry) RegisterProvider(t DeviceType, p Provider) {
	if r.maxCallsPerMinute > 0 {
		p = NewRateLimited(p, r.maxCallsPerMinute)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[t] = p
}

// Provider returns the provider for a device type, or an error when the
// type has no integration.
func (r *Registry) Provider(t DeviceType) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[t]
	if !ok {
		return nil, errors.Newf("no provider registered for device type %s", t)
	}
	return p, nil
}

// Types returns the device types with a registered provider.
func (r *Registry) Types() []DeviceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]DeviceType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	return types
}

// RateLimited wraps a provider with a shared call-rate budget so sync
// bursts do not exceed the vendor's API quota.
type RateLimited struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps p with a limit of maxCallsPerMinute.
func NewRateLimited(p Provider, maxCallsPerMinute int) *RateLimited {
	interval := time.Minute / time.Duration(maxCallsPerMinute)
	return &RateLimited{
		inner:   p,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (r *RateLimited) Activities(ctx context.Context, dev *Device, cursor SyncCursor) ([]ActivityRecord, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait interrupted")
	}
	return r.inner.Activities(ctx, dev, cursor)
}

func (r *RateLimited) HeartRate(ctx context.Context, dev *Device, cursor SyncCursor) ([]HeartRateSample, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait interrupted")
	}
	return r.inner.HeartRate(ctx, dev, cursor)
}

func (r *RateLimited) Metrics(ctx context.Context, dev *Device, cursor SyncCursor) ([]MetricSample, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait interrupted")
	}
	return r.inner.Metrics(ctx, dev, cursor)
}
