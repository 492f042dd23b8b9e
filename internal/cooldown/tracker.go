// Package cooldown rate-limits alert dispatch per device: once a device has
// been alerted, it stays ineligible until the configured window has elapsed.
package cooldown

import (
	"context"
	"time"
)

// Tracker decides whether a device may receive a new alert. The caller must
// serialize Eligible/Record pairs for the same device; Tracker implementations
// only guarantee consistency of individual operations.
type Tracker interface {
	// Eligible reports whether the device is outside its cooldown window.
	// A device with no recorded alert is always eligible.
	Eligible(ctx context.Context, deviceID string, now time.Time) (bool, error)
	// Record overwrites the last-alert time for the device.
	Record(ctx context.Context, deviceID string, now time.Time) error
}
