package models

import "time"

// Alert records a low-level notification raised for a device. The row is
// written before SMS delivery is attempted, so the alert history is complete
// even when delivery fails.
type Alert struct {
	ID         int64     `db:"id" json:"id"`
	DeviceID   string    `db:"device_id" json:"deviceId"`
	Message    string    `db:"message" json:"message"`
	RecordedAt time.Time `db:"recorded_at" json:"timestamp"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}
