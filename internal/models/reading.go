package models

import "time"

// Reading is a single fill-level measurement reported by a tank sensor.
// Readings are immutable once stored.
type Reading struct {
	ID              int64     `db:"id" json:"id"`
	DeviceID        string    `db:"device_id" json:"deviceId"`
	Distance        float64   `db:"distance" json:"distance"`
	LevelPercentage float64   `db:"level_percentage" json:"levelPercentage"`
	RecordedAt      time.Time `db:"recorded_at" json:"timestamp"`
	CreatedAt       time.Time `db:"created_at" json:"-"`
}
