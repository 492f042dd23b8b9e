package repository

import (
	"context"
	"database/sql"

	"tankwatch/internal/models"
)

// AlertRepository persists low-level alerts.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository returns repository.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Insert stores a new alert.
func (r *AlertRepository) Insert(ctx context.Context, alert *models.Alert) error {
	const query = `
		INSERT INTO alerts (device_id, message, recorded_at, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		alert.DeviceID,
		alert.Message,
		alert.RecordedAt,
	).Scan(&alert.ID, &alert.CreatedAt)
}

// Latest returns the most recent alert for the device. sql.ErrNoRows is passed
// through when the device has none.
func (r *AlertRepository) Latest(ctx context.Context, deviceID string) (*models.Alert, error) {
	const query = `
		SELECT id, device_id, message, recorded_at, created_at
		FROM alerts
		WHERE device_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`
	var alert models.Alert
	err := r.db.QueryRowContext(ctx, query, deviceID).Scan(
		&alert.ID,
		&alert.DeviceID,
		&alert.Message,
		&alert.RecordedAt,
		&alert.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}
