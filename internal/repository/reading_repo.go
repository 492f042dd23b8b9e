package repository

import (
	"context"
	"database/sql"

	"tankwatch/internal/models"
)

const defaultHistoryLimit = 5

// ReadingRepository persists sensor readings.
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository returns repository.
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Insert stores a new reading.
func (r *ReadingRepository) Insert(ctx context.Context, reading *models.Reading) error {
	const query = `
		INSERT INTO readings (device_id, distance, level_percentage, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		reading.DeviceID,
		reading.Distance,
		reading.LevelPercentage,
		reading.RecordedAt,
	).Scan(&reading.ID, &reading.CreatedAt)
}

// Latest returns the most recent reading for the device. sql.ErrNoRows is
// passed through when the device has none.
func (r *ReadingRepository) Latest(ctx context.Context, deviceID string) (*models.Reading, error) {
	const query = `
		SELECT id, device_id, distance, level_percentage, recorded_at, created_at
		FROM readings
		WHERE device_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`
	var reading models.Reading
	err := r.db.QueryRowContext(ctx, query, deviceID).Scan(
		&reading.ID,
		&reading.DeviceID,
		&reading.Distance,
		&reading.LevelPercentage,
		&reading.RecordedAt,
		&reading.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// History returns up to limit readings for the device, newest first.
func (r *ReadingRepository) History(ctx context.Context, deviceID string, limit int) ([]models.Reading, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	const query = `
		SELECT id, device_id, distance, level_percentage, recorded_at, created_at
		FROM readings
		WHERE device_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]models.Reading, 0, limit)
	for rows.Next() {
		var reading models.Reading
		if err := rows.Scan(
			&reading.ID,
			&reading.DeviceID,
			&reading.Distance,
			&reading.LevelPercentage,
			&reading.RecordedAt,
			&reading.CreatedAt,
		); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}
