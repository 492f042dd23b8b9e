package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tankwatch/internal/models"
)

// ReadingSource reads stored readings.
type ReadingSource interface {
	Latest(ctx context.Context, deviceID string) (*models.Reading, error)
	History(ctx context.Context, deviceID string, limit int) ([]models.Reading, error)
}

// AlertSource reads stored alerts.
type AlertSource interface {
	Latest(ctx context.Context, deviceID string) (*models.Alert, error)
}

// QueryService provides read-only access to readings and alerts. All methods
// reflect every row whose insert has already returned.
type QueryService struct {
	readings ReadingSource
	alerts   AlertSource
}

// NewQueryService builds service.
func NewQueryService(readings ReadingSource, alerts AlertSource) *QueryService {
	return &QueryService{readings: readings, alerts: alerts}
}

// Latest returns the most recent reading, or ErrNotFound.
func (s *QueryService) Latest(ctx context.Context, deviceID string) (*models.Reading, error) {
	reading, err := s.readings.Latest(ctx, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest reading: %w", err)
	}
	return reading, nil
}

// History returns up to limit readings, newest first. An unknown device yields
// an empty slice, not an error.
func (s *QueryService) History(ctx context.Context, deviceID string, limit int) ([]models.Reading, error) {
	readings, err := s.readings.History(ctx, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if readings == nil {
		readings = []models.Reading{}
	}
	return readings, nil
}

// LatestAlert returns the most recent alert, or ErrNotFound.
func (s *QueryService) LatestAlert(ctx context.Context, deviceID string) (*models.Alert, error) {
	alert, err := s.alerts.Latest(ctx, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest alert: %w", err)
	}
	return alert, nil
}
