package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tankwatch/internal/cooldown"
	"tankwatch/internal/models"
)

// ReadingStore persists readings.
type ReadingStore interface {
	Insert(ctx context.Context, reading *models.Reading) error
}

// Dispatcher raises a low-level alert. A nil return means the alert was
// recorded; SMS delivery is the dispatcher's own concern.
type Dispatcher interface {
	Dispatch(ctx context.Context, deviceID string, level float64, now time.Time) error
}

// Publisher fans a reading out to live subscribers.
type Publisher interface {
	Publish(reading models.Reading)
}

// SubmitInput is the ingestion payload. Distance and LevelPercentage are
// pointers so that absent fields are distinguishable from zero values.
type SubmitInput struct {
	DeviceID        string   `json:"deviceId"`
	Distance        *float64 `json:"distance"`
	LevelPercentage *float64 `json:"levelPercentage"`
}

// IngestService is the ingestion pipeline: validate, persist, alert when the
// level is critical, fan out. A reading is accepted once persistence succeeds;
// alert dispatch failures are absorbed and never abort the call.
type IngestService struct {
	readings     ReadingStore
	tracker      cooldown.Tracker
	dispatcher   Dispatcher
	publisher    Publisher
	lowThreshold float64
	locks        *deviceLocks
	logger       *zap.Logger

	now func() time.Time
}

// NewIngestService builds the pipeline.
func NewIngestService(
	readings ReadingStore,
	tracker cooldown.Tracker,
	dispatcher Dispatcher,
	publisher Publisher,
	lowThreshold float64,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		readings:     readings,
		tracker:      tracker,
		dispatcher:   dispatcher,
		publisher:    publisher,
		lowThreshold: lowThreshold,
		locks:        newDeviceLocks(),
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Submit ingests one reading. The reading is persisted before anything is
// broadcast, so subscribers never observe state that was not durably recorded,
// and an alert is never raised for an unpersisted reading.
func (s *IngestService) Submit(ctx context.Context, input SubmitInput) (*models.Reading, error) {
	if strings.TrimSpace(input.DeviceID) == "" || input.Distance == nil || input.LevelPercentage == nil {
		return nil, ErrMissingFields
	}

	reading := &models.Reading{
		DeviceID:        input.DeviceID,
		Distance:        *input.Distance,
		LevelPercentage: *input.LevelPercentage,
		RecordedAt:      s.now(),
	}

	if err := s.readings.Insert(ctx, reading); err != nil {
		return nil, fmt.Errorf("insert reading: %w", err)
	}

	if reading.LevelPercentage < s.lowThreshold {
		s.maybeAlert(ctx, reading)
	}

	s.publisher.Publish(*reading)
	return reading, nil
}

// maybeAlert runs the cooldown check and dispatch under the device's lock, so
// two near-simultaneous low readings for one device cannot both pass the
// eligibility check. The tracker is updated only after the alert was recorded,
// independent of SMS delivery outcome.
func (s *IngestService) maybeAlert(ctx context.Context, reading *models.Reading) {
	lock := s.locks.get(reading.DeviceID)
	lock.Lock()
	defer lock.Unlock()

	eligible, err := s.tracker.Eligible(ctx, reading.DeviceID, reading.RecordedAt)
	if err != nil {
		s.logger.Warn("cooldown check failed", zap.String("device_id", reading.DeviceID), zap.Error(err))
		return
	}
	if !eligible {
		s.logger.Debug("alert suppressed, within cooldown window", zap.String("device_id", reading.DeviceID))
		return
	}

	if err := s.dispatcher.Dispatch(ctx, reading.DeviceID, reading.LevelPercentage, reading.RecordedAt); err != nil {
		s.logger.Error("alert dispatch failed", zap.String("device_id", reading.DeviceID), zap.Error(err))
		return
	}

	if err := s.tracker.Record(ctx, reading.DeviceID, reading.RecordedAt); err != nil {
		s.logger.Warn("cooldown record failed", zap.String("device_id", reading.DeviceID), zap.Error(err))
	}
}
