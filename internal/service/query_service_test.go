package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"tankwatch/internal/models"
)

type fakeReadingSource struct {
	latest    *models.Reading
	latestErr error

	history      []models.Reading
	historyErr   error
	historyLimit int
}

func (f *fakeReadingSource) Latest(_ context.Context, _ string) (*models.Reading, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeReadingSource) History(_ context.Context, _ string, limit int) ([]models.Reading, error) {
	f.historyLimit = limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

type fakeAlertSource struct {
	latest    *models.Alert
	latestErr error
}

func (f *fakeAlertSource) Latest(_ context.Context, _ string) (*models.Alert, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func TestQueryLatestReading(t *testing.T) {
	want := &models.Reading{
		ID:              7,
		DeviceID:        "5551234567",
		LevelPercentage: 64,
		RecordedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	svc := NewQueryService(&fakeReadingSource{latest: want}, &fakeAlertSource{})

	got, err := svc.Latest(context.Background(), "5551234567")
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if got.ID != want.ID || got.LevelPercentage != want.LevelPercentage {
		t.Fatalf("Latest = %+v, want %+v", got, want)
	}
}

func TestQueryLatestUnknownDeviceIsNotFound(t *testing.T) {
	svc := NewQueryService(&fakeReadingSource{latestErr: sql.ErrNoRows}, &fakeAlertSource{})

	_, err := svc.Latest(context.Background(), "unknown-device")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest error = %v, want ErrNotFound", err)
	}
}

func TestQueryLatestStoreErrorSurfaces(t *testing.T) {
	storeErr := errors.New("store unavailable")
	svc := NewQueryService(&fakeReadingSource{latestErr: storeErr}, &fakeAlertSource{})

	_, err := svc.Latest(context.Background(), "5551234567")
	if !errors.Is(err, storeErr) {
		t.Fatalf("Latest error = %v, want wrapped store error", err)
	}
}

func TestQueryHistoryUnknownDeviceYieldsEmptySlice(t *testing.T) {
	svc := NewQueryService(&fakeReadingSource{history: nil}, &fakeAlertSource{})

	got, err := svc.History(context.Background(), "unknown-device", 5)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if got == nil {
		t.Fatal("History returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("History = %d items, want 0", len(got))
	}
}

func TestQueryHistoryPassesLimitThrough(t *testing.T) {
	source := &fakeReadingSource{}
	svc := NewQueryService(source, &fakeAlertSource{})

	if _, err := svc.History(context.Background(), "5551234567", 12); err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if source.historyLimit != 12 {
		t.Fatalf("limit passed to store = %d, want 12", source.historyLimit)
	}
}

func TestQueryLatestAlert(t *testing.T) {
	want := &models.Alert{
		ID:       3,
		DeviceID: "5551234567",
		Message:  "Alert: Water level is critically low at 15.00%. Please check the tank.",
	}
	svc := NewQueryService(&fakeReadingSource{}, &fakeAlertSource{latest: want})

	got, err := svc.LatestAlert(context.Background(), "5551234567")
	if err != nil {
		t.Fatalf("LatestAlert returned error: %v", err)
	}
	if got.ID != want.ID || got.Message != want.Message {
		t.Fatalf("LatestAlert = %+v, want %+v", got, want)
	}
}

func TestQueryLatestAlertUnknownDeviceIsNotFound(t *testing.T) {
	svc := NewQueryService(&fakeReadingSource{}, &fakeAlertSource{latestErr: sql.ErrNoRows})

	_, err := svc.LatestAlert(context.Background(), "unknown-device")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("LatestAlert error = %v, want ErrNotFound", err)
	}
}
