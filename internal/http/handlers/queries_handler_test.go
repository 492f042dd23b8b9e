package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"tankwatch/internal/models"
	"tankwatch/internal/service"
)

type fakeQuerier struct {
	latest       *models.Reading
	latestErr    error
	history      []models.Reading
	historyErr   error
	historyLimit int
	alert        *models.Alert
	alertErr     error
}

func (f *fakeQuerier) Latest(_ context.Context, _ string) (*models.Reading, error) {
	return f.latest, f.latestErr
}

func (f *fakeQuerier) History(_ context.Context, _ string, limit int) ([]models.Reading, error) {
	f.historyLimit = limit
	return f.history, f.historyErr
}

func (f *fakeQuerier) LatestAlert(_ context.Context, _ string) (*models.Alert, error) {
	return f.alert, f.alertErr
}

func getWithDevice(target, deviceID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.SetPathValue("deviceID", deviceID)
	return req
}

func TestLatestReadingFound(t *testing.T) {
	querier := &fakeQuerier{latest: &models.Reading{
		ID:              1,
		DeviceID:        "5551234567",
		Distance:        42.5,
		LevelPercentage: 64,
		RecordedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	handler := NewQueriesHandler(querier, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Latest(rec, getWithDevice("/api/water-level/latest/5551234567", "5551234567"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	if resp["deviceId"] != "5551234567" {
		t.Fatalf("deviceId = %v", resp["deviceId"])
	}
	if resp["levelPercentage"] != 64.0 {
		t.Fatalf("levelPercentage = %v", resp["levelPercentage"])
	}
}

func TestLatestReadingNotFound(t *testing.T) {
	querier := &fakeQuerier{latestErr: service.ErrNotFound}
	handler := NewQueriesHandler(querier, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Latest(rec, getWithDevice("/api/water-level/latest/unknown-device", "unknown-device"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHistoryReturnsArray(t *testing.T) {
	querier := &fakeQuerier{history: []models.Reading{
		{ID: 2, DeviceID: "5551234567", LevelPercentage: 40},
		{ID: 1, DeviceID: "5551234567", LevelPercentage: 55},
	}}
	handler := NewQueriesHandler(querier, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.History(rec, getWithDevice("/api/water-level/history/5551234567?limit=2", "5551234567"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if querier.historyLimit != 2 {
		t.Fatalf("limit = %d, want 2", querier.historyLimit)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a json array: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("items = %d, want 2", len(resp))
	}
}

func TestHistoryUnknownDeviceIsEmptyArrayNotError(t *testing.T) {
	querier := &fakeQuerier{history: []models.Reading{}}
	handler := NewQueriesHandler(querier, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.History(rec, getWithDevice("/api/water-level/history/unknown-device", "unknown-device"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a json array: %v", err)
	}
	if len(resp) != 0 {
		t.Fatalf("items = %d, want 0", len(resp))
	}
}

func TestHistoryRejectsInvalidLimit(t *testing.T) {
	handler := NewQueriesHandler(&fakeQuerier{}, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.History(rec, getWithDevice("/api/water-level/history/5551234567?limit=abc", "5551234567"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLatestAlertFound(t *testing.T) {
	querier := &fakeQuerier{alert: &models.Alert{
		ID:       5,
		DeviceID: "5551234567",
		Message:  "Alert: Water level is critically low at 15.00%. Please check the tank.",
	}}
	handler := NewQueriesHandler(querier, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.LatestAlert(rec, getWithDevice("/api/alert/latest/5551234567", "5551234567"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestLatestAlertNotFound(t *testing.T) {
	querier := &fakeQuerier{alertErr: service.ErrNotFound}
	handler := NewQueriesHandler(querier, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.LatestAlert(rec, getWithDevice("/api/alert/latest/unknown-device", "unknown-device"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
