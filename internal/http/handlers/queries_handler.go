package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"tankwatch/internal/models"
	"tankwatch/internal/service"
)

// Querier reads stored readings and alerts.
type Querier interface {
	Latest(ctx context.Context, deviceID string) (*models.Reading, error)
	History(ctx context.Context, deviceID string, limit int) ([]models.Reading, error)
	LatestAlert(ctx context.Context, deviceID string) (*models.Alert, error)
}

// QueriesHandler handles read-only device endpoints.
type QueriesHandler struct {
	service Querier
	logger  *zap.Logger
}

// NewQueriesHandler returns handler.
func NewQueriesHandler(service Querier, logger *zap.Logger) *QueriesHandler {
	return &QueriesHandler{service: service, logger: logger}
}

// Latest handles GET /api/water-level/latest/{deviceID}.
func (h *QueriesHandler) Latest(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceID")

	reading, err := h.service.Latest(r.Context(), deviceID)
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no data found for this device")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch latest reading", zap.String("device_id", deviceID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch latest reading")
		return
	}

	writeJSON(w, http.StatusOK, reading)
}

// History handles GET /api/water-level/history/{deviceID}?limit=N.
func (h *QueriesHandler) History(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	readings, err := h.service.History(r.Context(), deviceID, limit)
	if err != nil {
		h.logger.Error("failed to fetch reading history", zap.String("device_id", deviceID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch reading history")
		return
	}

	writeJSON(w, http.StatusOK, readings)
}

// LatestAlert handles GET /api/alert/latest/{deviceID}.
func (h *QueriesHandler) LatestAlert(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceID")

	alert, err := h.service.LatestAlert(r.Context(), deviceID)
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no alert found for this device")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch latest alert", zap.String("device_id", deviceID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch latest alert")
		return
	}

	writeJSON(w, http.StatusOK, alert)
}
