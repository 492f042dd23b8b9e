package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"tankwatch/internal/models"
	"tankwatch/internal/service"
)

// Ingester accepts sensor readings.
type Ingester interface {
	Submit(ctx context.Context, input service.SubmitInput) (*models.Reading, error)
}

// ReadingsHandler handles the device ingestion endpoint.
type ReadingsHandler struct {
	service Ingester
	logger  *zap.Logger
}

// NewReadingsHandler returns handler.
func NewReadingsHandler(service Ingester, logger *zap.Logger) *ReadingsHandler {
	return &ReadingsHandler{service: service, logger: logger}
}

// Submit handles POST /api/water-level.
func (h *ReadingsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input service.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	_, err := h.service.Submit(r.Context(), input)
	if errors.Is(err, service.ErrMissingFields) {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if err != nil {
		h.logger.Error("failed to store reading", zap.String("device_id", input.DeviceID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store reading")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Data saved successfully"})
}
