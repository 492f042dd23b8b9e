package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tankwatch/internal/models"
)

const defaultDeliverTimeout = 10 * time.Second

// SMSGateway delivers a message to a phone number, best effort.
type SMSGateway interface {
	Send(ctx context.Context, to, body string) error
}

// AlertStore persists alert records.
type AlertStore interface {
	Insert(ctx context.Context, alert *models.Alert) error
}

// Dispatcher raises a low-level alert: it persists the Alert row and then
// hands the SMS to the gateway on a detached goroutine, so gateway latency and
// failures never reach the ingestion path.
type Dispatcher struct {
	alerts         AlertStore
	gateway        SMSGateway
	countryCode    string
	deliverTimeout time.Duration
	logger         *zap.Logger
}

// NewDispatcher builds dispatcher. A nil gateway disables delivery; alerts are
// still recorded.
func NewDispatcher(alerts AlertStore, gateway SMSGateway, countryCode string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		alerts:         alerts,
		gateway:        gateway,
		countryCode:    countryCode,
		deliverTimeout: defaultDeliverTimeout,
		logger:         logger,
	}
}

// Dispatch records the alert and triggers delivery. The returned error is
// non-nil only when the Alert row could not be persisted; the alert counts as
// raised as soon as the row exists, independent of SMS outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, deviceID string, level float64, now time.Time) error {
	message := fmt.Sprintf("Alert: Water level is critically low at %.2f%%. Please check the tank.", level)

	alert := &models.Alert{
		DeviceID:   deviceID,
		Message:    message,
		RecordedAt: now,
	}
	if err := d.alerts.Insert(ctx, alert); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	d.logger.Info("alert raised",
		zap.String("device_id", deviceID),
		zap.Float64("level_percentage", level),
	)

	if d.gateway == nil {
		d.logger.Debug("sms gateway disabled, alert recorded only", zap.String("device_id", deviceID))
		return nil
	}

	go d.deliver(d.recipient(deviceID), message, deviceID)
	return nil
}

func (d *Dispatcher) deliver(to, body, deviceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.deliverTimeout)
	defer cancel()

	if err := d.gateway.Send(ctx, to, body); err != nil {
		d.logger.Warn("sms delivery failed",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		return
	}
	d.logger.Info("sms sent", zap.String("device_id", deviceID))
}

// recipient normalizes the device number to E.164, prepending the default
// country code when no international prefix is present.
func (d *Dispatcher) recipient(deviceID string) string {
	if strings.HasPrefix(deviceID, "+") {
		return deviceID
	}
	return d.countryCode + deviceID
}
