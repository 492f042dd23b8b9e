// Package mqtt bridges sensor readings published over MQTT into the ingestion
// pipeline. Devices publish JSON payloads on tank/<device>/reading; the bridge
// feeds the same pipeline as the HTTP endpoint. MQTT has no reply channel, so
// rejected readings are logged and dropped.
package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"tankwatch/internal/models"
	"tankwatch/internal/service"
)

const (
	keepAlive      = 30 * time.Second
	pingTimeout    = 10 * time.Second
	retryInterval  = 5 * time.Second
	handlerTimeout = 10 * time.Second
	qosAtLeastOnce = 1
)

// Ingester accepts sensor readings.
type Ingester interface {
	Submit(ctx context.Context, input service.SubmitInput) (*models.Reading, error)
}

// Options configure the bridge.
type Options struct {
	BrokerURL string
	Topic     string
	ClientID  string
	Username  string
	Password  string
}

// Source subscribes to the reading topic and submits each payload.
type Source struct {
	client   mqtt.Client
	topic    string
	ingester Ingester
	logger   *zap.Logger
}

// NewSource builds the bridge client. Connection is established by Start.
func NewSource(opts Options, ingester Ingester, logger *zap.Logger) *Source {
	s := &Source{
		topic:    opts.Topic,
		ingester: ingester,
		logger:   logger,
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(opts.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(retryInterval)

	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		clientOpts.SetPassword(opts.Password)
	}

	clientOpts.OnConnect = func(c mqtt.Client) {
		logger.Info("mqtt connected", zap.String("broker", opts.BrokerURL))
		if token := c.Subscribe(s.topic, qosAtLeastOnce, s.handleMessage); token.Wait() && token.Error() != nil {
			logger.Error("mqtt subscribe failed", zap.String("topic", s.topic), zap.Error(token.Error()))
			return
		}
		logger.Info("mqtt subscribed", zap.String("topic", s.topic))
	}
	clientOpts.OnConnectionLost = func(c mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	}

	s.client = mqtt.NewClient(clientOpts)
	return s
}

// Start connects to the broker. Retry is handled by the client options.
func (s *Source) Start() error {
	token := s.client.Connect()
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Stop disconnects from the broker.
func (s *Source) Stop() {
	s.client.Disconnect(250)
}

func (s *Source) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var input service.SubmitInput
	if err := json.Unmarshal(msg.Payload(), &input); err != nil {
		s.logger.Warn("mqtt reading payload is not json", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}
	if input.DeviceID == "" {
		input.DeviceID = deviceFromTopic(msg.Topic())
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if _, err := s.ingester.Submit(ctx, input); err != nil {
		s.logger.Warn("mqtt reading rejected",
			zap.String("topic", msg.Topic()),
			zap.String("device_id", input.DeviceID),
			zap.Error(err),
		)
	}
}

// deviceFromTopic extracts the device segment of tank/<device>/reading.
func deviceFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
