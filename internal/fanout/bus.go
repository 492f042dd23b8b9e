// Package fanout delivers newly ingested readings to live subscribers keyed
// by device. Delivery is at-most-once: there is no buffering beyond a small
// per-subscriber channel and no replay for late subscribers.
package fanout

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tankwatch/internal/models"
)

const defaultBuffer = 16

// Subscription is a live listener for one device's readings.
type Subscription struct {
	id       string
	deviceID string
	readings chan models.Reading
}

// ID returns the subscription handle.
func (s *Subscription) ID() string {
	return s.id
}

// DeviceID returns the subscribed device.
func (s *Subscription) DeviceID() string {
	return s.deviceID
}

// Readings is the delivery channel. It is closed on Unsubscribe.
func (s *Subscription) Readings() <-chan models.Reading {
	return s.readings
}

// Bus is an in-process publish/subscribe channel keyed by device ID.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscription
	buffer      int
	logger      *zap.Logger
}

// NewBus builds bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]map[string]*Subscription),
		buffer:      defaultBuffer,
		logger:      logger,
	}
}

// Subscribe registers a listener for the device.
func (b *Bus) Subscribe(deviceID string) *Subscription {
	sub := &Subscription{
		id:       uuid.NewString(),
		deviceID: deviceID,
		readings: make(chan models.Reading, b.buffer),
	}

	b.mu.Lock()
	if b.subscribers[deviceID] == nil {
		b.subscribers[deviceID] = make(map[string]*Subscription)
	}
	b.subscribers[deviceID][sub.id] = sub
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the listener and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.subscribers[sub.deviceID]
	if set == nil {
		return
	}
	if _, ok := set[sub.id]; !ok {
		return
	}
	delete(set, sub.id)
	if len(set) == 0 {
		delete(b.subscribers, sub.deviceID)
	}
	close(sub.readings)
}

// Publish delivers the reading to every current subscriber of its device.
// Slow subscribers with a full channel have the reading dropped.
func (b *Bus) Publish(reading models.Reading) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers[reading.DeviceID] {
		select {
		case sub.readings <- reading:
		default:
			b.logger.Warn("dropping reading, subscriber buffer full",
				zap.String("device_id", reading.DeviceID),
				zap.String("subscription_id", sub.id),
			)
		}
	}
}
