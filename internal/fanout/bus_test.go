package fanout

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"tankwatch/internal/models"
)

func testReading(deviceID string, level float64) models.Reading {
	return models.Reading{
		DeviceID:        deviceID,
		Distance:        42,
		LevelPercentage: level,
		RecordedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBusDeliversToDeviceSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	sub := bus.Subscribe("5551234567")
	other := bus.Subscribe("5559999999")
	defer bus.Unsubscribe(other)

	bus.Publish(testReading("5551234567", 55))

	select {
	case got := <-sub.Readings():
		if got.DeviceID != "5551234567" || got.LevelPercentage != 55 {
			t.Fatalf("unexpected reading delivered: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive reading")
	}

	select {
	case got := <-other.Readings():
		t.Fatalf("unrelated subscriber received reading: %+v", got)
	default:
	}
}

func TestBusPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus(zap.NewNop())

	done := make(chan struct{})
	go func() {
		bus.Publish(testReading("5551234567", 10))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with zero subscribers")
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(zap.NewNop())
	sub := bus.Subscribe("5551234567")

	bus.Unsubscribe(sub)

	if _, ok := <-sub.Readings(); ok {
		t.Fatal("expected channel to be closed after Unsubscribe")
	}

	// A second Unsubscribe for the same handle is a no-op.
	bus.Unsubscribe(sub)
}

func TestBusDropsWhenSubscriberBufferFull(t *testing.T) {
	bus := NewBus(zap.NewNop())
	sub := bus.Subscribe("5551234567")
	defer bus.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultBuffer+10; i++ {
			bus.Publish(testReading("5551234567", float64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber buffer")
	}

	if got := len(sub.Readings()); got != defaultBuffer {
		t.Fatalf("buffered readings = %d, want %d", got, defaultBuffer)
	}
}

func TestBusLateSubscriberMissesEarlierReadings(t *testing.T) {
	bus := NewBus(zap.NewNop())
	bus.Publish(testReading("5551234567", 20))

	sub := bus.Subscribe("5551234567")
	defer bus.Unsubscribe(sub)

	select {
	case got := <-sub.Readings():
		t.Fatalf("late subscriber received replayed reading: %+v", got)
	default:
	}
}
