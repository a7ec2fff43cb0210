package htime

import (
	"context"
	"sync"
	"time"

	"code.helixprotocol.io/helix/events"
)

// Broker is the event broker every time update is published on.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.helixprotocol.io/helix/htime Broker
type Broker interface {
	Send(event events.Event)
}

// Svc is the single source of time for every engine. The keeper advances it
// on its own cadence; until the first update the wall clock is used, so the
// engines never observe a zero time.
type Svc struct {
	config Config
	broker Broker

	mu        sync.RWMutex
	now       time.Time
	listeners []func(context.Context, time.Time)
}

func New(conf Config, broker Broker) *Svc {
	return &Svc{
		config: conf,
		broker: broker,
	}
}

// ReloadConf reloads the configuration for this package.
func (s *Svc) ReloadConf(conf Config) {
	s.config = conf
}

// SetTimeNow updates the current time, publishes the time update on the
// event bus and notifies every registered listener, in registration order.
func (s *Svc) SetTimeNow(ctx context.Context, t time.Time) {
	t = t.UTC()
	s.mu.Lock()
	s.now = t
	listeners := make([]func(context.Context, time.Time), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.broker.Send(events.NewTime(ctx, t))
	for _, f := range listeners {
		f(ctx, t)
	}
}

// GetTimeNow returns the current time.
func (s *Svc) GetTimeNow() time.Time {
	s.mu.RLock()
	now := s.now
	s.mu.RUnlock()
	if now.IsZero() {
		return time.Now().UTC()
	}
	return now
}

// NotifyOnTick registers a callback invoked on every time update.
func (s *Svc) NotifyOnTick(f func(context.Context, time.Time)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, f)
	s.mu.Unlock()
}
