package events

import (
	"context"
	"encoding/hex"
	"math/rand"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedEvent = errors.New("unknown payload for event")
)

type Type int

// Base common denominator all event-bus events share.
type Base struct {
	ctx     context.Context
	traceID string
	seq     int
	et      Type
}

type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
}

const (
	// All event type -> used by subscribers to just receive all events, has no actual corresponding event payload
	All Type = iota
	// other event types that DO have corresponding event types
	TimeUpdate
	MarketCreatedEvent
	MarketConfigUpdatedEvent
	MarketStatusEvent
	ReservesUpdatedEvent
	KAdjustedEvent
	FundingUpdatedEvent
	FundingIntervalSetEvent
	SourceAddedEvent
	SourceRemovedEvent
	PriceUpdatedEvent
	PriceAlertEvent
)

var eventStrings = map[Type]string{
	All:                      "ALL",
	TimeUpdate:               "TimeUpdate",
	MarketCreatedEvent:       "MarketCreated",
	MarketConfigUpdatedEvent: "MarketConfigUpdated",
	MarketStatusEvent:        "MarketStatus",
	ReservesUpdatedEvent:     "ReservesUpdated",
	KAdjustedEvent:           "KAdjusted",
	FundingUpdatedEvent:      "FundingUpdated",
	FundingIntervalSetEvent:  "FundingIntervalSet",
	SourceAddedEvent:         "SourceAdded",
	SourceRemovedEvent:       "SourceRemoved",
	PriceUpdatedEvent:        "PriceUpdated",
	PriceAlertEvent:          "PriceAlert",
}

type traceIDKey struct{}

// WithTraceID sets an explicit trace ID on the context used to build events.
func WithTraceID(ctx context.Context, tID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, tID)
}

func traceIDFromContext(ctx context.Context) (context.Context, string) {
	if tID, ok := ctx.Value(traceIDKey{}).(string); ok && tID != "" {
		return ctx, tID
	}
	buf := make([]byte, 16)
	rand.Read(buf)
	tID := hex.EncodeToString(buf)
	return context.WithValue(ctx, traceIDKey{}, tID), tID
}

// A base event holds no data, so the constructor will not be called directly.
func newBase(ctx context.Context, t Type) *Base {
	ctx, tID := traceIDFromContext(ctx)
	return &Base{
		ctx:     ctx,
		traceID: tID,
		et:      t,
	}
}

// TraceID returns the... traceID obviously.
func (b Base) TraceID() string {
	return b.traceID
}

// Sequence returns event sequence number.
func (b Base) Sequence() int {
	return b.seq
}

// Context returns context.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}

// String get string representation of event type.
func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}
