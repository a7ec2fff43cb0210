package events

import (
	"context"
	"encoding/json"
	"time"
)

type Time struct {
	*Base
	refTime time.Time
}

// NewTime returns a new time Update event.
func NewTime(ctx context.Context, t time.Time) *Time {
	return &Time{
		Base:    newBase(ctx, TimeUpdate),
		refTime: t,
	}
}

// Time returns the new reference time.
func (t Time) Time() time.Time {
	return t.refTime
}

func (t Time) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		TraceID string `json:"traceId"`
		Time    int64  `json:"time"`
	}{
		Type:    t.et.String(),
		TraceID: t.traceID,
		Time:    t.refTime.UnixNano(),
	})
}
