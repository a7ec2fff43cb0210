package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"code.helixprotocol.io/helix/types/num"
)

type FundingUpdated struct {
	*Base
	marketID   string
	rate       *num.Int
	cumulative *num.Int
	markPrice  *num.Uint
	indexPrice *num.Uint
	updatedAt  time.Time
}

func NewFundingUpdatedEvent(ctx context.Context, marketID string, rate, cumulative *num.Int, markPrice, indexPrice *num.Uint, updatedAt time.Time) *FundingUpdated {
	return &FundingUpdated{
		Base:       newBase(ctx, FundingUpdatedEvent),
		marketID:   marketID,
		rate:       rate.Clone(),
		cumulative: cumulative.Clone(),
		markPrice:  markPrice.Clone(),
		indexPrice: indexPrice.Clone(),
		updatedAt:  updatedAt,
	}
}

func (f FundingUpdated) MarketEvent() string {
	return fmt.Sprintf("Market ID %s funding updated (rate %s, cumulative %s)",
		f.marketID, f.rate.String(), f.cumulative.String())
}

func (f FundingUpdated) MarketID() string {
	return f.marketID
}

func (f FundingUpdated) Rate() *num.Int {
	return f.rate.Clone()
}

func (f FundingUpdated) CumulativeFunding() *num.Int {
	return f.cumulative.Clone()
}

func (f FundingUpdated) UpdatedAt() time.Time {
	return f.updatedAt
}

func (f FundingUpdated) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		TraceID    string `json:"traceId"`
		MarketID   string `json:"marketId"`
		Rate       string `json:"rate"`
		Cumulative string `json:"cumulativeFunding"`
		MarkPrice  string `json:"markPrice"`
		IndexPrice string `json:"indexPrice"`
		UpdatedAt  int64  `json:"updatedAt"`
	}{
		Type:       f.et.String(),
		TraceID:    f.traceID,
		MarketID:   f.marketID,
		Rate:       f.rate.String(),
		Cumulative: f.cumulative.String(),
		MarkPrice:  f.markPrice.String(),
		IndexPrice: f.indexPrice.String(),
		UpdatedAt:  f.updatedAt.Unix(),
	})
}

type FundingIntervalSet struct {
	*Base
	marketID string
	interval time.Duration
}

func NewFundingIntervalSetEvent(ctx context.Context, marketID string, interval time.Duration) *FundingIntervalSet {
	return &FundingIntervalSet{
		Base:     newBase(ctx, FundingIntervalSetEvent),
		marketID: marketID,
		interval: interval,
	}
}

func (f FundingIntervalSet) MarketEvent() string {
	return fmt.Sprintf("Market ID %s funding interval set to %s", f.marketID, f.interval)
}

func (f FundingIntervalSet) MarketID() string {
	return f.marketID
}

func (f FundingIntervalSet) Interval() time.Duration {
	return f.interval
}

func (f FundingIntervalSet) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		TraceID  string `json:"traceId"`
		MarketID string `json:"marketId"`
		Interval string `json:"interval"`
	}{
		Type:     f.et.String(),
		TraceID:  f.traceID,
		MarketID: f.marketID,
		Interval: f.interval.String(),
	})
}
