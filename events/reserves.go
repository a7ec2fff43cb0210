package events

import (
	"context"
	"encoding/json"
	"fmt"

	"code.helixprotocol.io/helix/types"
	"code.helixprotocol.io/helix/types/num"
)

type ReservesUpdated struct {
	*Base
	m      types.Market
	isLong bool
	input  *num.Uint
	output *num.Uint
}

func NewReservesUpdatedEvent(ctx context.Context, m types.Market, isLong bool, input, output *num.Uint) *ReservesUpdated {
	return &ReservesUpdated{
		Base:   newBase(ctx, ReservesUpdatedEvent),
		m:      *m.Clone(),
		isLong: isLong,
		input:  input.Clone(),
		output: output.Clone(),
	}
}

func (r ReservesUpdated) MarketEvent() string {
	side := "short"
	if r.isLong {
		side = "long"
	}
	return fmt.Sprintf("Market ID %s reserves updated (%s, in %s, out %s)",
		r.m.ID, side, r.input.String(), r.output.String())
}

func (r ReservesUpdated) MarketID() string {
	return r.m.ID
}

func (r ReservesUpdated) Market() types.Market {
	return r.m
}

func (r ReservesUpdated) IsLong() bool {
	return r.isLong
}

func (r ReservesUpdated) Input() *num.Uint {
	return r.input.Clone()
}

func (r ReservesUpdated) Output() *num.Uint {
	return r.output.Clone()
}

func (r ReservesUpdated) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type         string `json:"type"`
		TraceID      string `json:"traceId"`
		MarketID     string `json:"marketId"`
		BaseReserve  string `json:"baseReserve"`
		QuoteReserve string `json:"quoteReserve"`
		IsLong       bool   `json:"isLong"`
		Input        string `json:"input"`
		Output       string `json:"output"`
	}{
		Type:         r.et.String(),
		TraceID:      r.traceID,
		MarketID:     r.m.ID,
		BaseReserve:  r.m.BaseReserve.String(),
		QuoteReserve: r.m.QuoteReserve.String(),
		IsLong:       r.isLong,
		Input:        r.input.String(),
		Output:       r.output.String(),
	})
}

type KAdjusted struct {
	*Base
	marketID    string
	targetPrice *num.Uint
	oldK        *num.Uint
	newK        *num.Uint
	newQuote    *num.Uint
}

func NewKAdjustedEvent(ctx context.Context, marketID string, targetPrice, oldK, newK, newQuote *num.Uint) *KAdjusted {
	return &KAdjusted{
		Base:        newBase(ctx, KAdjustedEvent),
		marketID:    marketID,
		targetPrice: targetPrice.Clone(),
		oldK:        oldK.Clone(),
		newK:        newK.Clone(),
		newQuote:    newQuote.Clone(),
	}
}

func (k KAdjusted) MarketEvent() string {
	return fmt.Sprintf("Market ID %s curve re-anchored to price %s", k.marketID, k.targetPrice.String())
}

func (k KAdjusted) MarketID() string {
	return k.marketID
}

func (k KAdjusted) TargetPrice() *num.Uint {
	return k.targetPrice.Clone()
}

func (k KAdjusted) NewK() *num.Uint {
	return k.newK.Clone()
}

func (k KAdjusted) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type        string `json:"type"`
		TraceID     string `json:"traceId"`
		MarketID    string `json:"marketId"`
		TargetPrice string `json:"targetPrice"`
		OldK        string `json:"oldK"`
		NewK        string `json:"newK"`
		NewQuote    string `json:"newQuoteReserve"`
	}{
		Type:        k.et.String(),
		TraceID:     k.traceID,
		MarketID:    k.marketID,
		TargetPrice: k.targetPrice.String(),
		OldK:        k.oldK.String(),
		NewK:        k.newK.String(),
		NewQuote:    k.newQuote.String(),
	})
}
