package events

import (
	"context"
	"encoding/json"
	"fmt"

	"code.helixprotocol.io/helix/types"
)

type MarketCreated struct {
	*Base
	m types.Market
	c types.MarketConfig
}

func NewMarketCreatedEvent(ctx context.Context, m types.Market, c types.MarketConfig) *MarketCreated {
	return &MarketCreated{
		Base: newBase(ctx, MarketCreatedEvent),
		m:    *m.Clone(),
		c:    *c.Clone(),
	}
}

// MarketEvent -> is needs to be logged as a market event
func (m MarketCreated) MarketEvent() string {
	return fmt.Sprintf("Market ID %s created (base %s, quote %s)",
		m.m.ID, m.m.BaseReserve.String(), m.m.QuoteReserve.String())
}

func (m MarketCreated) MarketID() string {
	return m.m.ID
}

func (m MarketCreated) Market() types.Market {
	return m.m
}

func (m MarketCreated) MarketConfig() types.MarketConfig {
	return m.c
}

func (m MarketCreated) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type         string `json:"type"`
		TraceID      string `json:"traceId"`
		MarketID     string `json:"marketId"`
		BaseReserve  string `json:"baseReserve"`
		QuoteReserve string `json:"quoteReserve"`
		K            string `json:"k"`
	}{
		Type:         m.et.String(),
		TraceID:      m.traceID,
		MarketID:     m.m.ID,
		BaseReserve:  m.m.BaseReserve.String(),
		QuoteReserve: m.m.QuoteReserve.String(),
		K:            m.m.K.String(),
	})
}

type MarketConfigUpdated struct {
	*Base
	marketID string
	c        types.MarketConfig
}

func NewMarketConfigUpdatedEvent(ctx context.Context, marketID string, c types.MarketConfig) *MarketConfigUpdated {
	return &MarketConfigUpdated{
		Base:     newBase(ctx, MarketConfigUpdatedEvent),
		marketID: marketID,
		c:        *c.Clone(),
	}
}

func (m MarketConfigUpdated) MarketEvent() string {
	return fmt.Sprintf("Market ID %s configuration updated", m.marketID)
}

func (m MarketConfigUpdated) MarketID() string {
	return m.marketID
}

func (m MarketConfigUpdated) MarketConfig() types.MarketConfig {
	return m.c
}

func (m MarketConfigUpdated) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type                 string `json:"type"`
		TraceID              string `json:"traceId"`
		MarketID             string `json:"marketId"`
		MaxSlippageBps       uint64 `json:"maxSlippageBps"`
		FundingPeriod        string `json:"fundingPeriod"`
		MaintenanceMarginBps uint64 `json:"maintenanceMarginBps"`
		IsActive             bool   `json:"isActive"`
	}{
		Type:                 m.et.String(),
		TraceID:              m.traceID,
		MarketID:             m.marketID,
		MaxSlippageBps:       m.c.MaxSlippageBps,
		FundingPeriod:        m.c.FundingPeriod.String(),
		MaintenanceMarginBps: m.c.MaintenanceMarginBps,
		IsActive:             m.c.IsActive,
	})
}

type MarketStatus struct {
	*Base
	marketID string
	active   bool
}

func NewMarketStatusEvent(ctx context.Context, marketID string, active bool) *MarketStatus {
	return &MarketStatus{
		Base:     newBase(ctx, MarketStatusEvent),
		marketID: marketID,
		active:   active,
	}
}

func (m MarketStatus) MarketEvent() string {
	if m.active {
		return fmt.Sprintf("Market ID %s activated", m.marketID)
	}
	return fmt.Sprintf("Market ID %s deactivated", m.marketID)
}

func (m MarketStatus) MarketID() string {
	return m.marketID
}

func (m MarketStatus) Active() bool {
	return m.active
}

func (m MarketStatus) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type     string `json:"type"`
		TraceID  string `json:"traceId"`
		MarketID string `json:"marketId"`
		Active   bool   `json:"active"`
	}{
		Type:     m.et.String(),
		TraceID:  m.traceID,
		MarketID: m.marketID,
		Active:   m.active,
	})
}
