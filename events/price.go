package events

import (
	"context"
	"encoding/json"
	"fmt"

	"code.helixprotocol.io/helix/types"
	"code.helixprotocol.io/helix/types/num"
)

type PriceUpdated struct {
	*Base
	p types.PriceRecord
}

func NewPriceUpdatedEvent(ctx context.Context, p types.PriceRecord) *PriceUpdated {
	return &PriceUpdated{
		Base: newBase(ctx, PriceUpdatedEvent),
		p:    *p.Clone(),
	}
}

func (p PriceUpdated) Asset() string {
	return p.p.Asset
}

func (p PriceUpdated) Price() *num.Uint {
	return p.p.Price.Clone()
}

func (p PriceUpdated) Record() types.PriceRecord {
	return p.p
}

func (p PriceUpdated) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type         string `json:"type"`
		TraceID      string `json:"traceId"`
		Asset        string `json:"asset"`
		Price        string `json:"price"`
		DeviationBps uint64 `json:"deviationBps"`
		IsValid      bool   `json:"isValid"`
		Timestamp    int64  `json:"timestamp"`
	}{
		Type:         p.et.String(),
		TraceID:      p.traceID,
		Asset:        p.p.Asset,
		Price:        p.p.Price.String(),
		DeviationBps: p.p.DeviationBps,
		IsValid:      p.p.IsValid,
		Timestamp:    p.p.Timestamp.Unix(),
	})
}

// PriceAlert is raised when the cross-source deviation exceeds the tolerated
// maximum. The price is still recorded, the alert flags it as suspect.
type PriceAlert struct {
	*Base
	asset        string
	price        *num.Uint
	deviationBps uint64
	maxBps       uint64
}

func NewPriceAlertEvent(ctx context.Context, asset string, price *num.Uint, deviationBps, maxBps uint64) *PriceAlert {
	return &PriceAlert{
		Base:         newBase(ctx, PriceAlertEvent),
		asset:        asset,
		price:        price.Clone(),
		deviationBps: deviationBps,
		maxBps:       maxBps,
	}
}

func (p PriceAlert) Asset() string {
	return p.asset
}

func (p PriceAlert) DeviationBps() uint64 {
	return p.deviationBps
}

func (p PriceAlert) MarketEvent() string {
	return fmt.Sprintf("Asset %s price deviation %dbps exceeds %dbps", p.asset, p.deviationBps, p.maxBps)
}

func (p PriceAlert) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type         string `json:"type"`
		TraceID      string `json:"traceId"`
		Asset        string `json:"asset"`
		Price        string `json:"price"`
		DeviationBps uint64 `json:"deviationBps"`
		MaxBps       uint64 `json:"maxBps"`
	}{
		Type:         p.et.String(),
		TraceID:      p.traceID,
		Asset:        p.asset,
		Price:        p.price.String(),
		DeviationBps: p.deviationBps,
		MaxBps:       p.maxBps,
	})
}

type SourceAdded struct {
	*Base
	asset string
	name  string
	index int
}

func NewSourceAddedEvent(ctx context.Context, asset, name string, index int) *SourceAdded {
	return &SourceAdded{
		Base:  newBase(ctx, SourceAddedEvent),
		asset: asset,
		name:  name,
		index: index,
	}
}

func (s SourceAdded) Asset() string { return s.asset }
func (s SourceAdded) Name() string  { return s.name }
func (s SourceAdded) Index() int    { return s.index }

func (s SourceAdded) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		TraceID string `json:"traceId"`
		Asset   string `json:"asset"`
		Name    string `json:"name"`
		Index   int    `json:"index"`
	}{
		Type:    s.et.String(),
		TraceID: s.traceID,
		Asset:   s.asset,
		Name:    s.name,
		Index:   s.index,
	})
}

type SourceRemoved struct {
	*Base
	asset string
	name  string
	index int
}

func NewSourceRemovedEvent(ctx context.Context, asset, name string, index int) *SourceRemoved {
	return &SourceRemoved{
		Base:  newBase(ctx, SourceRemovedEvent),
		asset: asset,
		name:  name,
		index: index,
	}
}

func (s SourceRemoved) Asset() string { return s.asset }
func (s SourceRemoved) Name() string  { return s.name }
func (s SourceRemoved) Index() int    { return s.index }

func (s SourceRemoved) StreamMessage() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		TraceID string `json:"traceId"`
		Asset   string `json:"asset"`
		Name    string `json:"name"`
		Index   int    `json:"index"`
	}{
		Type:    s.et.String(),
		TraceID: s.traceID,
		Asset:   s.asset,
		Name:    s.name,
		Index:   s.index,
	})
}
