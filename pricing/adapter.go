package pricing

import (
	"context"
	"sync"
	"time"

	"code.helixprotocol.io/helix/types"
	"code.helixprotocol.io/helix/types/num"

	"github.com/pkg/errors"
)

var (
	ErrNonPositivePrice = errors.New("feed returned a non positive price")
	ErrZeroTimestamp    = errors.New("feed returned a zero timestamp")
	ErrOutOfOrderRound  = errors.New("feed returned an out of order round")
	ErrReadingTooOld    = errors.New("feed reading is older than the max accepted age")
)

// FeedData is one reading normalized to canonical precision.
type FeedData struct {
	Price     *num.Uint
	Timestamp time.Time
	Round     uint64
}

// Adapter exposes one external price source, normalized to canonical
// precision. The aggregator treats adapters as untrusted, any error makes
// the source skipped for the refresh cycle.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/adapter_mock.go -package mocks code.helixprotocol.io/helix/pricing Adapter
type Adapter interface {
	Name() string
	GetPrice(ctx context.Context, asset string) (FeedData, error)
}

// RawReading is a price as served by an external endpoint, in the source's
// own decimal scaling.
type RawReading struct {
	Price     *num.Uint
	Decimals  uint32
	Timestamp time.Time
	Round     uint64
}

// RawSource is an external price endpoint before normalization.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/raw_source_mock.go -package mocks code.helixprotocol.io/helix/pricing RawSource
type RawSource interface {
	Name() string
	LatestRound(ctx context.Context, asset string) (RawReading, error)
}

// NormalisingAdapter enforces the generic feed contract over a raw source:
// non positive values, zero timestamps, out of order rounds and readings
// older than the configured max age are all rejected, and the price is
// rescaled from the source decimals to canonical precision.
type NormalisingAdapter struct {
	source  RawSource
	maxAge  time.Duration
	timeSvc TimeService

	mu        sync.Mutex
	lastRound map[string]uint64
}

// NewNormalisingAdapter wraps a raw source with the feed contract.
func NewNormalisingAdapter(source RawSource, maxAge time.Duration, timeSvc TimeService) *NormalisingAdapter {
	return &NormalisingAdapter{
		source:    source,
		maxAge:    maxAge,
		timeSvc:   timeSvc,
		lastRound: map[string]uint64{},
	}
}

func (a *NormalisingAdapter) Name() string {
	return a.source.Name()
}

func (a *NormalisingAdapter) GetPrice(ctx context.Context, asset string) (FeedData, error) {
	raw, err := a.source.LatestRound(ctx, asset)
	if err != nil {
		return FeedData{}, err
	}
	if raw.Price == nil || raw.Price.IsZero() {
		return FeedData{}, ErrNonPositivePrice
	}
	if raw.Timestamp.IsZero() {
		return FeedData{}, ErrZeroTimestamp
	}
	if age := a.timeSvc.GetTimeNow().Sub(raw.Timestamp); age > a.maxAge {
		return FeedData{}, ErrReadingTooOld
	}

	a.mu.Lock()
	last, seen := a.lastRound[asset]
	if seen && raw.Round < last {
		a.mu.Unlock()
		return FeedData{}, ErrOutOfOrderRound
	}
	a.lastRound[asset] = raw.Round
	a.mu.Unlock()

	return FeedData{
		Price:     scalePrice(raw.Price, raw.Decimals),
		Timestamp: raw.Timestamp,
		Round:     raw.Round,
	}, nil
}

// scalePrice rescales a price from the source decimals to the canonical
// precision.
func scalePrice(p *num.Uint, decimals uint32) *num.Uint {
	out := p.Clone()
	if decimals == types.PrecisionDecimals {
		return out
	}
	if decimals < types.PrecisionDecimals {
		return out.Mul(out, pow10(types.PrecisionDecimals-decimals))
	}
	return out.Div(out, pow10(decimals-types.PrecisionDecimals))
}

func pow10(n uint32) *num.Uint {
	out := num.NewUint(1)
	ten := num.NewUint(10)
	for i := uint32(0); i < n; i++ {
		out.Mul(out, ten)
	}
	return out
}
