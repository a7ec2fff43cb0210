package pricing

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"code.helixprotocol.io/helix/access"
	"code.helixprotocol.io/helix/events"
	"code.helixprotocol.io/helix/libs/guard"
	"code.helixprotocol.io/helix/logging"
	"code.helixprotocol.io/helix/metrics"
	"code.helixprotocol.io/helix/types"
	"code.helixprotocol.io/helix/types/num"

	"github.com/pkg/errors"
)

var (
	ErrNoPriceSources     = errors.New("no price source returned a valid price")
	ErrStalePrice         = errors.New("no fresh aggregate price for this asset")
	ErrInvalidSourceIndex = errors.New("no price source at this index")
)

const (
	// MaxPriceAge is the staleness window applied to the aggregate record
	// at read time. Stricter than the per-source ages the adapters enforce.
	MaxPriceAge = 5 * time.Minute
	// MaxDeviationBps is the cross-source deviation gate, 3%.
	MaxDeviationBps uint64 = 300
)

// Broker send events
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.helixprotocol.io/helix/pricing Broker
type Broker interface {
	Send(event events.Event)
}

// Authorizer checks a party holds the capability an entry point requires
//go:generate go run github.com/golang/mock/mockgen -destination mocks/authorizer_mock.go -package mocks code.helixprotocol.io/helix/pricing Authorizer
type Authorizer interface {
	Check(party string, required access.Capability) error
}

// TimeService provide the current time to the engine
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.helixprotocol.io/helix/pricing TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

// PriceSource is one slot of the per-asset source arena. Removal is
// swap-with-last, so an index taken before a removal may point at a
// different source afterwards. The weight is reserved and takes no part in
// the aggregation yet.
type PriceSource struct {
	Adapter  Adapter
	Weight   uint64
	IsActive bool
}

type assetState struct {
	sources []*PriceSource
	record  *types.PriceRecord
	guard   guard.Guard
}

// Engine aggregates 1..N feed adapters per asset into a single defended
// reference price: the median of every valid source, gated on cross-source
// deviation and staleness.
type Engine struct {
	Config
	log     *logging.Logger
	auth    Authorizer
	broker  Broker
	timeSvc TimeService

	mu     sync.RWMutex
	assets map[string]*assetState
}

// New returns a new price aggregation engine.
func New(log *logging.Logger, cfg Config, auth Authorizer, broker Broker, timeSvc TimeService) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		Config:  cfg,
		log:     log,
		auth:    auth,
		broker:  broker,
		timeSvc: timeSvc,
		assets:  map[string]*assetState{},
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.Config = cfg
}

// AddSource registers a feed adapter for an asset.
func (e *Engine) AddSource(ctx context.Context, party, asset string, adapter Adapter, weight uint64) error {
	if err := e.auth.Check(party, access.AdminCapability); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.assets[asset]
	if !ok {
		st = &assetState{}
		e.assets[asset] = st
	}
	st.sources = append(st.sources, &PriceSource{
		Adapter:  adapter,
		Weight:   weight,
		IsActive: true,
	})
	idx := len(st.sources) - 1

	e.log.Info("price source added",
		logging.String("asset", asset),
		logging.String("source", adapter.Name()),
		logging.Int("index", idx),
	)
	e.broker.Send(events.NewSourceAddedEvent(ctx, asset, adapter.Name(), idx))
	return nil
}

// RemoveSource drops the source at the given index. The removal swaps the
// last source into the hole before truncating, indices held across this
// call are NOT stable.
func (e *Engine) RemoveSource(ctx context.Context, party, asset string, index int) error {
	if err := e.auth.Check(party, access.AdminCapability); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.assets[asset]
	if !ok || index < 0 || index >= len(st.sources) {
		return ErrInvalidSourceIndex
	}
	name := st.sources[index].Adapter.Name()
	last := len(st.sources) - 1
	st.sources[index] = st.sources[last]
	st.sources[last] = nil
	st.sources = st.sources[:last]

	e.log.Info("price source removed",
		logging.String("asset", asset),
		logging.String("source", name),
		logging.Int("index", index),
	)
	e.broker.Send(events.NewSourceRemovedEvent(ctx, asset, name, index))
	return nil
}

// Refresh queries every active source for the asset and writes a new
// aggregate record. Callable by anyone, typically a keeper. A failing or
// garbage source is silently excluded, aggregation only fails when no
// source at all produced a valid price. A deviation beyond the gate raises
// an alert and marks the record invalid, but the price is still recorded.
func (e *Engine) Refresh(ctx context.Context, asset string) error {
	e.mu.Lock()
	st, ok := e.assets[asset]
	if !ok || len(st.sources) == 0 {
		e.mu.Unlock()
		return ErrNoPriceSources
	}
	if err := st.guard.Acquire(); err != nil {
		e.mu.Unlock()
		return err
	}
	defer st.guard.Release()
	sources := make([]*PriceSource, len(st.sources))
	copy(sources, st.sources)
	e.mu.Unlock()

	// fold the sources into the valid readings only, a failure is a skip,
	// never an abort
	valid := make([]*num.Uint, 0, len(sources))
	for _, src := range sources {
		if !src.IsActive {
			continue
		}
		data, err := src.Adapter.GetPrice(ctx, asset)
		if err != nil {
			e.log.Debug("price source skipped",
				logging.String("asset", asset),
				logging.String("source", src.Adapter.Name()),
				logging.Error(err),
			)
			continue
		}
		if data.Price == nil || data.Price.IsZero() {
			continue
		}
		valid = append(valid, data.Price)
	}
	if len(valid) == 0 {
		return ErrNoPriceSources
	}

	median := medianPrice(valid)
	devBps := deviationBps(valid, median)
	now := e.timeSvc.GetTimeNow()
	rec := &types.PriceRecord{
		Asset:        asset,
		Price:        median,
		Timestamp:    now,
		DeviationBps: devBps,
		IsValid:      devBps <= MaxDeviationBps,
	}

	e.mu.Lock()
	st.record = rec
	e.mu.Unlock()

	if !rec.IsValid {
		e.log.Warn("price deviation above tolerance",
			logging.String("asset", asset),
			logging.Stringer("median", median),
			logging.Uint64("deviation-bps", devBps),
		)
		e.broker.Send(events.NewPriceAlertEvent(ctx, asset, median, devBps, MaxDeviationBps))
	}
	e.broker.Send(events.NewPriceUpdatedEvent(ctx, *rec))
	metrics.PriceRefreshCounterInc(asset, strconv.FormatBool(rec.IsValid))
	metrics.AggregatePriceSet(num.DecimalFromUint(median).InexactFloat64(), asset)
	return nil
}

// GetPrice returns the aggregate price and its timestamp. The record
// expires MaxPriceAge after the last successful refresh.
func (e *Engine) GetPrice(asset string) (*num.Uint, time.Time, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.assets[asset]
	if !ok || st.record == nil {
		return nil, time.Time{}, ErrStalePrice
	}
	if e.timeSvc.GetTimeNow().Sub(st.record.Timestamp) > MaxPriceAge {
		return nil, time.Time{}, ErrStalePrice
	}
	return st.record.Price.Clone(), st.record.Timestamp, nil
}

// IsPriceValid reports whether the aggregate record passed the deviation
// gate and is still fresh.
func (e *Engine) IsPriceValid(asset string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.assets[asset]
	if !ok || st.record == nil || !st.record.IsValid {
		return false
	}
	return e.timeSvc.GetTimeNow().Sub(st.record.Timestamp) <= MaxPriceAge
}

// Record returns a copy of the raw aggregate record, regardless of
// validity or staleness.
func (e *Engine) Record(asset string) (*types.PriceRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.assets[asset]
	if !ok || st.record == nil {
		return nil, ErrStalePrice
	}
	return st.record.Clone(), nil
}

// SourceCount returns the number of sources registered for an asset.
func (e *Engine) SourceCount(asset string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.assets[asset]
	if !ok {
		return 0
	}
	return len(st.sources)
}

// medianPrice returns the median of the given prices, the mean of the two
// middle values when the count is even.
func medianPrice(prices []*num.Uint) *num.Uint {
	sorted := make([]*num.Uint, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LT(sorted[j])
	})
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid].Clone()
	}
	m := num.NewUint(0).Add(sorted[mid-1], sorted[mid])
	return m.Div(m, num.NewUint(2))
}

// deviationBps returns the population standard deviation of the prices as
// basis points of the median.
func deviationBps(prices []*num.Uint, median *num.Uint) uint64 {
	if len(prices) < 2 || median.IsZero() {
		return 0
	}
	n := num.DecimalFromInt64(int64(len(prices)))
	mean := num.DecimalZero()
	for _, p := range prices {
		mean = mean.Add(num.DecimalFromUint(p))
	}
	mean = mean.Div(n)

	variance := num.DecimalZero()
	for _, p := range prices {
		d := num.DecimalFromUint(p).Sub(mean)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.Div(n)

	std := math.Sqrt(variance.InexactFloat64())
	med := num.DecimalFromUint(median).InexactFloat64()
	return uint64(std * 10_000 / med)
}
