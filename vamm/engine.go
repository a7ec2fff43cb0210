package vamm

import (
	"context"
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
	ErrMarketAlreadyExists = errors.New("market already exists for this id")
	ErrMarketNotFound      = errors.New("market not found")
	ErrInvalidReserves     = errors.New("market reserves must be greater than zero")
	ErrMarketNotActive     = errors.New("market is not active")
	ErrZeroAmount          = errors.New("amount must be greater than zero")
	ErrSlippageExceeded    = errors.New("output is less than the minimum accepted")
	ErrInvalidMarketConfig = errors.New("invalid market configuration")
)

const (
	// DefaultFundingPeriod is assigned to every new market.
	DefaultFundingPeriod = 8 * time.Hour
	// DefaultMaintenanceMarginBps is assigned to every new market.
	DefaultMaintenanceMarginBps uint64 = 500
)

// Broker send events
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.helixprotocol.io/helix/vamm Broker
type Broker interface {
	Send(event events.Event)
}

// Authorizer checks a party holds the capability an entry point requires
//go:generate go run github.com/golang/mock/mockgen -destination mocks/authorizer_mock.go -package mocks code.helixprotocol.io/helix/vamm Authorizer
type Authorizer interface {
	Check(party string, required access.Capability) error
}

// marketState bundles a market, its config and the per-market swap guard.
// Cross-market operations share no mutable state, one guard per market is
// enough.
type marketState struct {
	market *types.Market
	config *types.MarketConfig
	guard  guard.Guard
}

// Engine maintains the per-market synthetic liquidity curves. Pricing is
// constant-product over virtual reserves, there is no real liquidity behind
// the curve.
type Engine struct {
	Config
	log    *logging.Logger
	auth   Authorizer
	broker Broker

	mu      sync.RWMutex
	markets map[string]*marketState
}

// New returns a new virtual reserve engine.
func New(log *logging.Logger, cfg Config, auth Authorizer, broker Broker) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		Config:  cfg,
		log:     log,
		auth:    auth,
		broker:  broker,
		markets: map[string]*marketState{},
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

// CreateMarket registers a new market with its virtual reserves. The curve
// constant k is set to baseReserve * quoteReserve.
func (e *Engine) CreateMarket(ctx context.Context, party, id string, baseReserve, quoteReserve *num.Uint, maxSlippageBps uint64) error {
	if err := e.auth.Check(party, access.AdminCapability); err != nil {
		return err
	}
	if baseReserve.IsZero() || quoteReserve.IsZero() {
		return ErrInvalidReserves
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.markets[id]; ok {
		return ErrMarketAlreadyExists
	}

	m := &types.Market{
		ID:                id,
		BaseReserve:       baseReserve.Clone(),
		QuoteReserve:      quoteReserve.Clone(),
		K:                 num.NewUint(0).Mul(baseReserve, quoteReserve),
		TotalPositionSize: num.NewUint(0),
		OpenInterestLong:  num.NewUint(0),
		OpenInterestShort: num.NewUint(0),
	}
	cfg := &types.MarketConfig{
		MaxSlippageBps:       maxSlippageBps,
		FundingPeriod:        DefaultFundingPeriod,
		MaintenanceMarginBps: DefaultMaintenanceMarginBps,
		IsActive:             true,
	}
	e.markets[id] = &marketState{
		market: m,
		config: cfg,
	}

	e.log.Info("market created",
		logging.String("market-id", id),
		logging.Stringer("base-reserve", baseReserve),
		logging.Stringer("quote-reserve", quoteReserve),
	)
	e.broker.Send(events.NewMarketCreatedEvent(ctx, *m, *cfg))
	return nil
}

// Quote returns the output amount a swap of inputAmount would produce
// against the current reserves. Pure, no state is mutated. Integer division
// truncates toward zero so rounding always favors the pool.
func (e *Engine) Quote(id string, inputAmount *num.Uint, isLong bool) (*num.Uint, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ms, ok := e.markets[id]
	if !ok {
		return nil, ErrMarketNotFound
	}
	out, _, _, err := e.quote(ms, inputAmount, isLong)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// quote computes the swap output plus the post-trade reserves. Callers hold
// the engine lock.
func (e *Engine) quote(ms *marketState, input *num.Uint, isLong bool) (output, newBase, newQuote *num.Uint, err error) {
	if !ms.config.IsActive {
		return nil, nil, nil, ErrMarketNotActive
	}
	if input.IsZero() {
		return nil, nil, nil, ErrZeroAmount
	}
	m := ms.market
	if isLong {
		// quote in, base out
		newQuote = num.NewUint(0).Add(m.QuoteReserve, input)
		newBase = num.NewUint(0).Div(m.K, newQuote)
		output = num.NewUint(0).Sub(m.BaseReserve, newBase)
		return output, newBase, newQuote, nil
	}
	// base in, quote out
	newBase = num.NewUint(0).Add(m.BaseReserve, input)
	newQuote = num.NewUint(0).Div(m.K, newBase)
	output = num.NewUint(0).Sub(m.QuoteReserve, newQuote)
	return output, newBase, newQuote, nil
}

// Swap executes a trade against the virtual curve. The caller states the
// minimum output it will accept, the swap is rejected wholesale when the
// true output is below it. Guarded against reentrant invocation per market.
func (e *Engine) Swap(ctx context.Context, party, id string, inputAmount *num.Uint, isLong bool, minOutput *num.Uint) (*num.Uint, error) {
	defer metrics.EngineTimeCounterAdd(time.Now(), id, "vamm", "Swap")
	if err := e.auth.Check(party, access.OperatorCapability); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ms, ok := e.markets[id]
	if !ok {
		return nil, ErrMarketNotFound
	}
	if err := ms.guard.Acquire(); err != nil {
		return nil, err
	}
	defer ms.guard.Release()

	output, newBase, newQuote, err := e.quote(ms, inputAmount, isLong)
	if err != nil {
		return nil, err
	}
	if output.LT(minOutput) {
		return nil, ErrSlippageExceeded
	}

	m := ms.market
	m.BaseReserve = newBase
	m.QuoteReserve = newQuote
	// open interest is tracked in base asset units on both sides: a long
	// gains base (the output), a short brings base (the input)
	if isLong {
		m.TotalPositionSize.AddSum(output)
		m.OpenInterestLong.AddSum(output)
	} else {
		m.TotalPositionSize.AddSum(inputAmount)
		m.OpenInterestShort.AddSum(inputAmount)
	}

	if e.log.GetLevel() == logging.DebugLevel {
		e.log.Debug("swap executed",
			logging.String("market-id", id),
			logging.Bool("is-long", isLong),
			logging.Stringer("input", inputAmount),
			logging.Stringer("output", output),
		)
	}
	e.broker.Send(events.NewReservesUpdatedEvent(ctx, *m, isLong, inputAmount, output))
	metrics.SwapCounterInc(id, sideLabel(isLong))
	return output, nil
}

func sideLabel(isLong bool) string {
	if isLong {
		return "long"
	}
	return "short"
}

// SpotPrice returns the current mark price: quoteReserve scaled by the
// canonical precision over baseReserve.
func (e *Engine) SpotPrice(id string) (*num.Uint, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ms, ok := e.markets[id]
	if !ok {
		return nil, ErrMarketNotFound
	}
	return spotPrice(ms.market)
}

func spotPrice(m *types.Market) (*num.Uint, error) {
	// unreachable while the reserve invariant holds, defensive only
	if m.BaseReserve.IsZero() {
		return nil, ErrInvalidReserves
	}
	p := num.NewUint(0).Mul(m.QuoteReserve, types.Precision())
	return p.Div(p, m.BaseReserve), nil
}

// AdjustK re-anchors the curve to an external reference price without
// touching the base reserve. This is the engine's only rebalancing
// primitive and is never automatic, callers decide when divergence
// warrants it. A no-op when the target equals the current price.
func (e *Engine) AdjustK(ctx context.Context, party, id string, targetPrice *num.Uint) error {
	if err := e.auth.Check(party, access.AdminCapability); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ms, ok := e.markets[id]
	if !ok {
		return ErrMarketNotFound
	}
	m := ms.market
	current, err := spotPrice(m)
	if err != nil {
		return err
	}
	if targetPrice.EQ(current) {
		return nil
	}

	newQuote := num.NewUint(0).Mul(targetPrice, m.BaseReserve)
	newQuote.Div(newQuote, types.Precision())
	if newQuote.IsZero() {
		return ErrInvalidReserves
	}
	oldK := m.K.Clone()
	m.QuoteReserve = newQuote
	m.K = num.NewUint(0).Mul(m.BaseReserve, newQuote)

	e.log.Info("curve re-anchored",
		logging.String("market-id", id),
		logging.Stringer("target-price", targetPrice),
		logging.Stringer("new-k", m.K),
	)
	e.broker.Send(events.NewKAdjustedEvent(ctx, id, targetPrice, oldK, m.K, newQuote))
	return nil
}

// PriceImpact simulates a swap and returns the absolute price move it would
// cause, in basis points of the price before the trade. Nothing is mutated.
func (e *Engine) PriceImpact(id string, inputAmount *num.Uint, isLong bool) (uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ms, ok := e.markets[id]
	if !ok {
		return 0, ErrMarketNotFound
	}
	before, err := spotPrice(ms.market)
	if err != nil {
		return 0, err
	}
	_, newBase, newQuote, err := e.quote(ms, inputAmount, isLong)
	if err != nil {
		return 0, err
	}
	if newBase.IsZero() {
		return 0, ErrInvalidReserves
	}
	after := num.NewUint(0).Mul(newQuote, types.Precision())
	after.Div(after, newBase)

	delta, _ := num.NewUint(0).Delta(after, before)
	delta.Mul(delta, num.NewUint(10_000))
	delta.Div(delta, before)
	return delta.Uint64(), nil
}

// UpdateMarketConfig replaces the market configuration. The configuration
// has a lifecycle of its own, reserves are untouched.
func (e *Engine) UpdateMarketConfig(ctx context.Context, party, id string, cfg types.MarketConfig) error {
	if err := e.auth.Check(party, access.AdminCapability); err != nil {
		return err
	}
	if cfg.FundingPeriod <= 0 {
		return ErrInvalidMarketConfig
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ms, ok := e.markets[id]
	if !ok {
		return ErrMarketNotFound
	}
	ms.config = cfg.Clone()

	e.broker.Send(events.NewMarketConfigUpdatedEvent(ctx, id, cfg))
	return nil
}

// Deactivate stops an existing market. Markets are never destroyed.
func (e *Engine) Deactivate(ctx context.Context, party, id string) error {
	return e.setActive(ctx, party, id, false)
}

// Reactivate resumes a deactivated market.
func (e *Engine) Reactivate(ctx context.Context, party, id string) error {
	return e.setActive(ctx, party, id, true)
}

func (e *Engine) setActive(ctx context.Context, party, id string, active bool) error {
	if err := e.auth.Check(party, access.AdminCapability); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ms, ok := e.markets[id]
	if !ok {
		return ErrMarketNotFound
	}
	if ms.config.IsActive == active {
		return nil
	}
	ms.config.IsActive = active

	e.broker.Send(events.NewMarketStatusEvent(ctx, id, active))
	return nil
}

// Market returns a copy of the market state.
func (e *Engine) Market(id string) (*types.Market, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ms, ok := e.markets[id]
	if !ok {
		return nil, ErrMarketNotFound
	}
	return ms.market.Clone(), nil
}

// MarketConfig returns a copy of the market configuration.
func (e *Engine) MarketConfig(id string) (*types.MarketConfig, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ms, ok := e.markets[id]
	if !ok {
		return nil, ErrMarketNotFound
	}
	return ms.config.Clone(), nil
}
