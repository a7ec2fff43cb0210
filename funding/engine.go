package funding

import (
	"context"
	"sync"
	"time"

	"code.helixprotocol.io/helix/access"
	"code.helixprotocol.io/helix/events"
	"code.helixprotocol.io/helix/logging"
	"code.helixprotocol.io/helix/metrics"
	"code.helixprotocol.io/helix/types"
	"code.helixprotocol.io/helix/types/num"

	"github.com/pkg/errors"
)

var (
	ErrZeroPrice       = errors.New("mark and index prices must be greater than zero")
	ErrInvalidInterval = errors.New("funding interval must be positive and no longer than a day")
	ErrNotInitialized  = errors.New("funding is not initialized for this market")
	ErrNoSnapshot      = errors.New("no funding snapshot at this timestamp")
)

const (
	// DefaultFundingInterval is assigned when a market is initialized.
	DefaultFundingInterval = 8 * time.Hour
	// MaxFundingInterval is the upper bound accepted by SetFundingInterval.
	MaxFundingInterval = 24 * time.Hour
)

// maxRate returns the funding rate clamp, 5% in canonical precision.
func maxRate() *num.Uint {
	r := types.Precision()
	r.Mul(r, num.NewUint(5))
	return r.Div(r, num.NewUint(100))
}

// Broker send events
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.helixprotocol.io/helix/funding Broker
type Broker interface {
	Send(event events.Event)
}

// Authorizer checks a party holds the capability an entry point requires
//go:generate go run github.com/golang/mock/mockgen -destination mocks/authorizer_mock.go -package mocks code.helixprotocol.io/helix/funding Authorizer
type Authorizer interface {
	Check(party string, required access.Capability) error
}

// TimeService provide the current time to the engine
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.helixprotocol.io/helix/funding TimeService
type TimeService interface {
	GetTimeNow() time.Time
}

type record struct {
	rec       *types.FundingRecord
	snapshots []*types.FundingSnapshot
}

// Engine accumulates the periodic funding flow between longs and shorts of
// every market, from the divergence of the mark price against the index
// price. Storage is independent per market.
type Engine struct {
	Config
	log     *logging.Logger
	auth    Authorizer
	broker  Broker
	timeSvc TimeService

	mu      sync.RWMutex
	records map[string]*record
}

// New returns a new funding engine.
func New(log *logging.Logger, cfg Config, auth Authorizer, broker Broker, timeSvc TimeService) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		Config:  cfg,
		log:     log,
		auth:    auth,
		broker:  broker,
		timeSvc: timeSvc,
		records: map[string]*record{},
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

// Initialize moves a market from Uninitialized to Active. Idempotent, a
// second call for the same market is a no-op.
func (e *Engine) Initialize(ctx context.Context, party, id string) error {
	if err := e.auth.Check(party, access.AdminCapability); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.records[id]; ok {
		return nil
	}
	e.records[id] = &record{
		rec: &types.FundingRecord{
			MarketID:          id,
			CurrentRate:       num.IntZero(),
			LastUpdateTime:    e.timeSvc.GetTimeNow(),
			CumulativeFunding: num.IntZero(),
			FundingInterval:   DefaultFundingInterval,
		},
	}
	e.log.Info("funding initialized", logging.String("market-id", id))
	return nil
}

// Update crystallizes the funding rate from the current mark/index
// divergence. Calling before a full interval elapsed is a well defined
// no-op, not an error, so a keeper may call on any cadence. The accumulator
// advances proportionally to the elapsed time relative to the nominal
// interval, so a late update settles the full elapsed stretch at the
// current rate.
func (e *Engine) Update(ctx context.Context, party, id string, markPrice, indexPrice *num.Uint) error {
	if err := e.auth.Check(party, access.OperatorCapability); err != nil {
		return err
	}
	if markPrice.IsZero() || indexPrice.IsZero() {
		return ErrZeroPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.records[id]
	if !ok {
		return ErrNotInitialized
	}

	now := e.timeSvc.GetTimeNow()
	elapsed := now.Sub(r.rec.LastUpdateTime)
	if elapsed < r.rec.FundingInterval {
		return nil
	}

	// premium of the mark over the index, in canonical precision
	premium, below := num.NewUint(0).Delta(markPrice, indexPrice)
	rateMag := premium.Mul(premium, types.Precision())
	rateMag.Div(rateMag, indexPrice)
	if clamp := maxRate(); rateMag.GT(clamp) {
		rateMag = clamp
	}
	positive := !below

	incMag := rateMag.Clone()
	incMag.Mul(incMag, num.NewUint(uint64(elapsed/time.Second)))
	incMag.Div(incMag, num.NewUint(uint64(r.rec.FundingInterval/time.Second)))

	r.rec.CurrentRate = num.IntFromUint(rateMag, positive)
	r.rec.CumulativeFunding.Add(num.IntFromUint(incMag, positive))
	r.rec.LastUpdateTime = now
	r.snapshots = append(r.snapshots, &types.FundingSnapshot{
		Timestamp:         now,
		CumulativeFunding: r.rec.CumulativeFunding.Clone(),
	})

	if e.log.GetLevel() == logging.DebugLevel {
		e.log.Debug("funding updated",
			logging.String("market-id", id),
			logging.Stringer("rate", r.rec.CurrentRate),
			logging.Stringer("cumulative", r.rec.CumulativeFunding),
		)
	}
	e.broker.Send(events.NewFundingUpdatedEvent(
		ctx, id, r.rec.CurrentRate, r.rec.CumulativeFunding, markPrice, indexPrice, now))
	metrics.FundingUpdateCounterInc(id)
	return nil
}

// FundingPayment returns the funding owed by a position between its entry
// snapshot and now. Positive positionSize is a long, negative a short. A
// positive payment is owed BY the position, so a positive rate charges
// longs. Pure, this is the settlement integration point for an external
// position accounting component.
func (e *Engine) FundingPayment(id string, positionSize, entrySnapshot *num.Int) (*num.Int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.records[id]
	if !ok {
		return nil, ErrNotInitialized
	}

	delta := r.rec.CumulativeFunding.Clone()
	delta.Sub(entrySnapshot)
	if delta.IsZero() || positionSize.IsZero() {
		return num.IntZero(), nil
	}

	mag := num.NewUint(0).Mul(positionSize.U, delta.U)
	mag.Div(mag, types.Precision())
	positive := positionSize.IsNegative() == delta.IsNegative()
	return num.IntFromUint(mag, positive), nil
}

// SetFundingInterval updates the funding interval for a market. Gated by
// the top tier, stricter than the operator running updates.
func (e *Engine) SetFundingInterval(ctx context.Context, party, id string, interval time.Duration) error {
	if err := e.auth.Check(party, access.RootCapability); err != nil {
		return err
	}
	if interval <= 0 || interval > MaxFundingInterval {
		return ErrInvalidInterval
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.records[id]
	if !ok {
		return ErrNotInitialized
	}
	r.rec.FundingInterval = interval

	e.log.Info("funding interval updated",
		logging.String("market-id", id),
		logging.Duration("interval", interval),
	)
	e.broker.Send(events.NewFundingIntervalSetEvent(ctx, id, interval))
	return nil
}

// Record returns a copy of the funding record for a market.
func (e *Engine) Record(id string) (*types.FundingRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.records[id]
	if !ok {
		return nil, ErrNotInitialized
	}
	return r.rec.Clone(), nil
}

// CumulativeFunding returns the current value of the accumulator.
func (e *Engine) CumulativeFunding(id string) (*num.Int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.records[id]
	if !ok {
		return nil, ErrNotInitialized
	}
	return r.rec.CumulativeFunding.Clone(), nil
}

// CurrentRate returns the last crystallized funding rate.
func (e *Engine) CurrentRate(id string) (*num.Int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.records[id]
	if !ok {
		return nil, ErrNotInitialized
	}
	return r.rec.CurrentRate.Clone(), nil
}

// SnapshotAt returns the accumulator snapshot taken at exactly the given
// update timestamp.
func (e *Engine) SnapshotAt(id string, t time.Time) (*types.FundingSnapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.records[id]
	if !ok {
		return nil, ErrNotInitialized
	}
	for _, s := range r.snapshots {
		if s.Timestamp.Equal(t) {
			return s.Clone(), nil
		}
	}
	return nil, ErrNoSnapshot
}

// Snapshots returns the full audit history of accumulator snapshots, in
// update order.
func (e *Engine) Snapshots(id string) ([]*types.FundingSnapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.records[id]
	if !ok {
		return nil, ErrNotInitialized
	}
	out := make([]*types.FundingSnapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		out = append(out, s.Clone())
	}
	return out, nil
}
