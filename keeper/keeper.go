package keeper

import (
	"context"
	"sync"
	"time"

	"code.helixprotocol.io/helix/logging"
	"code.helixprotocol.io/helix/types/num"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyTracked = errors.New("pair is already tracked")
	ErrNotTracked     = errors.New("pair is not tracked")
)

// PriceEngine is the aggregation engine surface the keeper drives.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/price_engine_mock.go -package mocks code.helixprotocol.io/helix/keeper PriceEngine
type PriceEngine interface {
	Refresh(ctx context.Context, asset string) error
	GetPrice(asset string) (*num.Uint, time.Time, error)
	IsPriceValid(asset string) bool
}

// MarketEngine is the curve engine surface the keeper drives.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/market_engine_mock.go -package mocks code.helixprotocol.io/helix/keeper MarketEngine
type MarketEngine interface {
	SpotPrice(id string) (*num.Uint, error)
	AdjustK(ctx context.Context, party, id string, targetPrice *num.Uint) error
}

// FundingEngine is the funding engine surface the keeper drives.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/funding_engine_mock.go -package mocks code.helixprotocol.io/helix/keeper FundingEngine
type FundingEngine interface {
	Update(ctx context.Context, party, id string, markPrice, indexPrice *num.Uint) error
}

// TimeService advances and reads the reference clock.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/time_service_mock.go -package mocks code.helixprotocol.io/helix/keeper TimeService
type TimeService interface {
	SetTimeNow(ctx context.Context, t time.Time)
	GetTimeNow() time.Time
}

// pair binds a market to the asset whose aggregate price serves as its
// index.
type pair struct {
	marketID string
	asset    string
}

// Svc is the off-engine automaton of the system. On every interval it
// advances the reference clock, refreshes the aggregate price per tracked
// asset, feeds the funding engine and re-anchors any curve that drifted
// beyond tolerance. None of the engines schedule anything themselves, this
// service is the only source of periodic activity.
type Svc struct {
	Config
	log     *logging.Logger
	pricing PriceEngine
	markets MarketEngine
	funding FundingEngine
	timeSvc TimeService

	mu    sync.Mutex
	pairs []pair
	done  chan struct{}
}

// New returns a new keeper service, not yet started.
func New(log *logging.Logger, cfg Config, pricing PriceEngine, markets MarketEngine, funding FundingEngine, timeSvc TimeService) *Svc {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Svc{
		Config:  cfg,
		log:     log,
		pricing: pricing,
		markets: markets,
		funding: funding,
		timeSvc: timeSvc,
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the service.
func (s *Svc) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}

	s.mu.Lock()
	s.Config = cfg
	s.mu.Unlock()
}

// Track registers a market/asset pair for servicing.
func (s *Svc) Track(marketID, asset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pairs {
		if p.marketID == marketID && p.asset == asset {
			return ErrAlreadyTracked
		}
	}
	s.pairs = append(s.pairs, pair{marketID: marketID, asset: asset})
	s.log.Info("pair tracked",
		logging.String("market-id", marketID),
		logging.String("asset", asset),
	)
	return nil
}

// Untrack removes a market/asset pair from servicing.
func (s *Svc) Untrack(marketID, asset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pairs {
		if p.marketID == marketID && p.asset == asset {
			s.pairs[i] = s.pairs[len(s.pairs)-1]
			s.pairs = s.pairs[:len(s.pairs)-1]
			return nil
		}
	}
	return ErrNotTracked
}

// Start runs the service loop until the context is cancelled. Blocking,
// callers run it in its own goroutine.
func (s *Svc) Start(ctx context.Context) {
	s.mu.Lock()
	interval := s.Interval.Get()
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()
	defer close(done)

	s.log.Info("keeper started", logging.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("keeper stopped")
			return
		case t := <-ticker.C:
			s.onTick(ctx, t)
		}
	}
}

// Wait blocks until a started service loop has returned.
func (s *Svc) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// onTick services every tracked pair once. A failure on one pair never
// blocks the others.
func (s *Svc) onTick(ctx context.Context, t time.Time) {
	s.timeSvc.SetTimeNow(ctx, t)

	s.mu.Lock()
	pairs := make([]pair, len(s.pairs))
	copy(pairs, s.pairs)
	party := s.Party
	retries := s.MaxRetries
	tolerance := s.RebalanceToleranceBps
	s.mu.Unlock()

	for _, p := range pairs {
		if err := s.servicePair(ctx, party, p, retries, tolerance); err != nil {
			s.log.Error("pair servicing failed",
				logging.String("market-id", p.marketID),
				logging.String("asset", p.asset),
				logging.Error(err),
			)
		}
	}
}

func (s *Svc) servicePair(ctx context.Context, party string, p pair, retries, tolerance uint64) error {
	err := backoff.Retry(
		func() error {
			return s.pricing.Refresh(ctx, p.asset)
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries),
	)
	if err != nil {
		return errors.Wrap(err, "refreshing aggregate price")
	}
	if !s.pricing.IsPriceValid(p.asset) {
		s.log.Warn("aggregate price invalid, pair skipped",
			logging.String("asset", p.asset),
		)
		return nil
	}

	index, _, err := s.pricing.GetPrice(p.asset)
	if err != nil {
		return errors.Wrap(err, "reading aggregate price")
	}
	mark, err := s.markets.SpotPrice(p.marketID)
	if err != nil {
		return errors.Wrap(err, "reading mark price")
	}

	if err := s.funding.Update(ctx, party, p.marketID, mark, index); err != nil {
		return errors.Wrap(err, "updating funding")
	}

	if divergenceBps(mark, index) > tolerance {
		s.log.Info("re-anchoring curve to index price",
			logging.String("market-id", p.marketID),
			logging.Stringer("mark", mark),
			logging.Stringer("index", index),
		)
		if err := s.markets.AdjustK(ctx, party, p.marketID, index); err != nil {
			return errors.Wrap(err, "adjusting curve")
		}
	}
	return nil
}

// divergenceBps returns |mark-index| relative to the index, in basis
// points.
func divergenceBps(mark, index *num.Uint) uint64 {
	delta, _ := num.NewUint(0).Delta(mark, index)
	delta.Mul(delta, num.NewUint(10000))
	delta.Div(delta, index)
	return delta.Uint64()
}
