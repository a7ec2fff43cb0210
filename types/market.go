package types

import (
	"time"

	"code.helixprotocol.io/helix/types/num"
)

const (
	// PrecisionDecimals is the number of decimal places carried by every
	// price and reserve amount in the system.
	PrecisionDecimals = 6

	precision uint64 = 1_000_000
)

// Precision returns the canonical fixed point scaling factor (10^6).
func Precision() *num.Uint {
	return num.NewUint(precision)
}

// Market is the synthetic liquidity curve backing one perpetual market.
// Reserves are virtual, there is no real counter-asset liquidity behind them.
type Market struct {
	ID                string
	BaseReserve       *num.Uint
	QuoteReserve      *num.Uint
	K                 *num.Uint
	TotalPositionSize *num.Uint
	OpenInterestLong  *num.Uint
	OpenInterestShort *num.Uint
}

func (m Market) Clone() *Market {
	return &Market{
		ID:                m.ID,
		BaseReserve:       m.BaseReserve.Clone(),
		QuoteReserve:      m.QuoteReserve.Clone(),
		K:                 m.K.Clone(),
		TotalPositionSize: m.TotalPositionSize.Clone(),
		OpenInterestLong:  m.OpenInterestLong.Clone(),
		OpenInterestShort: m.OpenInterestShort.Clone(),
	}
}

// MarketConfig carries the tuneable parameters of a market. Its lifecycle is
// independent from the Market itself, it can be updated without touching the
// reserves.
type MarketConfig struct {
	MaxSlippageBps       uint64
	FundingPeriod        time.Duration
	MaintenanceMarginBps uint64
	IsActive             bool
}

func (c MarketConfig) Clone() *MarketConfig {
	cpy := c
	return &cpy
}
