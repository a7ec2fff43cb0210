package types

import (
	"time"

	"code.helixprotocol.io/helix/types/num"
)

// FundingRecord tracks the funding state of one market. CumulativeFunding
// only ever changes through the rate update operation, at most once per
// FundingInterval.
type FundingRecord struct {
	MarketID          string
	CurrentRate       *num.Int
	LastUpdateTime    time.Time
	CumulativeFunding *num.Int
	FundingInterval   time.Duration
}

func (f FundingRecord) Clone() *FundingRecord {
	return &FundingRecord{
		MarketID:          f.MarketID,
		CurrentRate:       f.CurrentRate.Clone(),
		LastUpdateTime:    f.LastUpdateTime,
		CumulativeFunding: f.CumulativeFunding.Clone(),
		FundingInterval:   f.FundingInterval,
	}
}

// FundingSnapshot is the value of the cumulative funding accumulator as it
// stood right after one rate update, retained for auditability.
type FundingSnapshot struct {
	Timestamp         time.Time
	CumulativeFunding *num.Int
}

func (s FundingSnapshot) Clone() *FundingSnapshot {
	return &FundingSnapshot{
		Timestamp:         s.Timestamp,
		CumulativeFunding: s.CumulativeFunding.Clone(),
	}
}
