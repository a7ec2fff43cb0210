package types

import (
	"time"

	"code.helixprotocol.io/helix/types/num"
)

// PriceRecord is the defended aggregate price for one asset. IsValid only
// reflects the deviation gate at write time, staleness is evaluated at read
// time against the record timestamp.
type PriceRecord struct {
	Asset        string
	Price        *num.Uint
	Timestamp    time.Time
	DeviationBps uint64
	IsValid      bool
}

func (p PriceRecord) Clone() *PriceRecord {
	return &PriceRecord{
		Asset:        p.Asset,
		Price:        p.Price.Clone(),
		Timestamp:    p.Timestamp,
		DeviationBps: p.DeviationBps,
		IsValid:      p.IsValid,
	}
}
