package pricing_test

import (
	"context"
	"testing"
	"time"

	"code.helixprotocol.io/helix/pricing"
	"code.helixprotocol.io/helix/pricing/mocks"
	"code.helixprotocol.io/helix/types/num"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tstAdapter struct {
	*pricing.NormalisingAdapter
	ctrl    *gomock.Controller
	source  *mocks.MockRawSource
	timeSvc *mocks.MockTimeService
	now     time.Time
}

func getTestAdapter(t *testing.T) *tstAdapter {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRawSource(ctrl)
	timeSvc := mocks.NewMockTimeService(ctrl)
	a := &tstAdapter{
		ctrl:    ctrl,
		source:  source,
		timeSvc: timeSvc,
		now:     time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	timeSvc.EXPECT().GetTimeNow().AnyTimes().DoAndReturn(func() time.Time {
		return a.now
	})
	a.NormalisingAdapter = pricing.NewNormalisingAdapter(source, time.Minute, timeSvc)
	return a
}

func (a *tstAdapter) serve(reading pricing.RawReading) {
	a.source.EXPECT().LatestRound(gomock.Any(), asset).Times(1).Return(reading, nil)
}

func TestNormalisingAdapter(t *testing.T) {
	t.Run("Rescales source decimals to canonical precision", testAdapterScaling)
	t.Run("Rejects a zero price", testAdapterZeroPrice)
	t.Run("Rejects a zero timestamp", testAdapterZeroTimestamp)
	t.Run("Rejects an out of order round", testAdapterRoundOrder)
	t.Run("Rejects a reading older than the max age", testAdapterTooOld)
}

func testAdapterScaling(t *testing.T) {
	a := getTestAdapter(t)
	defer a.ctrl.Finish()

	// 8 decimals scale down to the canonical 6
	a.serve(pricing.RawReading{
		Price:     num.NewUint(5000000000),
		Decimals:  8,
		Timestamp: a.now,
		Round:     1,
	})
	data, err := a.GetPrice(context.Background(), asset)
	require.NoError(t, err)
	assert.True(t, data.Price.EQ(num.NewUint(50000000)))

	// 2 decimals scale up
	a.serve(pricing.RawReading{
		Price:     num.NewUint(5000),
		Decimals:  2,
		Timestamp: a.now,
		Round:     2,
	})
	data, err = a.GetPrice(context.Background(), asset)
	require.NoError(t, err)
	assert.True(t, data.Price.EQ(num.NewUint(50000000)))

	// canonical input passes through untouched
	a.serve(pricing.RawReading{
		Price:     num.NewUint(50000000),
		Decimals:  6,
		Timestamp: a.now,
		Round:     3,
	})
	data, err = a.GetPrice(context.Background(), asset)
	require.NoError(t, err)
	assert.True(t, data.Price.EQ(num.NewUint(50000000)))
}

func testAdapterZeroPrice(t *testing.T) {
	a := getTestAdapter(t)
	defer a.ctrl.Finish()

	a.serve(pricing.RawReading{
		Price:     num.NewUint(0),
		Decimals:  6,
		Timestamp: a.now,
		Round:     1,
	})
	_, err := a.GetPrice(context.Background(), asset)
	assert.ErrorIs(t, err, pricing.ErrNonPositivePrice)
}

func testAdapterZeroTimestamp(t *testing.T) {
	a := getTestAdapter(t)
	defer a.ctrl.Finish()

	a.serve(pricing.RawReading{
		Price:    num.NewUint(50000000),
		Decimals: 6,
		Round:    1,
	})
	_, err := a.GetPrice(context.Background(), asset)
	assert.ErrorIs(t, err, pricing.ErrZeroTimestamp)
}

func testAdapterRoundOrder(t *testing.T) {
	a := getTestAdapter(t)
	defer a.ctrl.Finish()

	a.serve(pricing.RawReading{
		Price:     num.NewUint(50000000),
		Decimals:  6,
		Timestamp: a.now,
		Round:     5,
	})
	_, err := a.GetPrice(context.Background(), asset)
	require.NoError(t, err)

	// a stale round is refused, an equal one is accepted
	a.serve(pricing.RawReading{
		Price:     num.NewUint(50000000),
		Decimals:  6,
		Timestamp: a.now,
		Round:     4,
	})
	_, err = a.GetPrice(context.Background(), asset)
	assert.ErrorIs(t, err, pricing.ErrOutOfOrderRound)

	a.serve(pricing.RawReading{
		Price:     num.NewUint(50000000),
		Decimals:  6,
		Timestamp: a.now,
		Round:     5,
	})
	_, err = a.GetPrice(context.Background(), asset)
	assert.NoError(t, err)
}

func testAdapterTooOld(t *testing.T) {
	a := getTestAdapter(t)
	defer a.ctrl.Finish()

	a.serve(pricing.RawReading{
		Price:     num.NewUint(50000000),
		Decimals:  6,
		Timestamp: a.now.Add(-2 * time.Minute),
		Round:     1,
	})
	_, err := a.GetPrice(context.Background(), asset)
	assert.ErrorIs(t, err, pricing.ErrReadingTooOld)
}
