package vamm_test

import (
	"context"
	"testing"

	"code.helixprotocol.io/helix/access"
	"code.helixprotocol.io/helix/logging"
	"code.helixprotocol.io/helix/types"
	"code.helixprotocol.io/helix/types/num"
	"code.helixprotocol.io/helix/vamm"
	"code.helixprotocol.io/helix/vamm/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin    = "admin"
	operator = "operator"
	marketID = "BTC/USD"
)

type tstEngine struct {
	*vamm.Engine
	ctrl   *gomock.Controller
	broker *mocks.MockBroker
	auth   *mocks.MockAuthorizer
}

func getTestEngine(t *testing.T) *tstEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	auth := mocks.NewMockAuthorizer(ctrl)
	eng := vamm.New(logging.NewTestLogger(), vamm.NewDefaultConfig(), auth, broker)
	return &tstEngine{
		Engine: eng,
		ctrl:   ctrl,
		broker: broker,
		auth:   auth,
	}
}

// createMarket seeds a market with base=100, quote=10000, so k=1000000 and
// the spot price is 100000000 in canonical precision.
func (e *tstEngine) createMarket(t *testing.T) {
	t.Helper()
	e.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	e.broker.EXPECT().Send(gomock.Any()).Times(1)
	err := e.CreateMarket(context.Background(), admin, marketID, num.NewUint(100), num.NewUint(10000), 500)
	require.NoError(t, err)
}

func TestCreateMarket(t *testing.T) {
	t.Run("Create a market - success", testCreateMarketSuccess)
	t.Run("Create a market - duplicate", testCreateMarketDuplicate)
	t.Run("Create a market - zero reserves", testCreateMarketZeroReserves)
	t.Run("Create a market - unauthorized", testCreateMarketUnauthorized)
}

func testCreateMarketSuccess(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	m, err := eng.Market(marketID)
	require.NoError(t, err)
	assert.True(t, m.K.EQ(num.NewUint(1000000)))
	assert.True(t, m.TotalPositionSize.IsZero())

	cfg, err := eng.MarketConfig(marketID)
	require.NoError(t, err)
	assert.True(t, cfg.IsActive)
	assert.Equal(t, vamm.DefaultFundingPeriod, cfg.FundingPeriod)
}

func testCreateMarketDuplicate(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	err := eng.CreateMarket(context.Background(), admin, marketID, num.NewUint(100), num.NewUint(10000), 500)
	assert.ErrorIs(t, err, vamm.ErrMarketAlreadyExists)
}

func testCreateMarketZeroReserves(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(2).Return(nil)

	err := eng.CreateMarket(context.Background(), admin, marketID, num.NewUint(0), num.NewUint(10000), 500)
	assert.ErrorIs(t, err, vamm.ErrInvalidReserves)
	err = eng.CreateMarket(context.Background(), admin, marketID, num.NewUint(100), num.NewUint(0), 500)
	assert.ErrorIs(t, err, vamm.ErrInvalidReserves)
}

func testCreateMarketUnauthorized(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.auth.EXPECT().Check("nobody", access.AdminCapability).Times(1).Return(access.ErrUnauthorized)

	err := eng.CreateMarket(context.Background(), "nobody", marketID, num.NewUint(100), num.NewUint(10000), 500)
	assert.ErrorIs(t, err, access.ErrUnauthorized)
	_, err = eng.Market(marketID)
	assert.ErrorIs(t, err, vamm.ErrMarketNotFound)
}

func TestSwap(t *testing.T) {
	t.Run("Quote and swap agree - long", testSwapLong)
	t.Run("Quote and swap agree - short", testSwapShort)
	t.Run("Swap preserves the curve constant", testSwapKeepsK)
	t.Run("Swap below minimum output leaves state untouched", testSwapSlippage)
	t.Run("Swap on an inactive market", testSwapInactive)
	t.Run("Swap with zero input", testSwapZeroInput)
	t.Run("Swap unauthorized", testSwapUnauthorized)
}

func testSwapLong(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	quoted, err := eng.Quote(marketID, num.NewUint(100), true)
	require.NoError(t, err)
	// newQuote=10100, newBase=1000000/10100=99 truncated, output=1
	assert.True(t, quoted.EQ(num.NewUint(1)))

	eng.auth.EXPECT().Check(operator, access.OperatorCapability).Times(1).Return(nil)
	eng.broker.EXPECT().Send(gomock.Any()).Times(1)
	out, err := eng.Swap(context.Background(), operator, marketID, num.NewUint(100), true, num.NewUint(0))
	require.NoError(t, err)
	assert.True(t, out.EQ(quoted))

	m, err := eng.Market(marketID)
	require.NoError(t, err)
	assert.True(t, m.BaseReserve.EQ(num.NewUint(99)))
	assert.True(t, m.QuoteReserve.EQ(num.NewUint(10100)))
	assert.True(t, m.OpenInterestLong.EQ(num.NewUint(1)))
	assert.True(t, m.OpenInterestShort.IsZero())
	assert.True(t, m.TotalPositionSize.EQ(num.NewUint(1)))
}

func testSwapShort(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(operator, access.OperatorCapability).Times(1).Return(nil)
	eng.broker.EXPECT().Send(gomock.Any()).Times(1)
	out, err := eng.Swap(context.Background(), operator, marketID, num.NewUint(100), false, num.NewUint(0))
	require.NoError(t, err)
	// newBase=200, newQuote=1000000/200=5000, output=5000
	assert.True(t, out.EQ(num.NewUint(5000)))

	m, err := eng.Market(marketID)
	require.NoError(t, err)
	assert.True(t, m.BaseReserve.EQ(num.NewUint(200)))
	assert.True(t, m.QuoteReserve.EQ(num.NewUint(5000)))
	assert.True(t, m.OpenInterestShort.EQ(num.NewUint(100)))
	assert.True(t, m.OpenInterestLong.IsZero())
}

func testSwapKeepsK(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(operator, access.OperatorCapability).AnyTimes().Return(nil)
	eng.broker.EXPECT().Send(gomock.Any()).AnyTimes()
	for i := 0; i < 5; i++ {
		_, err := eng.Swap(context.Background(), operator, marketID, num.NewUint(37), i%2 == 0, num.NewUint(0))
		require.NoError(t, err)

		m, err := eng.Market(marketID)
		require.NoError(t, err)
		// reserves stay on the curve: truncation never pushes the
		// product above k, and leaves it short by less than one
		// divisor step
		product := num.NewUint(0).Mul(m.BaseReserve, m.QuoteReserve)
		assert.True(t, product.LTE(m.K))
		diff := num.NewUint(0).Sub(m.K, product)
		bound := m.QuoteReserve
		if m.BaseReserve.GT(bound) {
			bound = m.BaseReserve
		}
		assert.True(t, diff.LT(bound))
	}

	m, err := eng.Market(marketID)
	require.NoError(t, err)
	// the stored constant never drifts, whatever rounding the swaps did
	assert.True(t, m.K.EQ(num.NewUint(1000000)))
}

func testSwapSlippage(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	quoted, err := eng.Quote(marketID, num.NewUint(100), true)
	require.NoError(t, err)
	minOut := num.NewUint(0).Add(quoted, num.NewUint(1))

	eng.auth.EXPECT().Check(operator, access.OperatorCapability).Times(1).Return(nil)
	_, err = eng.Swap(context.Background(), operator, marketID, num.NewUint(100), true, minOut)
	assert.ErrorIs(t, err, vamm.ErrSlippageExceeded)

	m, err := eng.Market(marketID)
	require.NoError(t, err)
	assert.True(t, m.BaseReserve.EQ(num.NewUint(100)))
	assert.True(t, m.QuoteReserve.EQ(num.NewUint(10000)))
	assert.True(t, m.TotalPositionSize.IsZero())
}

func testSwapInactive(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	eng.broker.EXPECT().Send(gomock.Any()).Times(1)
	require.NoError(t, eng.Deactivate(context.Background(), admin, marketID))

	eng.auth.EXPECT().Check(operator, access.OperatorCapability).Times(1).Return(nil)
	_, err := eng.Swap(context.Background(), operator, marketID, num.NewUint(100), true, num.NewUint(0))
	assert.ErrorIs(t, err, vamm.ErrMarketNotActive)

	_, err = eng.Quote(marketID, num.NewUint(100), true)
	assert.ErrorIs(t, err, vamm.ErrMarketNotActive)
}

func testSwapZeroInput(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(operator, access.OperatorCapability).Times(1).Return(nil)
	_, err := eng.Swap(context.Background(), operator, marketID, num.NewUint(0), true, num.NewUint(0))
	assert.ErrorIs(t, err, vamm.ErrZeroAmount)
}

func testSwapUnauthorized(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check("nobody", access.OperatorCapability).Times(1).Return(access.ErrUnknownParty)
	_, err := eng.Swap(context.Background(), "nobody", marketID, num.NewUint(100), true, num.NewUint(0))
	assert.ErrorIs(t, err, access.ErrUnknownParty)
}

func TestSpotPriceAndImpact(t *testing.T) {
	t.Run("Spot price reflects the reserve ratio", testSpotPrice)
	t.Run("Price impact of a simulated swap", testPriceImpact)
	t.Run("Price impact on unknown market", testPriceImpactUnknownMarket)
}

func testSpotPrice(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	p, err := eng.SpotPrice(marketID)
	require.NoError(t, err)
	assert.True(t, p.EQ(num.NewUint(100000000)))
}

func testPriceImpact(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	// after a 100 long: price moves from 100000000 to 10100*1e6/99
	bps, err := eng.PriceImpact(marketID, num.NewUint(100), true)
	require.NoError(t, err)
	assert.Equal(t, uint64(202), bps)

	// simulation only, reserves are untouched
	m, err := eng.Market(marketID)
	require.NoError(t, err)
	assert.True(t, m.BaseReserve.EQ(num.NewUint(100)))
	assert.True(t, m.QuoteReserve.EQ(num.NewUint(10000)))
}

func testPriceImpactUnknownMarket(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	_, err := eng.PriceImpact("missing", num.NewUint(100), true)
	assert.ErrorIs(t, err, vamm.ErrMarketNotFound)
}

func TestAdjustK(t *testing.T) {
	t.Run("Adjust to a new target price", testAdjustK)
	t.Run("Adjust to the current price is a no-op", testAdjustKNoop)
	t.Run("Adjust unauthorized", testAdjustKUnauthorized)
}

func testAdjustK(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	eng.broker.EXPECT().Send(gomock.Any()).Times(1)
	err := eng.AdjustK(context.Background(), admin, marketID, num.NewUint(50000000))
	require.NoError(t, err)

	m, err := eng.Market(marketID)
	require.NoError(t, err)
	// base untouched, quote re-derived from the target price
	assert.True(t, m.BaseReserve.EQ(num.NewUint(100)))
	assert.True(t, m.QuoteReserve.EQ(num.NewUint(5000)))
	assert.True(t, m.K.EQ(num.NewUint(500000)))

	p, err := eng.SpotPrice(marketID)
	require.NoError(t, err)
	assert.True(t, p.EQ(num.NewUint(50000000)))
}

func testAdjustKNoop(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	// no event is emitted when the target equals the current price
	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	err := eng.AdjustK(context.Background(), admin, marketID, num.NewUint(100000000))
	require.NoError(t, err)

	m, err := eng.Market(marketID)
	require.NoError(t, err)
	assert.True(t, m.K.EQ(num.NewUint(1000000)))
}

func testAdjustKUnauthorized(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(operator, access.AdminCapability).Times(1).Return(access.ErrUnauthorized)
	err := eng.AdjustK(context.Background(), operator, marketID, num.NewUint(50000000))
	assert.ErrorIs(t, err, access.ErrUnauthorized)
}

func TestMarketLifecycle(t *testing.T) {
	t.Run("Deactivate and reactivate", testDeactivateReactivate)
	t.Run("Repeated status change emits no event", testStatusNoop)
	t.Run("Update market configuration", testUpdateMarketConfig)
	t.Run("Reject invalid market configuration", testUpdateMarketConfigInvalid)
}

func testDeactivateReactivate(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(2).Return(nil)
	eng.broker.EXPECT().Send(gomock.Any()).Times(2)

	require.NoError(t, eng.Deactivate(context.Background(), admin, marketID))
	cfg, err := eng.MarketConfig(marketID)
	require.NoError(t, err)
	assert.False(t, cfg.IsActive)

	require.NoError(t, eng.Reactivate(context.Background(), admin, marketID))
	cfg, err = eng.MarketConfig(marketID)
	require.NoError(t, err)
	assert.True(t, cfg.IsActive)
}

func testStatusNoop(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	// market starts active, reactivating it emits nothing
	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	require.NoError(t, eng.Reactivate(context.Background(), admin, marketID))
}

func testUpdateMarketConfig(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	eng.broker.EXPECT().Send(gomock.Any()).Times(1)
	err := eng.UpdateMarketConfig(context.Background(), admin, marketID, types.MarketConfig{
		MaxSlippageBps:       250,
		FundingPeriod:        vamm.DefaultFundingPeriod,
		MaintenanceMarginBps: 750,
		IsActive:             true,
	})
	require.NoError(t, err)

	cfg, err := eng.MarketConfig(marketID)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), cfg.MaxSlippageBps)
	assert.Equal(t, uint64(750), cfg.MaintenanceMarginBps)
}

func testUpdateMarketConfigInvalid(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()
	eng.createMarket(t)

	eng.auth.EXPECT().Check(admin, access.AdminCapability).Times(1).Return(nil)
	err := eng.UpdateMarketConfig(context.Background(), admin, marketID, types.MarketConfig{})
	assert.ErrorIs(t, err, vamm.ErrInvalidMarketConfig)
}
