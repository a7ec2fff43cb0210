package htime_test

import (
	"context"
	"testing"
	"time"

	"code.helixprotocol.io/helix/events"
	"code.helixprotocol.io/helix/htime"
	"code.helixprotocol.io/helix/htime/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tstSvc struct {
	*htime.Svc
	ctrl   *gomock.Controller
	broker *mocks.MockBroker
}

func getTestService(t *testing.T) *tstSvc {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	return &tstSvc{
		Svc:    htime.New(htime.NewDefaultConfig(), broker),
		ctrl:   ctrl,
		broker: broker,
	}
}

func TestService(t *testing.T) {
	t.Run("Wall clock until the first update", testWallClockDefault)
	t.Run("Set and get", testSetGet)
	t.Run("Time update is published on the bus", testTimeEventPublished)
	t.Run("Listeners are notified in order", testListeners)
}

func testWallClockDefault(t *testing.T) {
	s := getTestService(t)
	defer s.ctrl.Finish()

	before := time.Now().UTC()
	now := s.GetTimeNow()
	assert.False(t, now.Before(before))
}

func testSetGet(t *testing.T) {
	s := getTestService(t)
	defer s.ctrl.Finish()

	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	s.broker.EXPECT().Send(gomock.Any()).Times(1)
	s.SetTimeNow(context.Background(), ts)
	assert.Equal(t, ts, s.GetTimeNow())
}

func testTimeEventPublished(t *testing.T) {
	s := getTestService(t)
	defer s.ctrl.Finish()

	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	s.broker.EXPECT().Send(gomock.Any()).Times(1).Do(func(e events.Event) {
		te, ok := e.(*events.Time)
		require.True(t, ok)
		assert.Equal(t, events.TimeUpdate, te.Type())
		assert.Equal(t, ts, te.Time())
	})
	s.SetTimeNow(context.Background(), ts)
}

func testListeners(t *testing.T) {
	s := getTestService(t)
	defer s.ctrl.Finish()
	s.broker.EXPECT().Send(gomock.Any()).Times(2)

	var calls []int
	s.NotifyOnTick(func(_ context.Context, _ time.Time) { calls = append(calls, 1) })
	s.NotifyOnTick(func(_ context.Context, _ time.Time) { calls = append(calls, 2) })

	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetTimeNow(context.Background(), ts)
	require.Equal(t, []int{1, 2}, calls)

	s.SetTimeNow(context.Background(), ts.Add(time.Second))
	assert.Equal(t, []int{1, 2, 1, 2}, calls)
}
