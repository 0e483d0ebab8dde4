package toast

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualClock_FiresInOrder(t *testing.T) {
	clock := NewManualClock(testEpoch)

	var order []string
	clock.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	clock.AfterFunc(100*time.Millisecond, func() { order = append(order, "b") })

	clock.Advance(50 * time.Millisecond)
	assert.Empty(t, order)

	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, testEpoch.Add(300*time.Millisecond), clock.Now())
}

func TestManualClock_NowDuringCallback(t *testing.T) {
	clock := NewManualClock(testEpoch)

	var at time.Time
	clock.AfterFunc(time.Second, func() { at = clock.Now() })
	clock.Advance(time.Minute)

	assert.Equal(t, testEpoch.Add(time.Second), at)
	assert.Equal(t, testEpoch.Add(time.Minute), clock.Now())
}

func TestManualClock_Cascade(t *testing.T) {
	clock := NewManualClock(testEpoch)

	fired := 0
	clock.AfterFunc(time.Second, func() {
		fired++
		clock.AfterFunc(time.Second, func() { fired++ })
		clock.AfterFunc(time.Hour, func() { fired++ })
	})

	clock.Advance(5 * time.Second)
	assert.Equal(t, 2, fired)
	assert.Equal(t, 1, clock.Pending())
}

func TestManualClock_Stop(t *testing.T) {
	clock := NewManualClock(testEpoch)

	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clock.Advance(time.Hour)
	assert.False(t, fired)
}

func TestManualClock_StopAfterFire(t *testing.T) {
	clock := NewManualClock(testEpoch)

	timer := clock.AfterFunc(0, func() {})
	clock.Advance(0)
	assert.False(t, timer.Stop())
}

func TestManualClock_NegativeDelay(t *testing.T) {
	clock := NewManualClock(testEpoch)

	fired := false
	clock.AfterFunc(-time.Second, func() { fired = true })
	clock.Advance(0)
	assert.True(t, fired)
}

func TestManualClock_BackwardsIsNoop(t *testing.T) {
	clock := NewManualClock(testEpoch)
	clock.Advance(time.Second)
	clock.AdvanceTo(testEpoch)
	assert.Equal(t, testEpoch.Add(time.Second), clock.Now())
}

func TestLoop_Do(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(nil)
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	var n int
	for i := 0; i < 10; i++ {
		require.NoError(t, loop.Do(ctx, func() { n++ }))
	}
	assert.Equal(t, 10, n)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.ErrorIs(t, loop.Do(context.Background(), func() {}), ErrLoopStopped)
}

func TestLoop_AfterFuncRunsOnLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(nil)
	go func() { _ = loop.Run(ctx) }()

	var fired atomic.Bool
	loop.AfterFunc(10*time.Millisecond, func() { fired.Store(true) })
	assert.Eventually(t, fired.Load, time.Second, 5*time.Millisecond)

	stopped := loop.AfterFunc(time.Hour, func() { t.Error("stopped timer fired") })
	assert.True(t, stopped.Stop())
}

func TestLoop_ManagerEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop(nil)
	go func() { _ = loop.Run(ctx) }()

	removed := make(chan RemoveReason, 1)
	var m *Manager
	require.NoError(t, loop.Do(ctx, func() {
		m = NewManager(newFakeRenderer(), loop, WithObserver(func(ev Event) {
			if ev.Kind == EventRemoving {
				removed <- ev.Reason
			}
		}))
		m.Show("x", WithDuration(20*time.Millisecond))
	}))

	select {
	case reason := <-removed:
		assert.Equal(t, ReasonExpired, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("toast never expired")
	}
}
