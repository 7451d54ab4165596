package scroller

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewTimer(clock, 100*time.Millisecond)
	assert.False(t, timer.IsRunning())

	timer.Start()
	assert.True(t, timer.IsRunning())

	clock.Advance(99 * time.Millisecond)
	assert.True(t, timer.IsRunning())

	clock.Advance(time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, timer.Wait(ctx))
	assert.False(t, timer.IsRunning())
}

func TestTimerRestartPushesDeadline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewTimer(clock, 100*time.Millisecond).Start()

	clock.Advance(60 * time.Millisecond)
	timer.Restart()
	clock.Advance(60 * time.Millisecond)
	assert.True(t, timer.IsRunning())

	clock.Advance(40 * time.Millisecond)
	assert.Eventually(t, func() bool { return !timer.IsRunning() }, 2*time.Second, time.Millisecond)
}

func TestTimerStartWhileRunningKeepsDeadline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewTimer(clock, 100*time.Millisecond).Start()

	clock.Advance(60 * time.Millisecond)
	timer.Start()
	clock.Advance(40 * time.Millisecond)
	assert.Eventually(t, func() bool { return !timer.IsRunning() }, 2*time.Second, time.Millisecond)
}

func TestTimerAbort(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewTimer(clock, 100*time.Millisecond).Start()

	time.AfterFunc(10*time.Millisecond, func() { timer.Abort() })
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, timer.Wait(ctx), ErrTimerAborted)
	assert.False(t, timer.IsRunning())

	// An aborted run does not fire later.
	timer.Start()
	clock.Advance(100 * time.Millisecond)
	assert.Eventually(t, func() bool { return !timer.IsRunning() }, 2*time.Second, time.Millisecond)
}

func TestTimerWaitWhenStopped(t *testing.T) {
	timer := NewTimer(clockwork.NewFakeClock(), time.Second)
	assert.NoError(t, timer.Wait(context.Background()))
}

func TestTimerWaitCancelled(t *testing.T) {
	timer := NewTimer(clockwork.NewFakeClock(), time.Second).Start()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, timer.Wait(ctx), context.Canceled)
	assert.True(t, timer.IsRunning())
}

func TestTimerFinishedSeesEarlierAbort(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := NewTimer(clock, 100*time.Millisecond).Start()

	wait := timer.Finished()
	timer.Abort()
	// A later run does not change the captured one.
	timer.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, wait(ctx), ErrTimerAborted)
	assert.True(t, timer.IsRunning())
}

func TestTimerFinishedWhenStopped(t *testing.T) {
	timer := NewTimer(clockwork.NewFakeClock(), time.Second)
	wait := timer.Finished()
	timer.Start()
	assert.NoError(t, wait(context.Background()))
}
