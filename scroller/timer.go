package scroller

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a restartable one-shot timer. The engine uses it to tell whether
// the user is actively scrolling.
type Timer struct {
	clock   clockwork.Clock
	timeout time.Duration

	mu    sync.Mutex
	gen   uint64
	timer clockwork.Timer
	run   *timerRun
}

type timerRun struct {
	done chan struct{}
	err  error
}

// NewTimer returns a stopped timer firing timeout after it is started.
func NewTimer(clock clockwork.Clock, timeout time.Duration) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Timer{clock: clock, timeout: timeout}
}

// Start starts the timer if it is not running.
func (t *Timer) Start() *Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.run == nil {
		t.run = &timerRun{done: make(chan struct{})}
		t.schedule()
	}
	return t
}

// Restart pushes the deadline of a running timer back to a full timeout, or
// starts it.
func (t *Timer) Restart() *Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.run == nil {
		t.run = &timerRun{done: make(chan struct{})}
	}
	t.schedule()
	return t
}

// Abort stops a running timer. Pending waiters receive ErrTimerAborted.
func (t *Timer) Abort() *Timer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.run == nil {
		return t
	}
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
	}
	t.finish(ErrTimerAborted)
	return t
}

// IsRunning reports whether the timer was started and has not fired or been
// aborted since.
func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.run != nil
}

// Wait blocks until the current run of the timer ends. It returns nil
// immediately when the timer is not running.
func (t *Timer) Wait(ctx context.Context) error {
	return t.Finished()(ctx)
}

// Finished captures the current run and returns a function waiting for that
// run to end, even if it ends before the function is called. The returned
// function reports nil for a stopped timer or a run that fired, and
// ErrTimerAborted for an aborted one.
func (t *Timer) Finished() func(ctx context.Context) error {
	t.mu.Lock()
	run := t.run
	t.mu.Unlock()
	return run.wait
}

func (r *timerRun) wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// schedule must be called with mu held.
func (t *Timer) schedule() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = t.clock.AfterFunc(t.timeout, func() {
		t.expire(gen)
	})
}

func (t *Timer) expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || t.run == nil {
		return
	}
	t.finish(nil)
}

// finish must be called with mu held.
func (t *Timer) finish(err error) {
	run := t.run
	t.run = nil
	t.timer = nil
	run.err = err
	close(run.done)
}
