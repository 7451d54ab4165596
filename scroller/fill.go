package scroller

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CheckFillState requests more content when less than a viewport of it is
// left above, or less than two viewports below, the top of the viewport.
//
// Only one chain of checks runs at a time. A check arriving while a chain
// runs is remembered and started once the chain is done, unless the running
// chain was itself caused by a content update: those may overlap, since the
// update that delivers a page usually causes the next check.
//
// The returned channel is closed once the check and the checks it chained
// into are done.
func (e *Engine) CheckFillState(depth int, dueToUpdate bool) <-chan struct{} {
	done := make(chan struct{})
	if e.unmounted {
		close(done)
		return done
	}

	first := depth == 0
	if first {
		if e.filling && !e.fillingDueToUpdate {
			e.logger.Debug("fill in progress, deferring check")
			e.rerunRequested = true
			e.rerunDueToUpdate = dueToUpdate
			close(done)
			return done
		}
		e.filling = true
		e.fillingDueToUpdate = dueToUpdate
	}

	l := e.scrollNode()
	var tasks []func() error
	items := l.Items()
	if len(items) == 0 || l.ScrollTop()-l.Top(items[0]) < l.ClientHeight() {
		if task := e.maybeFill(depth, true); task != nil {
			tasks = append(tasks, task)
		}
	}
	if l.ScrollHeight()-l.ScrollTop() < 2*l.ClientHeight() {
		if task := e.maybeFill(depth, false); task != nil {
			tasks = append(tasks, task)
		}
	}

	if len(tasks) == 0 {
		e.finishFillCheck(first)
		close(done)
		return done
	}

	go func() {
		var g errgroup.Group
		for _, task := range tasks {
			g.Go(task)
		}
		if err := g.Wait(); err != nil {
			e.logger.Error("fill failed", "err", err, "depth", depth)
		}
		e.queue(func() {
			e.finishFillCheck(first)
			close(done)
		})
	}()
	return done
}

func (e *Engine) finishFillCheck(first bool) {
	if !first {
		return
	}
	e.filling = false
	e.fillingDueToUpdate = false
	if e.rerunRequested {
		dueToUpdate := e.rerunDueToUpdate
		e.rerunRequested = false
		e.rerunDueToUpdate = false
		e.CheckFillState(0, dueToUpdate)
	}
}

// maybeFill marks a fill in the given direction as pending and returns the
// task performing it, or nil if one is already pending.
func (e *Engine) maybeFill(depth int, backwards bool) func() error {
	dir := directionOf(backwards)
	if e.pendingFill[dir] {
		e.logger.Debug("fill already pending", "direction", dir)
		return nil
	}
	e.logger.Debug("starting fill", "direction", dir, "depth", depth)
	e.pendingFill[dir] = true

	// Let the caller return before filling, even when the content is cached
	// and the fill function resolves at once.
	ready := make(chan struct{})
	e.clock.AfterFunc(e.tuning.FillDelay, func() {
		close(ready)
	})

	ctx := e.ctx
	return func() error {
		return e.doFill(ctx, ready, depth, dir)
	}
}

// doFill runs off the owning goroutine.
func (e *Engine) doFill(ctx context.Context, ready <-chan struct{}, depth int, dir direction) error {
	select {
	case <-ready:
	case <-ctx.Done():
		return nil
	}

	more, err := e.fill(ctx, dir == backward)

	var next <-chan struct{}
	ok := e.call(ctx, func() {
		e.pendingFill[dir] = false
		if err != nil || e.unmounted {
			return
		}
		e.logger.Debug("fill complete", "direction", dir, "more", more)
		e.checkUnfillState(dir != backward)
		if more {
			next = e.CheckFillState(depth+1, false)
		}
	})
	if !ok || ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s fill: %w", dir, err)
	}
	if next != nil {
		select {
		case <-next:
		case <-ctx.Done():
		}
	}
	return nil
}

// call runs f on the owning goroutine and waits for it. It gives up when ctx
// is cancelled.
func (e *Engine) call(ctx context.Context, f func()) bool {
	done := make(chan struct{})
	e.queue(func() {
		f()
		close(done)
	})
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
