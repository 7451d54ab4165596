package scroller

// restoreSavedScrollState moves the viewport back to the saved anchor after
// the content changed, then recomputes the list height. The returned channel
// is closed once the height update is done.
func (e *Engine) restoreSavedScrollState() <-chan struct{} {
	l := e.scrollNode()
	switch {
	case e.state.StuckAtBottom:
		if top := e.maxScrollTop(); l.ScrollTop() != top {
			l.SetScrollTop(top)
		}
	case e.state.TrackedToken != "":
		if node := e.trackedNode(); node != nil {
			// Growth below the anchor is out of sight. Grow the list with it so
			// the anchor keeps its position.
			newBottomOffset := e.topFromBottom(node)
			bottomDiff := newBottomOffset - e.state.BottomOffset
			e.bottomGrowth += bottomDiff
			e.state.BottomOffset = newBottomOffset
			if height := e.listHeight(); l.ListHeight() != height {
				l.SetListHeight(height)
			}
			e.logger.Debug("balancing height", "growth", bottomDiff)
		}
	}

	done := make(chan struct{})
	if e.heightUpdateInProgress {
		e.logger.Debug("height update already in progress")
		close(done)
		return done
	}
	e.heightUpdateInProgress = true
	e.updateHeight(func() {
		e.heightUpdateInProgress = false
		close(done)
	})
	return done
}

// updateHeight waits for the user to stop scrolling, then quantises the list
// height to whole pages. finish is called on the owning goroutine when done.
func (e *Engine) updateHeight(finish func()) {
	if !e.scrolling.IsRunning() {
		defer finish()
		e.applyHeight()
		return
	}

	e.logger.Debug("height update waiting for scrolling to end")
	// Captured on the loop so an abort before the goroutine runs is seen.
	wait := e.scrolling.Finished()
	ctx := e.ctx
	go func() {
		err := wait(ctx)
		e.queue(func() {
			defer finish()
			if err != nil || e.unmounted {
				return
			}
			e.applyHeight()
		})
	}()
}

func (e *Engine) applyHeight() {
	l := e.scrollNode()
	contentHeight := e.contentHeight()
	minHeight := l.ClientHeight()
	height := max(minHeight, contentHeight)
	e.pages = (height + e.tuning.PageSize - 1) / e.tuning.PageSize
	l.SetScrollbarVisible(contentHeight > minHeight)
	e.bottomGrowth = 0
	newHeight := e.listHeight()

	switch {
	case e.state.StuckAtBottom:
		if l.ListHeight() != newHeight {
			l.SetListHeight(newHeight)
		}
		if top := e.maxScrollTop(); l.ScrollTop() != top {
			l.SetScrollTop(top)
		}
		e.logger.Debug("updated height", "height", newHeight)
	case e.state.TrackedToken != "":
		// The anchor may be gone if the list was reloaded.
		node := e.trackedNode()
		if node == nil {
			return
		}
		oldTop := l.Top(node)
		if l.ListHeight() != newHeight {
			l.SetListHeight(newHeight)
		}
		topDiff := l.Top(node) - oldTop
		l.ScrollBy(topDiff)
		e.logger.Debug("updated height", "height", newHeight, "top_diff", topDiff)
	default:
		if l.ListHeight() != newHeight {
			l.SetListHeight(newHeight)
		}
	}
}
