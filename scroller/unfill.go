package scroller

// excessHeight returns the height that can be removed on the given side of
// the content without the removal triggering a fill.
func (e *Engine) excessHeight(backwards bool) int {
	l := e.scrollNode()
	contentHeight := e.contentHeight()
	clippedHeight := contentHeight - l.ListHeight()
	unclippedScrollTop := l.ScrollTop() + clippedHeight

	if backwards {
		return unclippedScrollTop - l.ClientHeight() - e.tuning.UnpaginationPadding
	}
	return contentHeight - (unclippedScrollTop + 2*l.ClientHeight()) - e.tuning.UnpaginationPadding
}

// checkUnfillState requests dropping the items that lie entirely within the
// excess height on the given side.
func (e *Engine) checkUnfillState(backwards bool) {
	excessHeight := e.excessHeight(backwards)
	if excessHeight <= 0 {
		return
	}
	origExcessHeight := excessHeight

	l := e.scrollNode()
	items := l.Items()

	// Stop before the item whose removal would leave less than no excess, so
	// unfilling never causes a fill.
	var marker string
	for i := range items {
		item := items[i]
		if !backwards {
			item = items[len(items)-1-i]
		}
		height := l.Height(item)
		if excessHeight-height < 0 {
			break
		}
		excessHeight -= height
		if tokens := item.ScrollTokens(); tokens != "" {
			marker = FirstToken(tokens)
		}
	}
	if marker == "" {
		return
	}

	if e.unfillTimer != nil {
		e.unfillTimer.Stop()
	}
	e.unfillGen++
	gen := e.unfillGen
	e.unfillTimer = e.clock.AfterFunc(e.tuning.UnfillDebounce, func() {
		e.queue(func() {
			if gen != e.unfillGen || e.unmounted {
				return
			}
			e.unfillTimer = nil
			e.logger.Debug("unfilling", "direction", directionOf(backwards), "excess", origExcessHeight, "token", marker)
			e.unfill(backwards, marker)
		})
	})
}
