package scroller

// PreventShrinking remembers how far the last item is from the bottom of the
// list. Until cleared, UpdatePreventShrinking pads the content so that
// content disappearing below that item, such as a typing indicator, does not
// pull the timeline down.
func (e *Engine) PreventShrinking() {
	l := e.scrollNode()
	items := l.Items()
	var last Node
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].ScrollTokens() != "" {
			last = items[i]
			break
		}
	}
	if last == nil {
		return
	}

	e.ClearPreventShrinking()
	offsetFromBottom := l.ListHeight() - (l.Top(last) + l.Height(last))
	e.shrink = &shrinkState{
		offsetFromBottom: offsetFromBottom,
		node:             last,
	}
	e.logger.Debug("preventing shrinking", "offset", offsetFromBottom)
}

// ClearPreventShrinking removes the padding and forgets the snapshot.
func (e *Engine) ClearPreventShrinking() {
	if e.Mounted() {
		e.layout.SetPaddingBottom(0)
	}
	e.shrink = nil
}

// UpdatePreventShrinking pads the content by how much the remembered item
// moved towards the bottom. Shrink prevention ends once the item is gone, the
// user scrolled far enough up, or the item moved away from the bottom.
func (e *Engine) UpdatePreventShrinking() {
	if e.shrink == nil {
		return
	}

	l := e.scrollNode()
	node := e.shrink.node
	shouldClear := !l.Contains(node)
	if !shouldClear && !e.state.StuckAtBottom {
		spaceBelowViewport := l.ScrollHeight() - (l.ScrollTop() + l.ClientHeight())
		shouldClear = spaceBelowViewport >= e.tuning.ShrinkClearThreshold
	}
	if !shouldClear {
		currentOffset := l.ListHeight() - (l.Top(node) + l.Height(node))
		offsetDiff := e.shrink.offsetFromBottom - currentOffset
		if offsetDiff > 0 {
			l.SetPaddingBottom(offsetDiff)
			e.logger.Debug("padding to prevent shrinking", "padding", offsetDiff)
		} else if offsetDiff < 0 {
			shouldClear = true
		}
	}
	if shouldClear {
		e.ClearPreventShrinking()
	}
}
