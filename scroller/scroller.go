// Package scroller keeps the visual anchor of a bidirectionally paginated
// list stable while content is loaded and dropped on either side.
//
// All methods of Engine must be called from the goroutine owning the layout,
// typically the application event loop. Work done elsewhere (fill requests,
// timers) is posted back to that goroutine through the engine's QueueFunc.
package scroller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v3"
	"github.com/jonboulle/clockwork"
)

// State describes where the viewport is anchored.
type State struct {
	// StuckAtBottom pins the viewport to the bottom of the content. The other
	// fields are zero when it is set.
	StuckAtBottom bool
	// TrackedToken is the canonical token of the anchor item.
	TrackedToken string
	// BottomOffset is the distance from the anchor's top to the bottom of the
	// list.
	BottomOffset int
	// PixelOffset is BottomOffset minus the unscrolled height below the
	// viewport.
	PixelOffset int

	node Node
}

type direction int

const (
	forward direction = iota
	backward
)

func directionOf(backwards bool) direction {
	if backwards {
		return backward
	}
	return forward
}

func (d direction) String() string {
	if d == backward {
		return "backward"
	}
	return "forward"
}

type shrinkState struct {
	offsetFromBottom int
	node             Node
}

// Engine manages the scroll position of a Layout.
type Engine struct {
	layout Layout
	queue  QueueFunc

	stickyBottom  bool
	startAtBottom bool
	fill          FillFunc
	unfill        UnfillFunc
	onScroll      func(scrollTop int)
	onUserScroll  func(event tcell.Event)
	tuning        Tuning
	keys          Keys
	logger        *slog.Logger
	clock         clockwork.Clock

	mounted   bool
	unmounted bool
	ctx       context.Context
	cancel    context.CancelFunc

	state  State
	shrink *shrinkState

	pendingFill        [2]bool
	filling            bool
	fillingDueToUpdate bool
	rerunRequested     bool
	rerunDueToUpdate   bool

	unfillTimer clockwork.Timer
	unfillGen   uint64

	bottomGrowth           int
	pages                  int
	scrolling              *Timer
	heightUpdateInProgress bool
}

// New returns an engine scrolling layout. queue must run functions on the
// goroutine calling the engine's methods.
func New(layout Layout, queue QueueFunc, opts ...Option) *Engine {
	e := &Engine{
		layout:        layout,
		queue:         queue,
		stickyBottom:  true,
		startAtBottom: true,
		fill: func(context.Context, bool) (bool, error) {
			return false, nil
		},
		unfill: func(bool, string) {},
		tuning: DefaultTuning(),
		keys:   DefaultKeys(),
		logger: slog.New(slog.DiscardHandler),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithGroup("scroller")
	e.ResetScrollState()
	return e
}

// Mount attaches the engine to its layout and checks the initial scroll
// position.
func (e *Engine) Mount() {
	e.attach()
	e.CheckScroll(false)
}

func (e *Engine) attach() {
	if e.mounted {
		return
	}
	e.mounted = true
	e.ctx, e.cancel = context.WithCancel(context.Background())
}

// Unmount detaches the engine. Pending fills are cancelled and their results
// ignored. The engine can not be mounted again.
func (e *Engine) Unmount() {
	if e.unmounted {
		return
	}
	e.unmounted = true
	if e.cancel != nil {
		e.cancel()
	}
	if e.unfillTimer != nil {
		e.unfillTimer.Stop()
		e.unfillTimer = nil
	}
	e.scrolling.Abort()
}

// Mounted reports whether the engine is attached to its layout.
func (e *Engine) Mounted() bool {
	return e.mounted && !e.unmounted
}

// scrollNode returns the layout, panicking when the engine is used outside
// its lifecycle.
func (e *Engine) scrollNode() Layout {
	if e.unmounted {
		panic(fmt.Errorf("layout accessed after unmount: %w", ErrUnmounted))
	}
	if !e.mounted {
		panic(fmt.Errorf("layout accessed before mount: %w", ErrNotMounted))
	}
	return e.layout
}

// Update is called after the rendered items changed. It restores the anchor,
// checks whether more content is needed and updates shrink prevention.
func (e *Engine) Update() {
	e.CheckScroll(true)
	e.UpdatePreventShrinking()
}

// CheckScroll restores the saved scroll position and sends fill requests if
// necessary.
func (e *Engine) CheckScroll(dueToUpdate bool) {
	if e.unmounted {
		return
	}
	e.restoreSavedScrollState()
	e.CheckFillState(0, dueToUpdate)
}

// HandleScroll is called after the user scrolled the layout.
func (e *Engine) HandleScroll() {
	l := e.scrollNode()
	e.logger.Debug("scroll", "top", l.ScrollTop())
	e.scrolling.Restart()
	e.saveScrollState()
	e.UpdatePreventShrinking()
	if e.onScroll != nil {
		e.onScroll(l.ScrollTop())
	}
	e.CheckFillState(0, false)
}

// HandleResize is called after the viewport changed size.
func (e *Engine) HandleResize() {
	e.logger.Debug("resize")
	e.CheckScroll(false)
	if e.shrink != nil {
		e.PreventShrinking()
	}
}

// IsAtBottom reports whether the content is scrolled all the way down right
// now, independent of the stuck-at-bottom state.
func (e *Engine) IsAtBottom() bool {
	l := e.scrollNode()
	return l.ScrollHeight()-(l.ScrollTop()+l.ClientHeight()) <= e.tuning.AtBottomTolerance
}

// GetScrollState returns the current anchor.
func (e *Engine) GetScrollState() State {
	return e.state
}

// ResetScrollState forgets the current anchor. The next update scrolls to the
// bottom if the engine starts at the bottom. Use it when the list is replaced
// by unrelated content.
func (e *Engine) ResetScrollState() {
	e.state = State{StuckAtBottom: e.startAtBottom}
	e.bottomGrowth = 0
	e.pages = 0
	e.scrolling = NewTimer(e.clock, e.tuning.ScrollIdle)
	e.heightUpdateInProgress = false
}

// ScrollToTop jumps to the top of the content.
func (e *Engine) ScrollToTop() {
	e.scrollNode().SetScrollTop(0)
	e.saveScrollState()
}

// ScrollToBottom jumps to the bottom of the content.
func (e *Engine) ScrollToBottom() {
	l := e.scrollNode()
	l.SetScrollTop(l.ScrollHeight())
	e.saveScrollState()
}

// ScrollRelative scrolls by 90% of the viewport height, and at least one row.
// mult is -1 to page up and 1 to page down.
func (e *Engine) ScrollRelative(mult int) {
	l := e.scrollNode()
	step := max(int(float64(l.ClientHeight())*0.9), 1)
	l.ScrollBy(mult * step)
	e.saveScrollState()
}

// ScrollToToken scrolls the item carrying token into view. offsetBase is the
// reference line: 0 for the top of the viewport, 1 for the bottom and
// fractions in between. The bottom of the item is placed pixelOffset rows
// below that line.
//
// A token that is not loaded stays tracked so the next update can resolve it.
func (e *Engine) ScrollToToken(token string, pixelOffset int, offsetBase float64) {
	l := e.scrollNode()
	e.state = State{TrackedToken: token}
	node := e.trackedNode()
	if node == nil {
		return
	}

	base := int(float64(l.ClientHeight()) * offsetBase)
	e.logger.Debug("scroll to token", "token", token, "base", base, "offset", pixelOffset)
	l.SetScrollTop(l.Top(node) + l.Height(node) - base - pixelOffset)
	e.saveScrollState()
}

// saveScrollState records the anchor for the current scroll position.
func (e *Engine) saveScrollState() {
	if e.stickyBottom && e.IsAtBottom() {
		e.state = State{StuckAtBottom: true}
		e.logger.Debug("saved stuck at bottom")
		return
	}

	l := e.scrollNode()
	viewportBottom := l.ScrollHeight() - (l.ScrollTop() + l.ClientHeight())

	// Most of the time the anchor is near the end of the list.
	items := l.Items()
	var node Node
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].ScrollTokens() == "" {
			continue
		}
		node = items[i]
		if e.topFromBottom(node) > viewportBottom {
			break
		}
	}
	if node == nil {
		e.logger.Debug("no item to anchor to")
		return
	}

	bottomOffset := e.topFromBottom(node)
	e.state = State{
		TrackedToken: FirstToken(node.ScrollTokens()),
		BottomOffset: bottomOffset,
		PixelOffset:  bottomOffset - viewportBottom,
		node:         node,
	}
	e.logger.Debug("saved anchor", "token", e.state.TrackedToken, "bottom_offset", bottomOffset)
}

// trackedNode resolves the anchor item, scanning for its token when the
// cached node is no longer rendered.
func (e *Engine) trackedNode() Node {
	l := e.scrollNode()
	if e.state.node == nil || !l.Contains(e.state.node) {
		e.state.node = nil
		items := l.Items()
		for i := len(items) - 1; i >= 0; i-- {
			if hasToken(items[i].ScrollTokens(), e.state.TrackedToken) {
				e.state.node = items[i]
				e.logger.Debug("resolved anchor again", "token", e.state.TrackedToken)
				break
			}
		}
	}
	if e.state.node == nil {
		e.logger.Debug("anchor not loaded", "token", e.state.TrackedToken)
	}
	return e.state.node
}

func (e *Engine) topFromBottom(node Node) int {
	l := e.scrollNode()
	return l.ListHeight() - l.Top(node)
}

// contentHeight measures the rendered items.
func (e *Engine) contentHeight() int {
	l := e.scrollNode()
	items := l.Items()
	if len(items) == 0 {
		return 0
	}
	first, last := items[0], items[len(items)-1]
	return l.Top(last) + l.Height(last) - l.Top(first)
}

func (e *Engine) listHeight() int {
	return e.bottomGrowth + e.pages*e.tuning.PageSize
}

func (e *Engine) maxScrollTop() int {
	l := e.scrollNode()
	return max(l.ScrollHeight()-l.ClientHeight(), 0)
}
