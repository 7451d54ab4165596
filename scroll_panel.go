package timeline

import (
	"github.com/ayn2op/timeline/scroller"
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

const (
	// Rows scrolled per mouse wheel step.
	wheelScrollRows = 3
	// Rows scrolled per arrow key.
	arrowScrollRows = 1
)

// ScrollItem is an item of a ScrollPanel. Items report their own height for
// a given width so the panel can lay out variable-height items, and their
// scroll tokens so the scroll position can be anchored to them.
type ScrollItem interface {
	Primitive
	scroller.Node
	Height(width int) int
}

// ScrollPanel displays a list of items bottom-aligned in a scrollable area and
// keeps the position of the viewport anchored while items are added and
// removed on either end. It implements the scroller.Layout measured by its
// engine.
type ScrollPanel struct {
	*Box

	items []ScrollItem
	// Index of every item, heights measured at itemWidth, and the sum of the
	// heights from an item to the end of the list.
	index      map[scroller.Node]int
	heights    []int
	suffix     []int
	itemWidth  int
	clientSize [2]int

	scrollTop     int
	listHeight    int
	paddingBottom int

	scrollBar *ScrollBar
	engine    *scroller.Engine
}

// NewScrollPanel returns an empty scroll panel. queue must run functions on
// the application's event loop without waiting for them, e.g.
// [Application.PostUpdateDraw].
func NewScrollPanel(queue scroller.QueueFunc, opts ...scroller.Option) *ScrollPanel {
	p := &ScrollPanel{
		Box:       NewBox(),
		index:     make(map[scroller.Node]int),
		scrollBar: NewScrollBar(),
	}
	p.engine = scroller.New(p, queue, opts...)
	return p
}

// Engine returns the engine managing the scroll position.
func (p *ScrollPanel) Engine() *scroller.Engine {
	return p.engine
}

// ScrollBar returns the scroll bar drawn in the last column.
func (p *ScrollPanel) ScrollBar() *ScrollBar {
	return p.scrollBar
}

// SetItems replaces the items. The scroll position is restored relative to
// the anchor item once the panel is mounted. Items must be comparable and
// must not appear twice.
func (p *ScrollPanel) SetItems(items []ScrollItem) *ScrollPanel {
	p.items = items
	p.measure()
	if p.engine.Mounted() {
		p.engine.Update()
	}
	return p
}

// GetItems returns the items.
func (p *ScrollPanel) GetItems() []ScrollItem {
	return p.items
}

// Close unmounts the engine. Fills in flight are cancelled.
func (p *ScrollPanel) Close() {
	p.engine.Unmount()
}

// measure lays out the items at the current width.
func (p *ScrollPanel) measure() {
	clear(p.index)
	p.heights = p.heights[:0]
	for i, item := range p.items {
		p.index[item] = i
		p.heights = append(p.heights, max(item.Height(p.itemWidth), 1))
	}

	p.suffix = make([]int, len(p.items))
	sum := 0
	for i := len(p.items) - 1; i >= 0; i-- {
		sum += p.heights[i]
		p.suffix[i] = sum
	}
}

// resize lays out the items for a new viewport, mounting the engine on the
// first call.
func (p *ScrollPanel) resize(width, height int) {
	size := [2]int{width, height}
	if p.engine.Mounted() && size == p.clientSize {
		return
	}
	p.clientSize = size
	if itemWidth := max(width-1, 0); itemWidth != p.itemWidth {
		p.itemWidth = itemWidth
		p.measure()
	}

	if !p.engine.Mounted() {
		p.engine.Mount()
		return
	}
	p.engine.HandleResize()
}

// Draw draws this primitive onto the screen.
func (p *ScrollPanel) Draw(screen tcell.Screen) {
	p.DrawForSubclass(screen, p)

	x, y, width, height := p.GetInnerRect()
	if width <= 1 || height <= 0 {
		return
	}
	p.resize(width, height)

	clipped := newClippedScreen(screen, x, y, p.itemWidth, height)
	for i, item := range p.items {
		row := p.listHeight - p.suffix[i] - p.scrollTop
		itemHeight := p.heights[i]
		if row+itemHeight <= 0 {
			continue
		}
		if row >= height {
			break
		}
		item.SetRect(x, y+row, p.itemWidth, itemHeight)
		item.Draw(clipped)
	}

	p.scrollBar.SetRect(x+width-1, y, 1, height)
	p.scrollBar.SetScroll(p.ScrollHeight(), height, p.scrollTop)
	p.scrollBar.Draw(screen)
}

// InputHandler scrolls on scroll keys and arrow keys.
func (p *ScrollPanel) InputHandler(event *tcell.EventKey) Command {
	if !p.engine.Mounted() {
		return nil
	}

	switch event.Key() {
	case tcell.KeyUp:
		p.userScroll(event, -arrowScrollRows)
	case tcell.KeyDown:
		p.userScroll(event, arrowScrollRows)
	default:
		if !p.engine.HandleScrollKey(event) {
			return nil
		}
		p.engine.HandleScroll()
	}
	return BatchCommand{RedrawCommand{}, ConsumeEventCommand{}}
}

// MouseHandler scrolls on mouse wheel events.
func (p *ScrollPanel) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if !p.InRect(event.Position()) || !p.engine.Mounted() {
		return nil, nil
	}

	switch action {
	case MouseScrollUp:
		p.userScroll(event, -wheelScrollRows)
	case MouseScrollDown:
		p.userScroll(event, wheelScrollRows)
	case MouseLeftDown:
		return nil, SetFocusCommand{Target: p}
	default:
		return nil, nil
	}
	return nil, BatchCommand{RedrawCommand{}, ConsumeEventCommand{}}
}

func (p *ScrollPanel) userScroll(event tcell.Event, rows int) {
	before := p.scrollTop
	p.ScrollBy(rows)
	p.engine.UserScroll(event)
	if p.scrollTop != before {
		p.engine.HandleScroll()
	}
}

// ScrollTop returns the number of rows scrolled past the top of the content.
func (p *ScrollPanel) ScrollTop() int {
	return p.scrollTop
}

// SetScrollTop scrolls to top, clamped to the scrollable range.
func (p *ScrollPanel) SetScrollTop(top int) {
	top = min(max(top, 0), max(p.ScrollHeight()-p.ClientHeight(), 0))
	p.scrollTop = top
}

// ScrollBy scrolls by delta rows.
func (p *ScrollPanel) ScrollBy(delta int) {
	p.SetScrollTop(p.scrollTop + delta)
}

// ClientHeight returns the height of the viewport.
func (p *ScrollPanel) ClientHeight() int {
	return p.clientSize[1]
}

// ScrollHeight returns the height of the list and its padding, or the
// viewport height if that is larger.
func (p *ScrollPanel) ScrollHeight() int {
	return max(p.listHeight+p.paddingBottom, p.ClientHeight())
}

func (p *ScrollPanel) ListHeight() int {
	return p.listHeight
}

func (p *ScrollPanel) SetListHeight(height int) {
	p.listHeight = height
}

func (p *ScrollPanel) SetPaddingBottom(padding int) {
	p.paddingBottom = padding
}

func (p *ScrollPanel) SetScrollbarVisible(visible bool) {
	p.scrollBar.SetVisible(visible)
}

// Items returns the items in display order.
func (p *ScrollPanel) Items() []scroller.Node {
	nodes := make([]scroller.Node, len(p.items))
	for i, item := range p.items {
		nodes[i] = item
	}
	return nodes
}

// Contains reports whether node is one of the items.
func (p *ScrollPanel) Contains(node scroller.Node) bool {
	_, ok := p.index[node]
	return ok
}

// Top returns the row of the item's top within the list.
func (p *ScrollPanel) Top(node scroller.Node) int {
	return p.listHeight - p.suffix[p.mustIndex(node)]
}

// Height returns the measured height of the item.
func (p *ScrollPanel) Height(node scroller.Node) int {
	return p.heights[p.mustIndex(node)]
}

func (p *ScrollPanel) mustIndex(node scroller.Node) int {
	i, ok := p.index[node]
	if !ok {
		panic("timeline: item not in scroll panel")
	}
	return i
}

var (
	_ Primitive       = &ScrollPanel{}
	_ scroller.Layout = &ScrollPanel{}
)

// clippedScreen drops drawing outside of a rectangle, so partially visible
// items can draw themselves in full.
type clippedScreen struct {
	tcell.Screen
	x      int
	y      int
	width  int
	height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{
		Screen: screen,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if !s.inBounds(x, y) {
		return
	}
	s.Screen.SetContent(x, y, primary, combining, style)
}

func (s *clippedScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if !s.inBounds(x, y) {
		return str, 0
	}
	return s.Screen.Put(x, y, str, style)
}

func (s *clippedScreen) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, tcell.StyleDefault)
}

func (s *clippedScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	if y < s.y || y >= s.y+s.height {
		return
	}

	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if x >= s.x+s.width {
			return
		}
		if x >= s.x && x+width <= s.x+s.width {
			s.Screen.Put(x, y, cluster, style)
		}
		x += width
	}
}

func (s *clippedScreen) ShowCursor(x int, y int) {
	if !s.inBounds(x, y) {
		s.Screen.ShowCursor(-1, -1)
		return
	}
	s.Screen.ShowCursor(x, y)
}
