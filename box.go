package timeline

import "github.com/gdamore/tcell/v3"

// Box is the base of every primitive: a rectangle with a background, optional
// borders and a title in the top border. Embedding primitives draw their
// content within the inner rectangle.
type Box struct {
	x, y, width, height int

	backgroundColor tcell.Color
	// Skip clearing the background, for primitives that paint every cell or
	// draw over their parent.
	dontClear bool

	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style

	title          string
	titleStyle     tcell.Style
	titleAlignment Alignment

	hasFocus bool
}

// NewBox returns a Box without borders.
func NewBox() *Box {
	return &Box{
		backgroundColor: Styles.PrimitiveBackgroundColor,
		borderSet:       BorderSetPlain(),
		borderStyle:     tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		titleStyle:      tcell.StyleDefault.Foreground(Styles.TitleColor),
		titleAlignment:  AlignmentCenter,
	}
}

// GetRect returns the position of the box: x, y, width and height.
func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// SetRect sets the position of the box.
func (b *Box) SetRect(x, y, width, height int) {
	b.x, b.y, b.width, b.height = x, y, width, height
}

// GetInnerRect returns the rectangle within the borders. A title without a
// top border still takes the first row. Width and height are never negative.
func (b *Box) GetInnerRect() (int, int, int, int) {
	x, y, width, height := b.GetRect()
	if b.title != "" || b.borders.Has(BordersTop) {
		y++
		height--
	}
	if b.borders.Has(BordersBottom) {
		height--
	}
	if b.borders.Has(BordersLeft) {
		x++
		width--
	}
	if b.borders.Has(BordersRight) {
		width--
	}
	return x, y, max(width, 0), max(height, 0)
}

// InRect reports whether x, y lies within the box.
func (b *Box) InRect(x, y int) bool {
	return x >= b.x && x < b.x+b.width && y >= b.y && y < b.y+b.height
}

// InputHandler ignores key events.
func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler focuses the box when it is clicked.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

// SetBackgroundColor sets the background color, which the border shares.
func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	b.backgroundColor = color
	b.borderStyle = b.borderStyle.Background(color)
	return b
}

// SetDontClear disables clearing the background before drawing.
func (b *Box) SetDontClear(dontClear bool) *Box {
	b.dontClear = dontClear
	return b
}

// SetBorders sets which borders to draw.
func (b *Box) SetBorders(borders Borders) *Box {
	b.borders = borders
	return b
}

// SetBorderSet sets the glyphs used for the borders.
func (b *Box) SetBorderSet(borderSet BorderSet) *Box {
	b.borderSet = borderSet
	return b
}

// SetTitle sets the title shown in the top row. Titles that do not fit end
// with an ellipsis.
func (b *Box) SetTitle(title string) *Box {
	b.title = title
	return b
}

// GetTitle returns the title.
func (b *Box) GetTitle() string {
	return b.title
}

// Draw draws this primitive onto the screen.
func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass draws the background, borders and title of the box
// embedded in p.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	if b.width <= 0 || b.height <= 0 {
		return
	}

	if !b.dontClear {
		background := tcell.StyleDefault.Background(b.backgroundColor)
		for y := b.y; y < b.y+b.height; y++ {
			for x := b.x; x < b.x+b.width; x++ {
				screen.Put(x, y, " ", background)
			}
		}
	}

	if b.borders != BordersNone && b.width >= 2 && b.height >= 2 {
		b.drawBorders(screen)
	}
	if b.title != "" && b.width >= 4 {
		b.drawTitle(screen)
	}
}

func (b *Box) drawTitle(screen tcell.Screen) {
	printed, _ := printOver(screen, b.title, b.x+1, b.y, b.width-2, b.titleAlignment, b.titleStyle)
	if printed == 0 || printed == len(b.title) {
		return
	}
	// Cut titles lose their end.
	x := b.x + b.width - 2
	_, style, _ := screen.Get(x, b.y)
	Print(screen, "…", x, b.y, 1, AlignmentLeft, style.GetForeground())
}

func (b *Box) drawBorders(screen tcell.Screen) {
	left, top := b.x, b.y
	right, bottom := b.x+b.width-1, b.y+b.height-1
	set, style := b.borderSet, b.borderStyle

	hline := func(y int, glyph string) {
		for x := left + 1; x < right; x++ {
			screen.Put(x, y, glyph, style)
		}
	}
	vline := func(x int, glyph string) {
		for y := top + 1; y < bottom; y++ {
			screen.Put(x, y, glyph, style)
		}
	}
	corner := func(x, y int, a, c Borders, glyph string) {
		if b.borders.Has(a) && b.borders.Has(c) {
			screen.Put(x, y, glyph, style)
		}
	}

	if b.borders.Has(BordersTop) {
		hline(top, set.Top)
	}
	if b.borders.Has(BordersBottom) {
		hline(bottom, set.Bottom)
	}
	if b.borders.Has(BordersLeft) {
		vline(left, set.Left)
	}
	if b.borders.Has(BordersRight) {
		vline(right, set.Right)
	}
	corner(left, top, BordersTop, BordersLeft, set.TopLeft)
	corner(right, top, BordersTop, BordersRight, set.TopRight)
	corner(left, bottom, BordersBottom, BordersLeft, set.BottomLeft)
	corner(right, bottom, BordersBottom, BordersRight, set.BottomRight)
}

// Focus is called when the box receives focus.
func (b *Box) Focus(delegate func(p Primitive)) {
	b.hasFocus = true
}

// Blur is called when the box loses focus.
func (b *Box) Blur() {
	b.hasFocus = false
}

// HasFocus reports whether the box has focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}

var _ Primitive = &Box{}
