package timeline

import "github.com/gdamore/tcell/v3"

// TextItem is a ScrollItem displaying styled lines, word-wrapped to the
// width of the item.
type TextItem struct {
	*Box

	tokens string
	lines  []Line

	// Wrapped lines for wrapWidth.
	wrapped   []Line
	wrapWidth int
}

// NewTextItem returns an item identified by the given scroll tokens. Items
// without tokens, such as notices, are never used as scroll anchors.
func NewTextItem(tokens string) *TextItem {
	t := &TextItem{
		Box:       NewBox(),
		tokens:    tokens,
		wrapWidth: -1,
	}
	t.SetDontClear(true)
	return t
}

// ScrollTokens returns the tokens identifying the item.
func (t *TextItem) ScrollTokens() string {
	return t.tokens
}

// SetLines sets the content.
func (t *TextItem) SetLines(lines []Line) *TextItem {
	t.lines = lines
	t.wrapWidth = -1
	return t
}

// SetText sets unstyled content. Newlines start new lines.
func (t *TextItem) SetText(text string, style tcell.Style) *TextItem {
	b := NewLineBuilder()
	b.Write(text, style)
	return t.SetLines(b.Finish())
}

// GetLines returns the content.
func (t *TextItem) GetLines() []Line {
	return t.lines
}

// Height returns the number of rows the item needs at the given width.
func (t *TextItem) Height(width int) int {
	return len(t.wrap(width))
}

func (t *TextItem) wrap(width int) []Line {
	if width == t.wrapWidth {
		return t.wrapped
	}
	t.wrapWidth = width
	t.wrapped = t.wrapped[:0]
	for _, line := range t.lines {
		t.wrapped = append(t.wrapped, WrapLine(line, width)...)
	}
	return t.wrapped
}

// Draw draws this primitive onto the screen.
func (t *TextItem) Draw(screen tcell.Screen) {
	t.DrawForSubclass(screen, t)

	x, y, width, height := t.GetInnerRect()
	for row, line := range t.wrap(width) {
		if row >= height {
			break
		}
		PrintLine(screen, line, x, y+row, width)
	}
}

var _ ScrollItem = &TextItem{}
