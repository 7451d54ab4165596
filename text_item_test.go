package timeline

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapLineKeepsStyles(t *testing.T) {
	bold := tcell.StyleDefault.Bold(true)
	line := Line{
		{Text: "alpha ", Style: bold},
		{Text: "beta gamma delta", Style: tcell.StyleDefault},
	}

	lines := WrapLine(line, 9)
	require.Len(t, lines, 4)
	assert.Equal(t, Line{{Text: "alpha ", Style: bold}}, lines[0])
	assert.Equal(t, Line{{Text: "beta ", Style: tcell.StyleDefault}}, lines[1])
	assert.Equal(t, Line{{Text: "delta", Style: tcell.StyleDefault}}, lines[3])
}

func TestWrapLineSplitsSegments(t *testing.T) {
	red := tcell.StyleDefault.Foreground(color.Red)
	line := Line{
		{Text: "ab", Style: red},
		{Text: "cd ef", Style: tcell.StyleDefault},
	}

	lines := WrapLine(line, 6)
	require.Len(t, lines, 2)
	assert.Equal(t, Line{{Text: "ab", Style: red}, {Text: "cd ", Style: tcell.StyleDefault}}, lines[0])
	assert.Equal(t, Line{{Text: "ef", Style: tcell.StyleDefault}}, lines[1])
}

func TestWrapLineBreaks(t *testing.T) {
	text := func(lines []Line) []string {
		var out []string
		for _, line := range lines {
			var s string
			for _, segment := range line {
				s += segment.Text
			}
			out = append(out, s)
		}
		return out
	}

	// Words wider than the line are split, hard breaks are dropped.
	assert.Equal(t, []string{"abc", "def", "gh", "xy"}, text(WrapLine(Line{{Text: "abcdefgh\nxy"}}, 3)))
	assert.Equal(t, []string{"日本", "語"}, text(WrapLine(Line{{Text: "日本語"}}, 4)))
}

func TestWrapLineEmpty(t *testing.T) {
	assert.Len(t, WrapLine(nil, 10), 1)
	assert.Empty(t, WrapLine(Line{{Text: "text"}}, 0))
}

func TestTextItemHeight(t *testing.T) {
	item := NewTextItem("evt1").SetText("first line\nsecond", tcell.StyleDefault)
	assert.Equal(t, "evt1", item.ScrollTokens())
	assert.Equal(t, 2, item.Height(20))
	assert.Equal(t, 3, item.Height(6))
	// The wrap cache follows content changes.
	item.SetText("one", tcell.StyleDefault)
	assert.Equal(t, 1, item.Height(6))
}

func TestTextItemDraw(t *testing.T) {
	screen := newCellScreen(8, 3)
	b := NewLineBuilder()
	b.Write("bob", tcell.StyleDefault.Bold(true))
	b.Write(": hi there", tcell.StyleDefault)
	item := NewTextItem("evt1").SetLines(b.Finish())

	item.SetRect(0, 1, 8, item.Height(8))
	item.Draw(screen)
	assert.Equal(t, []string{"", "bob: hi", "there"}, screen.rows())

	_, style, _ := screen.Get(0, 1)
	assert.Equal(t, tcell.StyleDefault.Bold(true), style)
}

func TestClippedScreen(t *testing.T) {
	screen := newCellScreen(6, 3)
	clipped := newClippedScreen(screen, 1, 1, 3, 1)
	PrintWithStyle(clipped, "abcdef", 0, 1, 6, AlignmentLeft, tcell.StyleDefault)
	PrintWithStyle(clipped, "zzz", 0, 0, 6, AlignmentLeft, tcell.StyleDefault)
	assert.Equal(t, []string{"", " bcd", ""}, screen.rows())
}
