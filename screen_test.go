package timeline

import (
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

type testCell struct {
	text  string
	style tcell.Style
}

// cellScreen records drawn cells. Methods drawing does not use are left to the
// nil embedded screen.
type cellScreen struct {
	tcell.Screen
	width, height int
	cells         []testCell
}

func newCellScreen(width, height int) *cellScreen {
	s := &cellScreen{width: width, height: height}
	s.Clear()
	return s
}

func (s *cellScreen) Size() (int, int) {
	return s.width, s.height
}

func (s *cellScreen) Clear() {
	s.cells = make([]testCell, s.width*s.height)
	for i := range s.cells {
		s.cells[i] = testCell{text: " ", style: tcell.StyleDefault}
	}
}

func (s *cellScreen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

func (s *cellScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if str == "" {
		return "", 0
	}
	cluster, rest, width, _ := uniseg.FirstGraphemeClusterInString(str, -1)
	if width <= 0 {
		return rest, 0
	}
	if s.inBounds(x, y) {
		s.cells[y*s.width+x] = testCell{text: cluster, style: style}
	}
	for i := 1; i < width; i++ {
		if s.inBounds(x+i, y) {
			s.cells[y*s.width+x+i] = testCell{text: "", style: style}
		}
	}
	return rest, width
}

func (s *cellScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.Put(x, y, string(append([]rune{primary}, combining...)), style)
}

func (s *cellScreen) Get(x, y int) (string, tcell.Style, int) {
	if !s.inBounds(x, y) {
		return "", tcell.StyleDefault, 1
	}
	c := s.cells[y*s.width+x]
	return c.text, c.style, max(uniseg.StringWidth(c.text), 1)
}

func (s *cellScreen) ShowCursor(x, y int) {}

func (s *cellScreen) HideCursor() {}

// row returns the text of row y with trailing spaces removed.
func (s *cellScreen) row(y int) string {
	var b strings.Builder
	for x := range s.width {
		b.WriteString(s.cells[y*s.width+x].text)
	}
	return strings.TrimRight(b.String(), " ")
}

// rows returns the text of every row.
func (s *cellScreen) rows() []string {
	rows := make([]string, s.height)
	for y := range rows {
		rows[y] = s.row(y)
	}
	return rows
}
