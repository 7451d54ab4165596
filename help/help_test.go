package help

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ayn2op/timeline"
	"github.com/ayn2op/timeline/keybind"
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"github.com/stretchr/testify/assert"
)

type testKeyMap struct {
	short []keybind.Keybind
	full  [][]keybind.Keybind
}

func (m testKeyMap) ShortHelp() []keybind.Keybind  { return m.short }
func (m testKeyMap) FullHelp() [][]keybind.Keybind { return m.full }

func binding(key, desc string) keybind.Keybind {
	return keybind.NewKeybind(keybind.WithKeys(key), keybind.WithHelp(key, desc))
}

func lineText(line timeline.Line) string {
	var b strings.Builder
	for _, s := range line {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestShortHelp(t *testing.T) {
	h := New()
	bindings := []keybind.Keybind{binding("pgup", "page up"), binding("q", "quit")}

	assert.Equal(t, "pgup page up • q quit", lineText(h.shortLine(bindings, 0)))
	// Bindings that do not fit are replaced by an ellipsis.
	assert.Equal(t, "pgup page up …", lineText(h.shortLine(bindings, 16)))
}

func TestThemeStyles(t *testing.T) {
	theme := timeline.Styles
	theme.SecondaryTextColor = color.Red
	theme.PrimaryTextColor = color.Blue

	h := New()
	h.Styles = ThemeStyles(theme)
	assert.Equal(t, color.Red, h.Styles.Key.GetForeground())
	assert.Equal(t, color.Blue, h.Styles.Desc.GetForeground())

	line := h.shortLine([]keybind.Keybind{binding("q", "quit"), binding("x", "close")}, 0)
	for _, s := range line {
		switch s.Text {
		case "q", "x":
			assert.Equal(t, h.Styles.Key, s.Style, s.Text)
		case "quit", "close":
			assert.Equal(t, h.Styles.Desc, s.Style, s.Text)
		}
	}
}

func TestShortHelpSkipsDisabled(t *testing.T) {
	h := New()
	disabled := binding("x", "hidden")
	disabled.SetKeys()
	assert.Equal(t, "q quit", lineText(h.shortLine([]keybind.Keybind{disabled, binding("q", "quit")}, 0)))
}

func TestFullHelpLines(t *testing.T) {
	h := New()
	groups := [][]keybind.Keybind{
		{binding("pgup", "page up"), binding("pgdn", "page down")},
		{binding("q", "quit")},
	}

	// Empty cells keep the column width so separators stay aligned.
	assert.Equal(t, []string{
		"pgup page up" + strings.Repeat(" ", 6) + "q quit",
		"pgdn page down" + strings.Repeat(" ", 10),
	}, h.FullHelpLines(groups, 0))

	// Columns that do not fit are dropped and the first line gets an ellipsis.
	assert.Equal(t, []string{"pgup page up …", "pgdn page down"}, h.FullHelpLines(groups, 16))
}

func TestKeyMaps(t *testing.T) {
	a := testKeyMap{short: []keybind.Keybind{binding("a", "first")}, full: [][]keybind.Keybind{{binding("a", "first")}}}
	b := testKeyMap{short: []keybind.Keybind{binding("b", "second")}, full: [][]keybind.Keybind{{binding("b", "second")}}}

	keyMaps := KeyMaps{a, b}
	assert.Len(t, keyMaps.ShortHelp(), 2)
	assert.Len(t, keyMaps.FullHelp(), 2)
}

type screenStub struct {
	tcell.Screen
	cells map[[2]int]string
}

func (s *screenStub) Size() (int, int) { return 40, 1 }

func (s *screenStub) Put(x, y int, str string, style tcell.Style) (string, int) {
	_, size := utf8.DecodeRuneInString(str)
	s.cells[[2]int{x, y}] = str[:size]
	return str[size:], 1
}

func (s *screenStub) Get(x, y int) (string, tcell.Style, int) {
	return s.cells[[2]int{x, y}], tcell.StyleDefault, 1
}

func TestDraw(t *testing.T) {
	screen := &screenStub{cells: make(map[[2]int]string)}
	h := New().SetKeyMap(testKeyMap{short: []keybind.Keybind{binding("q", "quit")}})
	h.SetRect(0, 0, 40, 1)
	h.Draw(screen)

	var b strings.Builder
	for x := range 6 {
		b.WriteString(screen.cells[[2]int{x, 0}])
	}
	assert.Equal(t, "q quit", b.String())
}
