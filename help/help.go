package help

import (
	"strings"

	"github.com/ayn2op/timeline"
	"github.com/ayn2op/timeline/keybind"
	"github.com/gdamore/tcell/v3"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

// KeyMaps merges several key maps. Short help lists the bindings in order,
// full help lists the columns of every key map side by side.
type KeyMaps []KeyMap

func (m KeyMaps) ShortHelp() []keybind.Keybind {
	var bindings []keybind.Keybind
	for _, keyMap := range m {
		bindings = append(bindings, keyMap.ShortHelp()...)
	}
	return bindings
}

func (m KeyMaps) FullHelp() [][]keybind.Keybind {
	var groups [][]keybind.Keybind
	for _, keyMap := range m {
		groups = append(groups, keyMap.FullHelp()...)
	}
	return groups
}

// Help renders the bindings of a key map on a single line, or in columns when
// full help is shown.
type Help struct {
	*timeline.Box
	Styles Styles

	keyMap         KeyMap
	showAll        bool
	shortSeparator string
	fullSeparator  string
	ellipsis       string
}

func New() *Help {
	return &Help{
		Box:            timeline.NewBox(),
		Styles:         DefaultStyles(),
		shortSeparator: " • ",
		fullSeparator:  "    ",
		ellipsis:       "…",
	}
}

// SetKeyMap sets the key map used by this help primitive.
func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	return h
}

// SetShowAll enables or disables full help mode.
func (h *Help) SetShowAll(showAll bool) *Help {
	h.showAll = showAll
	return h
}

// ShowAll returns whether full help mode is enabled.
func (h *Help) ShowAll() bool {
	return h.showAll
}

// Draw draws this primitive onto the screen.
func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)
	if h.keyMap == nil {
		return
	}

	x, y, width, height := h.GetInnerRect()
	var lines []timeline.Line
	if h.showAll {
		lines = h.fullLines(h.keyMap.FullHelp(), width)
	} else {
		lines = []timeline.Line{h.shortLine(h.keyMap.ShortHelp(), width)}
	}
	for row, line := range lines[:min(len(lines), height)] {
		timeline.PrintLine(screen, line, x, y+row, width)
	}
}

// FullHelpLines renders grouped help into full mode lines as plain text.
func (h *Help) FullHelpLines(groups [][]keybind.Keybind, maxWidth int) []string {
	var lines []string
	for _, line := range h.fullLines(groups, maxWidth) {
		var b strings.Builder
		for _, s := range line {
			b.WriteString(s.Text)
		}
		lines = append(lines, b.String())
	}
	return lines
}

// shortLine joins the entries of bindings on one line. Entries that do not
// fit in maxWidth are replaced by an ellipsis. A maxWidth of 0 is unlimited.
func (h *Help) shortLine(bindings []keybind.Keybind, maxWidth int) timeline.Line {
	sep := timeline.Segment{Text: h.shortSeparator, Style: h.Styles.Separator}
	var (
		line  timeline.Line
		width int
	)
	for i, e := range helpEntries(bindings) {
		item := h.entryLine(e)
		if i > 0 {
			item = append(timeline.Line{sep}, item...)
		}
		itemWidth := lineWidth(item)
		if maxWidth > 0 && width+itemWidth > maxWidth {
			if i == 0 {
				return nil
			}
			return h.withEllipsis(line, maxWidth)
		}
		line = append(line, item...)
		width += itemWidth
	}
	return line
}

func (h *Help) entryLine(e keybind.Help) timeline.Line {
	var line timeline.Line
	if e.Key != "" {
		line = append(line, timeline.Segment{Text: e.Key, Style: h.Styles.Key})
	}
	if e.Key != "" && e.Desc != "" {
		line = append(line, timeline.Segment{Text: " ", Style: h.Styles.Desc})
	}
	if e.Desc != "" {
		line = append(line, timeline.Segment{Text: e.Desc, Style: h.Styles.Desc})
	}
	return line
}

// column is one group of the full help. Keys are padded to keyWidth so the
// descriptions line up, rows to width so the separators do.
type column struct {
	entries  []keybind.Help
	keyWidth int
	width    int
}

func newColumn(group []keybind.Keybind) column {
	c := column{entries: helpEntries(group)}
	for _, e := range c.entries {
		c.keyWidth = max(c.keyWidth, timeline.StringWidth(e.Key))
	}
	for _, e := range c.entries {
		w := c.keyWidth + timeline.StringWidth(e.Desc)
		if e.Key != "" && e.Desc != "" {
			w++
		}
		c.width = max(c.width, w)
	}
	return c
}

// cell returns row of the column. Rows past the last entry are blank.
func (c column) cell(row int, pad bool, styles Styles) timeline.Line {
	blank := func(n int) timeline.Segment {
		return timeline.Segment{Text: strings.Repeat(" ", n), Style: styles.Desc}
	}
	if row >= len(c.entries) {
		return timeline.Line{blank(c.width)}
	}

	e := c.entries[row]
	var cell timeline.Line
	if e.Key != "" {
		cell = append(cell, timeline.Segment{Text: e.Key, Style: styles.Key})
	}
	if n := c.keyWidth - timeline.StringWidth(e.Key); n > 0 {
		cell = append(cell, timeline.Segment{Text: strings.Repeat(" ", n), Style: styles.Key})
	}
	if e.Key != "" && e.Desc != "" {
		cell = append(cell, blank(1))
	}
	if e.Desc != "" {
		cell = append(cell, timeline.Segment{Text: e.Desc, Style: styles.Desc})
	}
	if n := c.width - lineWidth(cell); pad && n > 0 {
		cell = append(cell, blank(n))
	}
	return cell
}

// fullLines lays the groups out as columns, keeping columns from the left
// while they fit in maxWidth. A maxWidth of 0 is unlimited.
func (h *Help) fullLines(groups [][]keybind.Keybind, maxWidth int) []timeline.Line {
	var columns []column
	for _, group := range groups {
		if c := newColumn(group); len(c.entries) > 0 {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return nil
	}

	sep := timeline.Segment{Text: h.fullSeparator, Style: h.Styles.Separator}
	sepWidth := timeline.StringWidth(h.fullSeparator)
	fit, total := 0, 0
	for i, c := range columns {
		w := c.width
		if i > 0 {
			w += sepWidth
		}
		if maxWidth > 0 && total+w > maxWidth {
			break
		}
		fit++
		total += w
	}
	if fit == 0 {
		return []timeline.Line{{{Text: h.ellipsis, Style: h.Styles.Ellipsis}}}
	}
	cut := fit < len(columns)
	columns = columns[:fit]

	rows := 0
	for _, c := range columns {
		rows = max(rows, len(c.entries))
	}
	lines := make([]timeline.Line, rows)
	for row := range lines {
		for i, c := range columns {
			if i > 0 {
				lines[row] = append(lines[row], sep)
			}
			lines[row] = append(lines[row], c.cell(row, i < len(columns)-1, h.Styles)...)
		}
	}
	if cut {
		lines[0] = h.withEllipsis(lines[0], maxWidth)
	}
	return lines
}

// withEllipsis appends an ellipsis to line if it fits in maxWidth. A clipped
// ellipsis looks broken, so none is better.
func (h *Help) withEllipsis(line timeline.Line, maxWidth int) timeline.Line {
	if maxWidth <= 0 || h.ellipsis == "" {
		return line
	}
	tail := timeline.Line{
		{Text: " ", Style: h.Styles.Ellipsis},
		{Text: h.ellipsis, Style: h.Styles.Ellipsis},
	}
	if lineWidth(line)+lineWidth(tail) > maxWidth {
		return line
	}
	return append(line, tail...)
}

// helpEntries returns the help of the enabled bindings that have any.
func helpEntries(bindings []keybind.Keybind) []keybind.Help {
	var entries []keybind.Help
	for _, kb := range bindings {
		if e := kb.Help(); kb.Enabled() && (e.Key != "" || e.Desc != "") {
			entries = append(entries, e)
		}
	}
	return entries
}

func lineWidth(line timeline.Line) int {
	width := 0
	for _, segment := range line {
		width += timeline.StringWidth(segment.Text)
	}
	return width
}
